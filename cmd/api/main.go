package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/luxestay/booking-api/internal/config"
	"github.com/luxestay/booking-api/internal/domain/session"
	"github.com/luxestay/booking-api/internal/middleware"
	"github.com/luxestay/booking-api/internal/pkg/database"
	"github.com/luxestay/booking-api/internal/pkg/logger"
	"github.com/luxestay/booking-api/internal/pkg/pricing"
	"github.com/luxestay/booking-api/internal/pkg/response"
)

const userAgent = "LuxeStay-BookingAPI/1.0"

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("reservation_api", cfg.ReservationBaseURL).
		Msg("Starting booking API")

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	client := pricing.NewClient(cfg.ReservationBaseURL, cfg.ReservationTimeout, userAgent)
	gateway := pricing.NewCachedGateway(client, rdb, cfg.NextAvailableCacheTTL)

	hub := session.NewHub()
	go hub.Run()

	sessions := session.NewService(gateway, hub, session.Config{
		Debounce:        cfg.SearchDebounce,
		RefreshInterval: cfg.RefreshInterval,
		FetchTimeout:    cfg.FetchTimeout,
	}, cfg.SessionTTL, log.Logger)
	sessions.StartJanitor(cfg.SessionSweep)
	defer sessions.Shutdown()

	router := newRouter(cfg, sessions, hub, gateway)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

func newRouter(cfg *config.Config, sessions *session.Service, hub *session.Hub, gateway *pricing.CachedGateway) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/sessions", session.Routes(session.NewHandler(sessions, hub)))
		r.Get("/stats", session.NewStatsHandler(gateway).Get)
	})

	return r
}
