package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis (optional, caches non-authoritative reads)
	RedisURL string

	// CORS
	AllowedOrigins []string

	// Reservation service (remote catalog/pricing/booking API)
	ReservationBaseURL string
	ReservationTimeout time.Duration

	// Session timings
	SearchDebounce  time.Duration
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	SessionTTL      time.Duration
	SessionSweep    time.Duration

	// Cache
	NextAvailableCacheTTL time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// CORS
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		// Reservation service
		ReservationBaseURL: getEnv("RESERVATION_API_BASE_URL", "http://localhost:8000"),
		ReservationTimeout: parseDuration(getEnv("RESERVATION_API_TIMEOUT", "10s"), 10*time.Second),

		// Session timings
		SearchDebounce:  parseDuration(getEnv("SEARCH_DEBOUNCE", "300ms"), 300*time.Millisecond),
		RefreshInterval: parseDuration(getEnv("REFRESH_INTERVAL", "60s"), 60*time.Second),
		FetchTimeout:    parseDuration(getEnv("FETCH_TIMEOUT", "15s"), 15*time.Second),
		SessionTTL:      parseDuration(getEnv("SESSION_TTL", "30m"), 30*time.Minute),
		SessionSweep:    parseDuration(getEnv("SESSION_SWEEP_INTERVAL", "5m"), 5*time.Minute),

		// Cache
		NextAvailableCacheTTL: parseDuration(getEnv("NEXT_AVAILABLE_CACHE_TTL", "30s"), 30*time.Second),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
