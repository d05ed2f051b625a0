package session

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/luxestay/booking-api/internal/pkg/pricing"
	"github.com/luxestay/booking-api/internal/pkg/response"
)

// StatsSource reads chain-wide occupancy statistics.
type StatsSource interface {
	FetchRoomStats(ctx context.Context) (*pricing.RoomStats, error)
}

// StatsHandler serves the occupancy banner shown above search results.
type StatsHandler struct {
	source StatsSource
}

func NewStatsHandler(source StatsSource) *StatsHandler {
	return &StatsHandler{source: source}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.source.FetchRoomStats(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch room stats")
		response.BadGateway(w, "Reservation service is unavailable")
		return
	}
	response.OK(w, stats)
}
