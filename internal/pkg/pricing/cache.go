package pricing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	nextAvailableKey = "pricing:next_available"
	roomStatsKey     = "pricing:room_stats"
)

// CachedGateway caches the non-authoritative reads (next-available dates and
// room stats) in Redis for a short TTL. Catalog and pricing always hit the
// origin: quote reconciliation requires fresh reads.
type CachedGateway struct {
	*Client
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedGateway wraps a client with a Redis cache. A nil Redis client
// yields a pass-through gateway.
func NewCachedGateway(client *Client, rdb *redis.Client, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedGateway{Client: client, redis: rdb, ttl: ttl}
}

// FetchNextAvailable returns the cached next-available map when fresh.
func (g *CachedGateway) FetchNextAvailable(ctx context.Context) (map[int]string, error) {
	if g.redis == nil {
		return g.Client.FetchNextAvailable(ctx)
	}

	if cached, err := g.redis.Get(ctx, nextAvailableKey).Bytes(); err == nil {
		var dates map[int]string
		if err := json.Unmarshal(cached, &dates); err == nil {
			return dates, nil
		}
	}

	dates, err := g.Client.FetchNextAvailable(ctx)
	if err != nil {
		return nil, err
	}

	g.store(ctx, nextAvailableKey, dates)
	return dates, nil
}

// FetchRoomStats returns the cached occupancy stats when fresh.
func (g *CachedGateway) FetchRoomStats(ctx context.Context) (*RoomStats, error) {
	if g.redis == nil {
		return g.Client.FetchRoomStats(ctx)
	}

	if cached, err := g.redis.Get(ctx, roomStatsKey).Bytes(); err == nil {
		var stats RoomStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := g.Client.FetchRoomStats(ctx)
	if err != nil {
		return nil, err
	}

	g.store(ctx, roomStatsKey, stats)
	return stats, nil
}

// store writes a cache entry best-effort; a cache failure never fails a read.
func (g *CachedGateway) store(ctx context.Context, key string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := g.redis.Set(ctx, key, payload, g.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write pricing cache entry")
	}
}
