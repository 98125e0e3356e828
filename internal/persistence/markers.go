package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// MarkerStore records one-shot flags (reminder sent, survey sent) so the
// dispatcher and worker stay idempotent across restarts. Losing a marker
// costs at most one duplicate notification, so Redis durability is enough.
type MarkerStore interface {
	Claim(ctx context.Context, kind, pqrID string) (bool, error)
}

type redisMarkerStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMarkerStore builds a Redis-backed marker store. Zero ttl means the
// markers never expire.
func NewMarkerStore(r *Redis, ttl time.Duration) MarkerStore {
	if r == nil {
		return &redisMarkerStore{}
	}
	return &redisMarkerStore{client: r.Client, ttl: ttl}
}

// Claim atomically sets the marker and reports whether this caller won it.
// Returns false when the flag was already set by an earlier call.
func (s *redisMarkerStore) Claim(ctx context.Context, kind, pqrID string) (bool, error) {
	if s.client == nil {
		// No Redis configured: treat every claim as fresh, duplicates allowed.
		return true, nil
	}
	key := fmt.Sprintf("pqr:marker:%s:%s", kind, pqrID)
	return s.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
}
