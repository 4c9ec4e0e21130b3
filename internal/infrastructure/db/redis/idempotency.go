package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

const (
	idempotencyTTL = 24 * time.Hour
	pendingMarker  = "pending"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore maps client-supplied Idempotency-Key values to the incident
// they created. Key format: idem:incident:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Claim reserves key with a pending marker. A key that is already held
// reports the incident stored under it, or 0 while the first request runs.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (int64, bool, error) {
	rk := idempotencyKey(key)
	ok, err := s.client.SetNX(ctx, rk, pendingMarker, s.ttl).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	v, err := s.client.Get(ctx, rk).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; report as pending so the caller retries.
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	id, err := parseStoredID(v)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	return id, false, nil
}

// Remember replaces the pending marker under key with id.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, id int64) error {
	if err := s.client.Set(ctx, idempotencyKey(key), id, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Release drops key so a later retry can create the incident.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func parseStoredID(v string) (int64, error) {
	if v == pendingMarker {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("corrupt value %q", v)
	}
	return id, nil
}

func idempotencyKey(key string) string {
	return "idem:incident:" + key
}
