package cache

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "tracker:snapshot:latest"

// Redis-backed cache for the latest snapshot. Lets several service instances
// share one upstream poll; only the most recent snapshot is stored, never
// history.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func (r *RedisSnapshotCache) Get(ctx context.Context) (domain.Snapshot, bool, error) {
	if r.client == nil {
		return domain.Snapshot{}, false, errors.New("snapshot cache: redis client is nil")
	}

	raw, err := r.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("get snapshot cache: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("get snapshot cache: decode: %w", err)
	}
	return snap, true, nil
}

func (r *RedisSnapshotCache) Put(ctx context.Context, snap domain.Snapshot) error {
	if r.client == nil {
		return errors.New("snapshot cache: redis client is nil")
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("put snapshot cache: encode: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("put snapshot cache: %w", err)
	}
	return nil
}
