package cache

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisSnapshotCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSnapshotCache(client, ttl), srv
}

func TestRedisSnapshotCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v, want miss", ok, err)
	}

	snap := domain.Snapshot{
		Driver: domain.Coordinate{Lat: 49.28, Lon: -123.12},
		Customer: domain.CustomerLocation{
			Position: domain.Coordinate{Lat: 49.30, Lon: -123.10},
			Address:  "221B Water St, Vancouver",
		},
		History: []domain.Coordinate{
			{Lat: 49.27, Lon: -123.13},
			{Lat: 49.28, Lon: -123.12},
		},
	}
	if err := c.Put(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if !got.Driver.Equal(snap.Driver) || got.Customer.Address != snap.Customer.Address {
		t.Fatalf("got %+v, want %+v", got, snap)
	}
	if len(got.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(got.History))
	}
}

func TestRedisSnapshotCacheExpiry(t *testing.T) {
	c, srv := newTestCache(t, time.Minute)
	ctx := context.Background()

	snap := domain.Snapshot{
		Driver:   domain.Coordinate{Lat: 1, Lon: 2},
		Customer: domain.CustomerLocation{Position: domain.Coordinate{Lat: 3, Lon: 4}},
	}
	if err := c.Put(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("expired entry: ok=%v err=%v, want miss", ok, err)
	}
}
