package cache

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"sync"
	"time"
)

// In-process cache for the latest snapshot. Default when no Redis address is
// configured; suitable for the single-instance deployment this service runs as.
type MemorySnapshotCache struct {
	mu      sync.Mutex
	snap    domain.Snapshot
	setAt   time.Time
	hasSnap bool
	ttl     time.Duration
}

// NewMemorySnapshotCache creates a cache whose entry expires after ttl.
// A non-positive ttl disables expiry.
func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{ttl: ttl}
}

func (m *MemorySnapshotCache) Get(ctx context.Context) (domain.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasSnap {
		return domain.Snapshot{}, false, nil
	}
	if m.ttl > 0 && time.Since(m.setAt) > m.ttl {
		m.hasSnap = false
		return domain.Snapshot{}, false, nil
	}
	return m.snap, true, nil
}

func (m *MemorySnapshotCache) Put(ctx context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap = snap
	m.setAt = time.Now()
	m.hasSnap = true
	return nil
}
