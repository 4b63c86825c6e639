package ports

import (
	"context"
	"delivery-tracker-service/internal/domain"
)

// Port: a cache holding the most recent upstream snapshot so the poll-relay
// and stream endpoints can answer without hitting the tracking API.
// Only the latest snapshot is retained; history persistence is out of scope.
type SnapshotCache interface {
	// Get returns the cached snapshot. The second value is false when the
	// cache is empty or the entry has expired.
	Get(ctx context.Context) (domain.Snapshot, bool, error)

	// Put stores the snapshot, replacing any previous entry.
	Put(ctx context.Context, snap domain.Snapshot) error
}
