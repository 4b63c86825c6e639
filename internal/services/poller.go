package services

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"log"
	"sync"
	"time"
)

const (
	defaultPollInterval = 30 * time.Second
	fetchTimeout        = 10 * time.Second

	// Retained driver positions. History lives in process memory only and
	// is dropped oldest-first past the cap.
	historyCap = 50
)

// Poller periodically fetches the delivery state from the upstream tracking
// API, retains a bounded driver-position history, and fans complete snapshots
// out to subscribers (the dashboard connections, the SSE stream, and the
// webhook dispatcher). Duplicate upstream data is not re-broadcast.
type Poller struct {
	provider ports.TrackingProvider
	cache    ports.SnapshotCache
	interval time.Duration

	mu      sync.Mutex
	history []domain.Coordinate
	last    *domain.Snapshot
	subs    map[chan domain.Snapshot]struct{}
}

func NewPoller(provider ports.TrackingProvider, cache ports.SnapshotCache, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		provider: provider,
		cache:    cache,
		interval: interval,
		subs:     make(map[chan domain.Snapshot]struct{}),
	}
}

// Run polls until the context is canceled. The first fetch happens
// immediately so the dashboard has data without waiting a full interval.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.tick(ctx)
			t.Reset(p.interval)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	status, err := p.provider.FetchDelivery(cctx)
	if err != nil {
		log.Printf("poll failed: %v", err)
		return
	}
	if err := status.Validate(); err != nil {
		// Malformed upstream data is rejected at the boundary; prior
		// state stays untouched.
		log.Printf("poll rejected: %v", err)
		return
	}

	snap, changed := p.ingest(status)
	if !changed {
		return
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, snap); err != nil {
			log.Printf("snapshot cache write failed: %v", err)
		}
	}

	p.broadcast(snap)
}

// ingest folds a fetched status into the retained state and reports whether
// the positions actually changed (duplicates are a no-op).
func (p *Poller) ingest(status domain.DeliveryStatus) (domain.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := domain.Snapshot{
		Driver:    status.Driver,
		Customer:  status.Customer,
		FetchedAt: status.FetchedAt,
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}

	if p.last != nil && p.last.SamePositions(snap) {
		return domain.Snapshot{}, false
	}

	p.history = append(p.history, status.Driver)
	if len(p.history) > historyCap {
		p.history = append(p.history[:0:0], p.history[len(p.history)-historyCap:]...)
	}

	// Snapshots hand out a copy; subscribers never see later appends.
	snap.History = append([]domain.Coordinate(nil), p.history...)
	p.last = &snap
	return snap, true
}

// Latest returns a copy of the most recent snapshot, if any poll succeeded.
func (p *Poller) Latest() (domain.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return domain.Snapshot{}, false
	}
	return *p.last, true
}

// Subscribe registers a snapshot channel. The returned cancel function
// detaches the subscriber and closes the channel; calling it again is a no-op.
func (p *Poller) Subscribe(buffer int) (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, buffer)

	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subs[ch]; ok {
			delete(p.subs, ch)
			close(ch)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

func (p *Poller) broadcast(snap domain.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- snap:
		default:
			// Slow subscriber: drop this update rather than block the
			// poll loop. The next snapshot supersedes it anyway.
		}
	}
}
