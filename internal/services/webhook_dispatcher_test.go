package services

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// In-memory SubscriptionRepository for dispatcher tests.
type stubSubscriptionRepo struct {
	mu   sync.Mutex
	subs []domain.Subscription
}

func (r *stubSubscriptionRepo) Insert(ctx context.Context, sub domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return nil
}

func (r *stubSubscriptionRepo) List(ctx context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Subscription(nil), r.subs...), nil
}

func (r *stubSubscriptionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.ID == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return ports.ErrSubscriptionNotFound
}

func dispatchSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Driver: domain.Coordinate{Lat: 49.28, Lon: -123.12},
		Customer: domain.CustomerLocation{
			Position: domain.Coordinate{Lat: 49.30, Lon: -123.10},
			Address:  "221B Water St, Vancouver",
		},
		History: []domain.Coordinate{{Lat: 49.28, Lon: -123.12}},
	}
}

func TestDispatchDeliversSnapshotJSON(t *testing.T) {
	var got domain.Snapshot
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	repo := &stubSubscriptionRepo{}
	_ = repo.Insert(context.Background(), domain.Subscription{ID: "a", TargetURL: srv.URL})

	d := NewWebhookDispatcher(repo)
	d.Dispatch(context.Background(), dispatchSnapshot())

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("target called %d times, want 1", calls)
	}
	if !got.Driver.Equal(domain.Coordinate{Lat: 49.28, Lon: -123.12}) {
		t.Fatalf("delivered driver = %+v", got.Driver)
	}
}

func TestDispatchIsolatesFailingTargets(t *testing.T) {
	var healthyCalls int32

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&healthyCalls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer dead.Close()

	repo := &stubSubscriptionRepo{}
	_ = repo.Insert(context.Background(), domain.Subscription{ID: "dead", TargetURL: dead.URL})
	_ = repo.Insert(context.Background(), domain.Subscription{ID: "ok", TargetURL: healthy.URL})

	d := NewWebhookDispatcher(repo)
	d.Dispatch(context.Background(), dispatchSnapshot())

	if atomic.LoadInt32(&healthyCalls) != 1 {
		t.Fatalf("healthy target called %d times, want 1", healthyCalls)
	}
}

func TestDispatchRetriesTransientFailures(t *testing.T) {
	var attempts int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := &stubSubscriptionRepo{}
	_ = repo.Insert(context.Background(), domain.Subscription{ID: "flaky", TargetURL: srv.URL})

	d := NewWebhookDispatcher(repo)
	d.Dispatch(context.Background(), dispatchSnapshot())

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("target attempted %d times, want 3", got)
	}
}

func TestDispatchDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	repo := &stubSubscriptionRepo{}
	_ = repo.Insert(context.Background(), domain.Subscription{ID: "gone", TargetURL: srv.URL})

	d := NewWebhookDispatcher(repo)
	d.Dispatch(context.Background(), dispatchSnapshot())

	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("non-retryable failure attempted %d times, want 1", got)
	}
}
