package api

import (
	"bufio"
	"context"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type routerSource struct {
	snap domain.Snapshot
}

func (s routerSource) Latest() (domain.Snapshot, bool) { return s.snap, true }

type routerSubscriber struct {
	ch chan domain.Snapshot
}

func (s routerSubscriber) Subscribe(buffer int) (<-chan domain.Snapshot, func()) {
	return s.ch, func() {}
}

type routerRepo struct{}

func (routerRepo) Insert(ctx context.Context, sub domain.Subscription) error { return nil }
func (routerRepo) List(ctx context.Context) ([]domain.Subscription, error)   { return nil, nil }
func (routerRepo) Delete(ctx context.Context, id string) error {
	return ports.ErrSubscriptionNotFound
}

func newTestRouter(t *testing.T) *httptest.Server {
	t.Helper()

	snap := domain.Snapshot{
		Driver: domain.Coordinate{Lat: 49.28, Lon: -123.12},
		Customer: domain.CustomerLocation{
			Position: domain.Coordinate{Lat: 49.30, Lon: -123.10},
			Address:  "221B Water St, Vancouver",
		},
		History: []domain.Coordinate{{Lat: 49.28, Lon: -123.12}},
	}

	srv := httptest.NewServer(NewRouter(Deps{
		Source:     routerSource{snap: snap},
		Subscriber: routerSubscriber{ch: make(chan domain.Snapshot)},
		Repo:       routerRepo{},
	}))
	t.Cleanup(srv.Close)
	return srv
}

// The live endpoints must work through the composed stack, logging wrapper
// included: the stream needs Flush and the socket upgrade needs Hijack from
// the wrapped response writer.
func TestRouterServesEventStream(t *testing.T) {
	srv := newTestRouter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/stream", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 SSE stream", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q", got)
	}

	// The catch-up event arrives without waiting for a broadcast.
	scanner := bufio.NewScanner(resp.Body)
	var sawEvent, sawData bool
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: snapshot" {
			sawEvent = true
		}
		if strings.HasPrefix(line, "data: ") && strings.Contains(line, "221B Water St, Vancouver") {
			sawData = true
		}
		if sawEvent && sawData {
			return
		}
	}
	t.Fatalf("stream ended without a snapshot event: event=%v data=%v err=%v",
		sawEvent, sawData, scanner.Err())
}

func TestRouterServesDashboardSocket(t *testing.T) {
	srv := newTestRouter(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial through router: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(map[string]string{"type": "hello"}); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	// A full session: the controller builds the map and ends with a fit.
	var ops []string
	for {
		var cmd struct {
			Op string `json:"op"`
		}
		if err := conn.ReadJSON(&cmd); err != nil {
			t.Fatalf("read command after %v: %v", ops, err)
		}
		ops = append(ops, cmd.Op)
		if cmd.Op == "fit_bounds" {
			break
		}
		if len(ops) > 20 {
			t.Fatalf("no fit_bounds command in %v", ops)
		}
	}
	if ops[0] != "init" {
		t.Fatalf("command sequence = %v, want init first", ops)
	}
}
