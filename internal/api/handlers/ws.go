package handlers

import (
	"delivery-tracker-service/internal/adapters/surface"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/services"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsSnapshotBuffer = 8
	wsWriteTimeout   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from this process; cross-origin pages get no
	// extra capability from the socket beyond what /api/track exposes.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is anything the dashboard page sends over the socket.
type clientMessage struct {
	Type   string             `json:"type"`
	User   *domain.Coordinate `json:"user,omitempty"`
	Bounds *domain.Bounds     `json:"bounds,omitempty"`
	Zoom   float64            `json:"zoom,omitempty"`
	Target string             `json:"target,omitempty"`
}

// wsSink serializes map commands onto one websocket connection.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) Send(cmd surface.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return s.conn.WriteJSON(cmd)
}

// WSHandler serves the live dashboard socket. Each connection gets its own
// map view controller driving a command surface; the browser renders the
// commands and reports its viewport back.
type WSHandler struct {
	Source     SnapshotSource
	Subscriber SnapshotSubscriber
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	surf := surface.NewCommandSurface(&wsSink{conn: conn})
	ctrl := services.NewMapViewController(surf)
	defer func() { _ = ctrl.Dispose() }()

	// Reader goroutine: viewport reports update the surface directly, the
	// rest is funneled to the connection loop, which is the only goroutine
	// driving the controller.
	msgs := make(chan clientMessage, 8)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(msgs)
		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("ws read failed: %v", err)
				}
				return
			}
			if msg.Type == "viewport" && msg.Bounds != nil {
				surf.UpdateViewport(*msg.Bounds, msg.Zoom)
				continue
			}
			select {
			case msgs <- msg:
			case <-done:
				return
			}
		}
	}()

	snapshots, cancel := h.Subscriber.Subscribe(wsSnapshotBuffer)
	defer cancel()

	// The page announces itself (optionally carrying a one-shot device
	// location) before the map is created.
	user, ok := h.awaitHello(r, msgs)
	if !ok {
		return
	}

	initial, ok := h.awaitSnapshot(r, snapshots)
	if !ok {
		return
	}
	initial.User = user
	if err := ctrl.Initialize(initial); err != nil {
		log.Printf("ws init failed: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-snapshots:
			if !open {
				return
			}
			snap.User = user
			if err := ctrl.ApplySnapshot(snap); err != nil {
				log.Printf("ws apply failed: %v", err)
				return
			}
		case msg, open := <-msgs:
			if !open {
				return
			}
			if msg.Type != "recenter" {
				continue
			}
			if err := h.recenter(ctrl, msg.Target); err != nil {
				if errors.Is(err, services.ErrNoUserLocation) {
					continue
				}
				log.Printf("ws recenter failed: target=%s err=%v", msg.Target, err)
				return
			}
		}
	}
}

func (h *WSHandler) awaitHello(r *http.Request, msgs <-chan clientMessage) (*domain.Coordinate, bool) {
	for {
		select {
		case <-r.Context().Done():
			return nil, false
		case msg, open := <-msgs:
			if !open {
				return nil, false
			}
			if msg.Type == "hello" {
				return msg.User, true
			}
		}
	}
}

func (h *WSHandler) awaitSnapshot(r *http.Request, snapshots <-chan domain.Snapshot) (domain.Snapshot, bool) {
	if snap, ok := h.Source.Latest(); ok {
		return snap, true
	}
	select {
	case <-r.Context().Done():
		return domain.Snapshot{}, false
	case snap, open := <-snapshots:
		return snap, open
	}
}

func (h *WSHandler) recenter(ctrl *services.MapViewController, target string) error {
	switch target {
	case "driver":
		return ctrl.CenterOnDriver()
	case "customer":
		return ctrl.CenterOnCustomer()
	case "user":
		return ctrl.CenterOnUser()
	}
	return nil
}
