package surface

import (
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"errors"
	"math"
	"sync"
	"time"
)

// ErrReleased is returned when a surface is used after Release.
var ErrReleased = errors.New("map surface released")

// Command is one map mutation sent to the browser renderer. Only the fields
// relevant to the op are populated; the rest are omitted from the JSON.
type Command struct {
	Op         string              `json:"op"`
	Kind       ports.MarkerKind    `json:"kind,omitempty"`
	ZOrder     int                 `json:"zOrder,omitempty"`
	At         *domain.Coordinate  `json:"at,omitempty"`
	Label      string              `json:"label,omitempty"`
	Text       string              `json:"text,omitempty"`
	Points     []domain.Coordinate `json:"points,omitempty"`
	Bounds     *domain.Bounds      `json:"bounds,omitempty"`
	Zoom       float64             `json:"zoom,omitempty"`
	MaxZoom    float64             `json:"maxZoom,omitempty"`
	PaddingPx  int                 `json:"paddingPx,omitempty"`
	DurationMs int64               `json:"durationMs,omitempty"`
}

// Sink delivers commands to the renderer, typically over a websocket.
type Sink interface {
	Send(cmd Command) error
}

// CommandSurface implements the map capability boundary by translating each
// call into a JSON command for a browser-side renderer. The renderer reports
// its viewport back asynchronously; between reports VisibleBounds answers from
// the last known center and zoom.
//
// A CommandSurface belongs to exactly one dashboard connection and is driven
// by that connection's goroutine, but viewport reports arrive from the reader
// goroutine, so the viewport state is guarded.
type CommandSurface struct {
	sink Sink

	mu       sync.Mutex
	released bool
	center   domain.Coordinate
	zoom     float64
	reported domain.Bounds
	hasRep   bool
}

func NewCommandSurface(sink Sink) *CommandSurface {
	return &CommandSurface{sink: sink}
}

func (s *CommandSurface) send(cmd Command) error {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released {
		return ErrReleased
	}
	return s.sink.Send(cmd)
}

func (s *CommandSurface) Init(center domain.Coordinate, zoom float64) error {
	if err := s.send(Command{Op: "init", At: &center, Zoom: zoom}); err != nil {
		return err
	}
	s.mu.Lock()
	s.center = center
	s.zoom = zoom
	s.mu.Unlock()
	return nil
}

func (s *CommandSurface) AddMarker(kind ports.MarkerKind, at domain.Coordinate, label string) error {
	return s.send(Command{Op: "add_marker", Kind: kind, ZOrder: kind.ZOrder(), At: &at, Label: label})
}

func (s *CommandSurface) MoveMarker(kind ports.MarkerKind, to domain.Coordinate) error {
	return s.send(Command{Op: "move_marker", Kind: kind, At: &to})
}

func (s *CommandSurface) SetMarkerPopup(kind ports.MarkerKind, text string) error {
	return s.send(Command{Op: "set_popup", Kind: kind, Text: text})
}

func (s *CommandSurface) SetPath(points []domain.Coordinate) error {
	return s.send(Command{Op: "set_path", Points: points})
}

// VisibleBounds prefers the renderer's last viewport report. Before the first
// report it approximates the viewport from the last commanded center and zoom.
func (s *CommandSurface) VisibleBounds() (domain.Bounds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return domain.Bounds{}, ErrReleased
	}
	if s.hasRep {
		return s.reported, nil
	}
	return approximateViewport(s.center, s.zoom), nil
}

func (s *CommandSurface) FitBounds(b domain.Bounds, opts ports.FitOptions) error {
	if err := s.send(Command{
		Op:         "fit_bounds",
		Bounds:     &b,
		MaxZoom:    opts.MaxZoom,
		PaddingPx:  opts.PaddingPx,
		DurationMs: opts.Duration.Milliseconds(),
	}); err != nil {
		return err
	}
	s.mu.Lock()
	s.center = b.Center()
	// The renderer picks the real zoom; the next viewport report corrects
	// the approximation.
	s.reported = b
	s.hasRep = true
	s.mu.Unlock()
	return nil
}

func (s *CommandSurface) EaseTo(center domain.Coordinate, zoom float64, d time.Duration) error {
	if err := s.send(Command{Op: "ease_to", At: &center, Zoom: zoom, DurationMs: d.Milliseconds()}); err != nil {
		return err
	}
	s.mu.Lock()
	s.center = center
	s.zoom = zoom
	s.hasRep = false
	s.mu.Unlock()
	return nil
}

func (s *CommandSurface) Release() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	s.released = true
	s.mu.Unlock()
	return s.sink.Send(Command{Op: "release"})
}

// UpdateViewport records a viewport report from the renderer. Called by the
// connection's reader goroutine whenever the browser map settles after a move.
func (s *CommandSurface) UpdateViewport(b domain.Bounds, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.reported = b
	s.center = b.Center()
	s.zoom = zoom
	s.hasRep = true
}

// approximateViewport derives a plausible visible region from center and zoom
// using the web-mercator degrees-per-tile relationship, assuming a roughly
// 1024x768 viewport. Only used before the renderer's first report.
func approximateViewport(center domain.Coordinate, zoom float64) domain.Bounds {
	if zoom <= 0 {
		zoom = 1
	}
	// 360 degrees of longitude span 2^zoom tiles of 256px each.
	degPerPx := 360 / (256 * math.Exp2(zoom))
	halfLon := degPerPx * 512
	halfLat := degPerPx * 384
	return domain.Bounds{
		SW: domain.Coordinate{Lat: center.Lat - halfLat, Lon: center.Lon - halfLon},
		NE: domain.Coordinate{Lat: center.Lat + halfLat, Lon: center.Lon + halfLon},
	}
}
