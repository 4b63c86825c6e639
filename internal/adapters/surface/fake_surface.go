package surface

import (
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"errors"
	"fmt"
	"time"
)

// SurfaceCall records one operation performed against a FakeSurface.
type SurfaceCall struct {
	Op     string
	Kind   ports.MarkerKind
	At     domain.Coordinate
	Label  string
	Text   string
	Points []domain.Coordinate
	Bounds domain.Bounds
	Zoom   float64
	Opts   ports.FitOptions
}

// FakeSurface is an in-memory MapSurface for tests. It records every call and
// tracks marker positions so assertions can inspect the resulting view state.
type FakeSurface struct {
	Calls []SurfaceCall

	// Visible is what VisibleBounds reports; tests set it directly.
	Visible domain.Bounds

	// FailWith, when set, makes operations fail (simulates a
	// rendering-surface failure). FailOn narrows the failure to a single op
	// name; empty means every op fails.
	FailWith error
	FailOn   string

	Initialized bool
	Released    bool
	Center      domain.Coordinate
	Zoom        float64
	Markers     map[ports.MarkerKind]domain.Coordinate
	Popups      map[ports.MarkerKind]string
	Path        []domain.Coordinate
}

func NewFakeSurface() *FakeSurface {
	return &FakeSurface{
		Markers: make(map[ports.MarkerKind]domain.Coordinate),
		Popups:  make(map[ports.MarkerKind]string),
	}
}

func (f *FakeSurface) check(op string) error {
	if f.FailWith != nil && (f.FailOn == "" || f.FailOn == op) {
		return f.FailWith
	}
	if f.Released {
		return errors.New("fake surface: released")
	}
	return nil
}

func (f *FakeSurface) Init(center domain.Coordinate, zoom float64) error {
	if err := f.check("init"); err != nil {
		return err
	}
	f.Initialized = true
	f.Center = center
	f.Zoom = zoom
	f.Calls = append(f.Calls, SurfaceCall{Op: "init", At: center, Zoom: zoom})
	return nil
}

func (f *FakeSurface) AddMarker(kind ports.MarkerKind, at domain.Coordinate, label string) error {
	if err := f.check("add_marker"); err != nil {
		return err
	}
	f.Markers[kind] = at
	f.Calls = append(f.Calls, SurfaceCall{Op: "add_marker", Kind: kind, At: at, Label: label})
	return nil
}

func (f *FakeSurface) MoveMarker(kind ports.MarkerKind, to domain.Coordinate) error {
	if err := f.check("move_marker"); err != nil {
		return err
	}
	if _, ok := f.Markers[kind]; !ok {
		return fmt.Errorf("fake surface: move unknown marker %q", kind)
	}
	f.Markers[kind] = to
	f.Calls = append(f.Calls, SurfaceCall{Op: "move_marker", Kind: kind, At: to})
	return nil
}

func (f *FakeSurface) SetMarkerPopup(kind ports.MarkerKind, text string) error {
	if err := f.check("set_popup"); err != nil {
		return err
	}
	f.Popups[kind] = text
	f.Calls = append(f.Calls, SurfaceCall{Op: "set_popup", Kind: kind, Text: text})
	return nil
}

func (f *FakeSurface) SetPath(points []domain.Coordinate) error {
	if err := f.check("set_path"); err != nil {
		return err
	}
	f.Path = append([]domain.Coordinate(nil), points...)
	f.Calls = append(f.Calls, SurfaceCall{Op: "set_path", Points: f.Path})
	return nil
}

func (f *FakeSurface) VisibleBounds() (domain.Bounds, error) {
	if err := f.check("visible_bounds"); err != nil {
		return domain.Bounds{}, err
	}
	return f.Visible, nil
}

func (f *FakeSurface) FitBounds(b domain.Bounds, opts ports.FitOptions) error {
	if err := f.check("fit_bounds"); err != nil {
		return err
	}
	f.Visible = b
	f.Center = b.Center()
	f.Calls = append(f.Calls, SurfaceCall{Op: "fit_bounds", Bounds: b, Opts: opts})
	return nil
}

func (f *FakeSurface) EaseTo(center domain.Coordinate, zoom float64, d time.Duration) error {
	if err := f.check("ease_to"); err != nil {
		return err
	}
	f.Center = center
	f.Zoom = zoom
	f.Calls = append(f.Calls, SurfaceCall{Op: "ease_to", At: center, Zoom: zoom})
	return nil
}

func (f *FakeSurface) Release() error {
	if f.FailWith != nil && (f.FailOn == "" || f.FailOn == "release") {
		return f.FailWith
	}
	f.Released = true
	f.Calls = append(f.Calls, SurfaceCall{Op: "release"})
	return nil
}

// CallsOf returns the recorded calls matching op, in order.
func (f *FakeSurface) CallsOf(op string) []SurfaceCall {
	out := make([]SurfaceCall, 0, len(f.Calls))
	for _, c := range f.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
