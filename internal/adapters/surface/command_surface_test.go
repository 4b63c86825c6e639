package surface

import (
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"errors"
	"testing"
	"time"
)

type recordSink struct {
	cmds []Command
	err  error
}

func (r *recordSink) Send(cmd Command) error {
	if r.err != nil {
		return r.err
	}
	r.cmds = append(r.cmds, cmd)
	return nil
}

func TestCommandSurfaceEmitsCommands(t *testing.T) {
	sink := &recordSink{}
	s := NewCommandSurface(sink)

	center := domain.Coordinate{Lat: 49.29, Lon: -123.11}
	if err := s.Init(center, 13); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddMarker(ports.MarkerDriver, center, "Driver"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.EaseTo(center, 15, 500*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.cmds) != 3 {
		t.Fatalf("sent %d commands, want 3", len(sink.cmds))
	}
	if sink.cmds[0].Op != "init" || sink.cmds[0].Zoom != 13 {
		t.Fatalf("first command = %+v", sink.cmds[0])
	}
	if sink.cmds[1].Op != "add_marker" || sink.cmds[1].ZOrder != 3 {
		t.Fatalf("marker command = %+v", sink.cmds[1])
	}
	if sink.cmds[2].DurationMs != 500 {
		t.Fatalf("ease command = %+v", sink.cmds[2])
	}
}

func TestCommandSurfacePrefersReportedViewport(t *testing.T) {
	s := NewCommandSurface(&recordSink{})
	if err := s.Init(domain.Coordinate{Lat: 49.29, Lon: -123.11}, 13); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Before any report the viewport is approximated around the center.
	approx, err := s.VisibleBounds()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx.Contains(domain.Coordinate{Lat: 49.29, Lon: -123.11}) {
		t.Fatalf("approximated viewport %+v does not contain the center", approx)
	}

	reported := domain.Bounds{
		SW: domain.Coordinate{Lat: 49.20, Lon: -123.20},
		NE: domain.Coordinate{Lat: 49.40, Lon: -123.00},
	}
	s.UpdateViewport(reported, 12)

	got, err := s.VisibleBounds()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != reported {
		t.Fatalf("visible bounds = %+v, want the reported viewport", got)
	}
}

func TestCommandSurfaceReleaseIsTerminal(t *testing.T) {
	sink := &recordSink{}
	s := NewCommandSurface(sink)

	if err := s.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Release(); !errors.Is(err, ErrReleased) {
		t.Fatalf("second release error = %v, want ErrReleased", err)
	}
	if err := s.MoveMarker(ports.MarkerDriver, domain.Coordinate{}); !errors.Is(err, ErrReleased) {
		t.Fatalf("post-release mutation error = %v, want ErrReleased", err)
	}
	if _, err := s.VisibleBounds(); !errors.Is(err, ErrReleased) {
		t.Fatalf("post-release query error = %v, want ErrReleased", err)
	}
}
