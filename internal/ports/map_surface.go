package ports

import (
	"delivery-tracker-service/internal/domain"
	"time"
)

// MarkerKind identifies one of the fixed overlays on the map surface.
// The rendering collaborator draws driver above customer above user so
// overlapping markers resolve predictably.
type MarkerKind string

const (
	MarkerDriver   MarkerKind = "driver"
	MarkerCustomer MarkerKind = "customer"
	MarkerUser     MarkerKind = "user"
)

// ZOrder returns the fixed display layer for a marker kind (higher on top).
func (k MarkerKind) ZOrder() int {
	switch k {
	case MarkerDriver:
		return 3
	case MarkerCustomer:
		return 2
	case MarkerUser:
		return 1
	}
	return 0
}

// FitOptions controls a fit-to-bounds viewport transition.
type FitOptions struct {
	// MaxZoom caps the resulting zoom so coincident points do not over-zoom.
	MaxZoom float64
	// PaddingPx is the pixel inset applied when rendering the fitted region.
	PaddingPx int
	// Duration of the animated transition; zero snaps immediately.
	Duration time.Duration
}

// Port: the capability boundary consumed from the map-rendering collaborator.
//
// All mutations are synchronous from the caller's perspective even though the
// underlying rendering may animate asynchronously. An implementation reports
// a rendering-surface failure (for example, a released surface) by returning
// an error; callers do not attempt recovery.
type MapSurface interface {
	// Init binds the surface to its display region at a center and zoom.
	Init(center domain.Coordinate, zoom float64) error

	// AddMarker creates a point overlay with a label at its fixed z-order.
	AddMarker(kind MarkerKind, at domain.Coordinate, label string) error

	// MoveMarker repositions an existing point overlay without recreating it.
	MoveMarker(kind MarkerKind, to domain.Coordinate) error

	// SetMarkerPopup attaches or updates the text popup on a point overlay.
	SetMarkerPopup(kind MarkerKind, text string) error

	// SetPath creates or replaces the polyline overlay's ordered point list.
	SetPath(points []domain.Coordinate) error

	// VisibleBounds returns the region currently visible on the surface.
	VisibleBounds() (domain.Bounds, error)

	// FitBounds animates the viewport to show the given region.
	FitBounds(b domain.Bounds, opts FitOptions) error

	// EaseTo animates the viewport to a center and zoom.
	EaseTo(center domain.Coordinate, zoom float64, d time.Duration) error

	// Release frees the surface and every overlay. Further calls fail.
	Release() error
}
