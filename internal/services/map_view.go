package services

import (
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"errors"
	"fmt"
	"time"
)

// Viewport policy. Zoom levels follow the usual web-mercator tile scale.
const (
	initialZoom  = 13.0
	closeUpZoom  = 16.0
	recenterZoom = 15.0
	maxFitZoom   = 16.0

	fitPadFraction = 0.10
	fitPaddingPx   = 48
	viewAnimation  = 500 * time.Millisecond

	// The re-fit check only examines this many trailing history points;
	// older points are already visible or deliberately ignored.
	refitLookback = 3

	// A polyline needs at least two points.
	pathMinPoints = 2
)

var (
	ErrNotInitialized = errors.New("map view: not initialized")
	ErrDisposed       = errors.New("map view: disposed")
	ErrNoUserLocation = errors.New("map view: no user location known")
)

type viewState int

const (
	stateUninitialized viewState = iota
	stateInitialized
	stateDisposed
)

// MapViewController presents a live view of one delivery in progress on a map
// surface it owns exclusively. New snapshots mutate existing overlays in
// place instead of rebuilding the map, which would reset user pan/zoom and
// flicker. The viewport is re-fit only when recent history escapes the
// visible bounds.
//
// The controller is single-threaded by contract: the caller serializes
// Initialize, ApplySnapshot, the recenter operations and Dispose. State moves
// UNINITIALIZED -> INITIALIZED -> DISPOSED with no path back.
type MapViewController struct {
	surface ports.MapSurface
	state   viewState

	// Optional overlays exist iff their backing data was non-empty when
	// they were first needed.
	hasUserOverlay bool
	hasPathOverlay bool

	last domain.Snapshot
}

func NewMapViewController(surface ports.MapSurface) *MapViewController {
	return &MapViewController{surface: surface}
}

// Initialize creates the map surface centered on the driver/customer midpoint,
// creates the mandatory overlays, and performs one fit-to-all-points
// adjustment. Calling it again on a live controller is a no-op.
func (c *MapViewController) Initialize(initial domain.Snapshot) error {
	switch c.state {
	case stateDisposed:
		return ErrDisposed
	case stateInitialized:
		return nil
	}

	if err := initial.Validate(); err != nil {
		return fmt.Errorf("initialize map view: %w", err)
	}

	center := initial.Driver.Midpoint(initial.Customer.Position)
	if err := c.surface.Init(center, initialZoom); err != nil {
		return fmt.Errorf("initialize map view: create surface: %w", err)
	}

	// From here on a created surface exists. A failure below must release
	// it: the controller never reaches INITIALIZED, so Dispose would not.
	if err := c.populate(initial); err != nil {
		_ = c.surface.Release()
		return fmt.Errorf("initialize map view: %w", err)
	}

	c.last = initial
	c.state = stateInitialized
	return nil
}

func (c *MapViewController) populate(initial domain.Snapshot) error {
	c.hasUserOverlay = false
	c.hasPathOverlay = false

	if err := c.surface.AddMarker(ports.MarkerDriver, initial.Driver, "Driver"); err != nil {
		return fmt.Errorf("driver marker: %w", err)
	}
	if err := c.surface.AddMarker(ports.MarkerCustomer, initial.Customer.Position, "Delivery address"); err != nil {
		return fmt.Errorf("customer marker: %w", err)
	}
	if err := c.surface.SetMarkerPopup(ports.MarkerCustomer, initial.Customer.Address); err != nil {
		return fmt.Errorf("customer popup: %w", err)
	}

	// Device location is sampled once by the caller before the first
	// snapshot; a missing user location is a normal, permanent state.
	if initial.User != nil {
		if err := c.surface.AddMarker(ports.MarkerUser, *initial.User, "You"); err != nil {
			return fmt.Errorf("user marker: %w", err)
		}
		c.hasUserOverlay = true
	}

	if len(initial.History) >= pathMinPoints {
		if err := c.surface.SetPath(initial.History); err != nil {
			return fmt.Errorf("path overlay: %w", err)
		}
		c.hasPathOverlay = true
	}

	if err := c.fitToPoints(initial); err != nil {
		return fmt.Errorf("fit viewport: %w", err)
	}
	return nil
}

// ApplySnapshot moves the existing overlays to the latest positions, lazily
// creates the path overlay the first time history reaches two points, and
// re-fits the viewport when the refit heuristic demands it.
//
// A malformed snapshot is rejected before any overlay mutation, leaving the
// previous view intact.
func (c *MapViewController) ApplySnapshot(snap domain.Snapshot) error {
	if err := c.requireLive(); err != nil {
		return err
	}

	if err := snap.Validate(); err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	if err := c.surface.MoveMarker(ports.MarkerDriver, snap.Driver); err != nil {
		return fmt.Errorf("apply snapshot: move driver: %w", err)
	}
	if err := c.surface.MoveMarker(ports.MarkerCustomer, snap.Customer.Position); err != nil {
		return fmt.Errorf("apply snapshot: move customer: %w", err)
	}
	if err := c.surface.SetMarkerPopup(ports.MarkerCustomer, snap.Customer.Address); err != nil {
		return fmt.Errorf("apply snapshot: customer popup: %w", err)
	}

	// The user overlay is only ever created at initialization. A location
	// arriving later is ignored; the device is sampled exactly once.
	if snap.User != nil && c.hasUserOverlay {
		if err := c.surface.MoveMarker(ports.MarkerUser, *snap.User); err != nil {
			return fmt.Errorf("apply snapshot: move user: %w", err)
		}
	}

	if len(snap.History) >= pathMinPoints {
		if err := c.surface.SetPath(snap.History); err != nil {
			return fmt.Errorf("apply snapshot: path overlay: %w", err)
		}
		c.hasPathOverlay = true
	}

	visible, err := c.surface.VisibleBounds()
	if err != nil {
		return fmt.Errorf("apply snapshot: visible bounds: %w", err)
	}
	if ShouldRefit(snap.History, visible) {
		if err := c.fitToPoints(snap); err != nil {
			return fmt.Errorf("apply snapshot: fit viewport: %w", err)
		}
	}

	c.last = snap
	return nil
}

// CenterOnDriver moves the viewport to the driver without altering overlays.
func (c *MapViewController) CenterOnDriver() error {
	if err := c.requireLive(); err != nil {
		return err
	}
	return c.surface.EaseTo(c.last.Driver, recenterZoom, viewAnimation)
}

// CenterOnCustomer moves the viewport to the delivery address.
func (c *MapViewController) CenterOnCustomer() error {
	if err := c.requireLive(); err != nil {
		return err
	}
	return c.surface.EaseTo(c.last.Customer.Position, recenterZoom, viewAnimation)
}

// CenterOnUser moves the viewport to the user's own location, when known.
func (c *MapViewController) CenterOnUser() error {
	if err := c.requireLive(); err != nil {
		return err
	}
	if c.last.User == nil {
		return ErrNoUserLocation
	}
	return c.surface.EaseTo(*c.last.User, recenterZoom, viewAnimation)
}

// Dispose releases the map surface and every overlay handle. Safe to call at
// any time, including while an animation is in progress; further snapshot
// calls fail with ErrDisposed.
func (c *MapViewController) Dispose() error {
	if c.state == stateDisposed {
		return nil
	}
	live := c.state == stateInitialized
	c.state = stateDisposed
	if !live {
		return nil
	}
	if err := c.surface.Release(); err != nil {
		return fmt.Errorf("dispose map view: %w", err)
	}
	return nil
}

func (c *MapViewController) requireLive() error {
	switch c.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateDisposed:
		return ErrDisposed
	}
	return nil
}
