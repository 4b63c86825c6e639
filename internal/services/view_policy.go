package services

import (
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
)

// ShouldRefit decides whether the viewport must be re-fit after a snapshot.
//
// Only the most recent refitLookback history points are examined: checking
// the full history would re-trigger on old, already-visible points, and the
// bounded lookback keeps the per-tick check cheap. Returns true iff at least
// one of those points falls outside the given visible bounds; a point exactly
// on the edge counts as contained. Histories shorter than two points never
// force a re-fit.
func ShouldRefit(history []domain.Coordinate, visible domain.Bounds) bool {
	if len(history) < pathMinPoints {
		return false
	}
	start := len(history) - refitLookback
	if start < 0 {
		start = 0
	}
	for _, p := range history[start:] {
		if !visible.Contains(p) {
			return true
		}
	}
	return false
}

// fitToPoints adjusts the viewport to show every known point: driver,
// customer, the full history, and the user when present. The bounding box is
// expanded by a proportional margin and rendered with a pixel inset so points
// are never flush against the edge; the zoom is capped so coincident points
// do not over-zoom. A single distinct point skips the bounding box entirely
// and centers at a fixed close-up zoom. Transitions are always animated.
func (c *MapViewController) fitToPoints(snap domain.Snapshot) error {
	points := collectPoints(snap)

	if len(points) == 1 {
		return c.surface.EaseTo(points[0], closeUpZoom, viewAnimation)
	}

	box, ok := domain.BoundsOf(points)
	if !ok {
		return nil
	}
	return c.surface.FitBounds(box.Pad(fitPadFraction), ports.FitOptions{
		MaxZoom:   maxFitZoom,
		PaddingPx: fitPaddingPx,
		Duration:  viewAnimation,
	})
}

// collectPoints gathers every known point, dropping exact duplicates so a
// delivery where all points coincide is treated as a single point.
func collectPoints(snap domain.Snapshot) []domain.Coordinate {
	candidates := make([]domain.Coordinate, 0, 3+len(snap.History))
	candidates = append(candidates, snap.Driver, snap.Customer.Position)
	candidates = append(candidates, snap.History...)
	if snap.User != nil {
		candidates = append(candidates, *snap.User)
	}

	seen := make(map[domain.Coordinate]struct{}, len(candidates))
	points := make([]domain.Coordinate, 0, len(candidates))
	for _, p := range candidates {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}
	return points
}
