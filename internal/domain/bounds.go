package domain

// Bounds is a rectangular geographic region defined by its south-west and
// north-east corners.
type Bounds struct {
	SW Coordinate `json:"sw"`
	NE Coordinate `json:"ne"`
}

// NewBounds returns the degenerate bounds containing exactly one point.
func NewBounds(p Coordinate) Bounds {
	return Bounds{SW: p, NE: p}
}

// BoundsOf computes the smallest bounds containing every point.
// The second return value is false when points is empty.
func BoundsOf(points []Coordinate) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := NewBounds(points[0])
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// Contains reports whether p lies within the bounds.
// A point exactly on the edge counts as contained.
func (b Bounds) Contains(p Coordinate) bool {
	return p.Lat >= b.SW.Lat && p.Lat <= b.NE.Lat &&
		p.Lon >= b.SW.Lon && p.Lon <= b.NE.Lon
}

// Extend grows the bounds just enough to include p.
func (b Bounds) Extend(p Coordinate) Bounds {
	if p.Lat < b.SW.Lat {
		b.SW.Lat = p.Lat
	}
	if p.Lat > b.NE.Lat {
		b.NE.Lat = p.Lat
	}
	if p.Lon < b.SW.Lon {
		b.SW.Lon = p.Lon
	}
	if p.Lon > b.NE.Lon {
		b.NE.Lon = p.Lon
	}
	return b
}

// Pad expands each side by fraction of the corresponding span, so contained
// points are never flush against the edge after a viewport fit.
func (b Bounds) Pad(fraction float64) Bounds {
	latPad := (b.NE.Lat - b.SW.Lat) * fraction
	lonPad := (b.NE.Lon - b.SW.Lon) * fraction
	return Bounds{
		SW: Coordinate{Lat: b.SW.Lat - latPad, Lon: b.SW.Lon - lonPad},
		NE: Coordinate{Lat: b.NE.Lat + latPad, Lon: b.NE.Lon + lonPad},
	}
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Coordinate {
	return b.SW.Midpoint(b.NE)
}

// IsZero reports whether the bounds are the zero value.
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}
