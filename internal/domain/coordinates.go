package domain

import (
	"errors"
	"math"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Immutable geographic coordinate (latitude, longitude in decimal degrees).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate rejects NaN and out-of-range values. Malformed coordinates are
// an error at the boundary, never silently clamped.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return ErrInvalidLatitude
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// Midpoint returns the arithmetic midpoint of two coordinates.
func (c Coordinate) Midpoint(other Coordinate) Coordinate {
	return Coordinate{
		Lat: (c.Lat + other.Lat) / 2,
		Lon: (c.Lon + other.Lon) / 2,
	}
}

// Equal reports exact equality of both components.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.Lat == other.Lat && c.Lon == other.Lon
}
