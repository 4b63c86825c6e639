package domain

import (
	"errors"
	"math"
	"testing"
)

func TestCoordinateValidate(t *testing.T) {
	cases := []struct {
		name    string
		coord   Coordinate
		wantErr error
	}{
		{"valid", Coordinate{Lat: 49.28, Lon: -123.12}, nil},
		{"lat north pole", Coordinate{Lat: 90, Lon: 0}, nil},
		{"lat south pole", Coordinate{Lat: -90, Lon: 0}, nil},
		{"lon date line", Coordinate{Lat: 0, Lon: 180}, nil},
		{"lat too high", Coordinate{Lat: 200, Lon: 0}, ErrInvalidLatitude},
		{"lat too low", Coordinate{Lat: -90.001, Lon: 0}, ErrInvalidLatitude},
		{"lon too high", Coordinate{Lat: 0, Lon: 180.5}, ErrInvalidLongitude},
		{"lon too low", Coordinate{Lat: 0, Lon: -181}, ErrInvalidLongitude},
		{"lat NaN", Coordinate{Lat: math.NaN(), Lon: 0}, ErrInvalidLatitude},
		{"lon NaN", Coordinate{Lat: 0, Lon: math.NaN()}, ErrInvalidLongitude},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.coord.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCoordinateMidpoint(t *testing.T) {
	a := Coordinate{Lat: 49.28, Lon: -123.12}
	b := Coordinate{Lat: 49.30, Lon: -123.10}

	mid := a.Midpoint(b)

	if math.Abs(mid.Lat-49.29) > 1e-9 {
		t.Errorf("midpoint lat = %v, want 49.29", mid.Lat)
	}
	if math.Abs(mid.Lon-(-123.11)) > 1e-9 {
		t.Errorf("midpoint lon = %v, want -123.11", mid.Lon)
	}
}

func TestSnapshotValidateRejectsBadHistoryPoint(t *testing.T) {
	s := Snapshot{
		Driver:   Coordinate{Lat: 1, Lon: 1},
		Customer: CustomerLocation{Position: Coordinate{Lat: 2, Lon: 2}},
		History: []Coordinate{
			{Lat: 1, Lon: 1},
			{Lat: 200, Lon: 1},
		},
	}

	err := s.Validate()
	if !errors.Is(err, ErrInvalidLatitude) {
		t.Fatalf("Validate() = %v, want ErrInvalidLatitude", err)
	}
}
