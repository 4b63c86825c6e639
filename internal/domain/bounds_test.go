package domain

import (
	"math"
	"testing"
)

func TestBoundsContainsEdgeInclusive(t *testing.T) {
	b := Bounds{
		SW: Coordinate{Lat: 49.0, Lon: -124.0},
		NE: Coordinate{Lat: 50.0, Lon: -123.0},
	}

	cases := []struct {
		name  string
		point Coordinate
		want  bool
	}{
		{"interior", Coordinate{Lat: 49.5, Lon: -123.5}, true},
		{"on south edge", Coordinate{Lat: 49.0, Lon: -123.5}, true},
		{"on ne corner", Coordinate{Lat: 50.0, Lon: -123.0}, true},
		{"north of bounds", Coordinate{Lat: 50.1, Lon: -123.5}, false},
		{"west of bounds", Coordinate{Lat: 49.5, Lon: -124.5}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.point); got != tc.want {
				t.Fatalf("Contains(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	points := []Coordinate{
		{Lat: 49.28, Lon: -123.12},
		{Lat: 49.30, Lon: -123.10},
		{Lat: 49.40, Lon: -123.00},
	}

	b, ok := BoundsOf(points)
	if !ok {
		t.Fatal("expected bounds for non-empty points")
	}

	want := Bounds{
		SW: Coordinate{Lat: 49.28, Lon: -123.12},
		NE: Coordinate{Lat: 49.40, Lon: -123.00},
	}
	if b != want {
		t.Fatalf("BoundsOf = %+v, want %+v", b, want)
	}

	if _, ok := BoundsOf(nil); ok {
		t.Fatal("expected no bounds for empty points")
	}
}

func TestBoundsPad(t *testing.T) {
	b := Bounds{
		SW: Coordinate{Lat: 49.0, Lon: -124.0},
		NE: Coordinate{Lat: 50.0, Lon: -123.0},
	}

	padded := b.Pad(0.10)

	if math.Abs(padded.SW.Lat-48.9) > 1e-9 || math.Abs(padded.NE.Lat-50.1) > 1e-9 {
		t.Errorf("padded lat span = [%v, %v], want [48.9, 50.1]", padded.SW.Lat, padded.NE.Lat)
	}
	if math.Abs(padded.SW.Lon-(-124.1)) > 1e-9 || math.Abs(padded.NE.Lon-(-122.9)) > 1e-9 {
		t.Errorf("padded lon span = [%v, %v], want [-124.1, -122.9]", padded.SW.Lon, padded.NE.Lon)
	}
}

func TestBoundsPadDegeneratePoint(t *testing.T) {
	b := NewBounds(Coordinate{Lat: 49.28, Lon: -123.12})

	padded := b.Pad(0.10)
	if padded != b {
		t.Fatalf("padding a zero-span box should not move it, got %+v", padded)
	}
}
