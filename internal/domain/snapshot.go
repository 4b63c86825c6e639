package domain

import (
	"fmt"
	"time"
)

// Customer delivery destination: a coordinate plus the display-only address text.
type CustomerLocation struct {
	Position Coordinate `json:"position"`
	Address  string     `json:"address"`
}

// Upstream tracking state for one delivery as returned by the tracking API.
// It carries no history; the poller retains that.
type DeliveryStatus struct {
	Driver    Coordinate       `json:"driver"`
	Customer  CustomerLocation `json:"customer"`
	FetchedAt time.Time        `json:"fetched_at"`
}

func (d DeliveryStatus) Validate() error {
	if err := d.Driver.Validate(); err != nil {
		return fmt.Errorf("delivery status: driver: %w", err)
	}
	if err := d.Customer.Position.Validate(); err != nil {
		return fmt.Errorf("delivery status: customer: %w", err)
	}
	return nil
}

// Snapshot is one complete view of a delivery in progress: the authoritative
// current positions, the retained driver history (oldest first), and the
// optional one-shot user location.
type Snapshot struct {
	Driver    Coordinate       `json:"driver"`
	Customer  CustomerLocation `json:"customer"`
	History   []Coordinate     `json:"history"`
	User      *Coordinate      `json:"user,omitempty"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Validate checks every coordinate the snapshot carries. Callers reject the
// whole snapshot before touching any derived state (no partial update).
func (s Snapshot) Validate() error {
	if err := s.Driver.Validate(); err != nil {
		return fmt.Errorf("snapshot: driver: %w", err)
	}
	if err := s.Customer.Position.Validate(); err != nil {
		return fmt.Errorf("snapshot: customer: %w", err)
	}
	for i, p := range s.History {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("snapshot: history[%d]: %w", i, err)
		}
	}
	if s.User != nil {
		if err := s.User.Validate(); err != nil {
			return fmt.Errorf("snapshot: user: %w", err)
		}
	}
	return nil
}

// SamePositions reports whether two snapshots describe identical driver and
// customer positions. Used to suppress broadcasts for duplicate upstream data.
func (s Snapshot) SamePositions(other Snapshot) bool {
	return s.Driver.Equal(other.Driver) &&
		s.Customer.Position.Equal(other.Customer.Position) &&
		s.Customer.Address == other.Customer.Address
}
