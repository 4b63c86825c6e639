package ports

import (
	"context"
	"delivery-tracker-service/internal/domain"
)

// Port: a boundary for fetching the current state of a delivery from the
// upstream last-mile tracking API.
type TrackingProvider interface {
	// Return the driver's current position and the customer's delivery
	// location as reported by the upstream API.
	FetchDelivery(ctx context.Context) (domain.DeliveryStatus, error)
}
