package ports

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"errors"
)

// Returned by repositories when a subscription id is unknown.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// Port: a boundary for storing webhook subscriptions.
type SubscriptionRepository interface {
	// Persist a new subscription.
	Insert(ctx context.Context, sub domain.Subscription) error

	// Retrieve every registered subscription.
	List(ctx context.Context) ([]domain.Subscription, error)

	// Remove a subscription by id. Returns ErrSubscriptionNotFound when
	// the id does not exist.
	Delete(ctx context.Context, id string) error
}
