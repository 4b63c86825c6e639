package domain

import "time"

// Webhook registration made by an external automation tool.
// Every broadcast snapshot is POSTed to TargetURL until the
// subscription is deleted.
type Subscription struct {
	ID        string    `json:"id"`
	TargetURL string    `json:"target_url"`
	CreatedAt time.Time `json:"created_at"`
}
