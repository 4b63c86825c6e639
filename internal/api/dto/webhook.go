package dto

import "time"

type CreateSubscriptionRequest struct {
	URL string `json:"url"`
}

type SubscriptionResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}
