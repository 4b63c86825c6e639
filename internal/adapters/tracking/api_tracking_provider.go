package tracking

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APITrackingProvider implements TrackingProvider against the upstream
// last-mile tracking HTTP API.
//
// It coordinates:
//   - Authenticated JSON requests
//   - External API calls with retry/backoff
//   - Translation of the upstream payload into domain types
//
// The provider is safe for concurrent use.
type APITrackingProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewAPITrackingProvider(baseURL, apiKey string) (*APITrackingProvider, error) {
	if baseURL == "" {
		return nil, errors.New("tracking API base URL is empty")
	}

	provider := &APITrackingProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}

	return provider, nil
}

// Upstream payload. The API is the opaque source of truth; fields not listed
// here are ignored.
type trackingResponse struct {
	Courier struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"courier"`
	Destination struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Address   string  `json:"address"`
	} `json:"destination"`
}

// FetchDelivery retrieves the delivery's current state from the upstream API.
func (t *APITrackingProvider) FetchDelivery(ctx context.Context) (_ domain.DeliveryStatus, err error) {
	defer obs.Time(ctx, "tracking.FetchDelivery")(&err)

	resp, err := t.doWithRetry(ctx, func() (*http.Request, error) {
		return t.newRequest(ctx, http.MethodGet, t.baseURL)
	})
	if err != nil {
		return domain.DeliveryStatus{}, fmt.Errorf("fetch delivery: %w", err)
	}
	defer resp.Body.Close()

	var decoded trackingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.DeliveryStatus{}, fmt.Errorf("fetch delivery: decode response: %w", err)
	}

	status := domain.DeliveryStatus{
		Driver: domain.Coordinate{
			Lat: decoded.Courier.Latitude,
			Lon: decoded.Courier.Longitude,
		},
		Customer: domain.CustomerLocation{
			Position: domain.Coordinate{
				Lat: decoded.Destination.Latitude,
				Lon: decoded.Destination.Longitude,
			},
			Address: decoded.Destination.Address,
		},
		FetchedAt: time.Now(),
	}

	// Out-of-range upstream data is an error here, before anything
	// downstream sees it.
	if err := status.Validate(); err != nil {
		return domain.DeliveryStatus{}, fmt.Errorf("fetch delivery: %w", err)
	}

	return status, nil
}
