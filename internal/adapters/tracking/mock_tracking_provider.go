package tracking

import (
	"context"
	"delivery-tracker-service/internal/domain"
	"sync"
)

// MockTrackingProvider returns whatever state the test last installed.
type MockTrackingProvider struct {
	mu     sync.Mutex
	status domain.DeliveryStatus
	err    error
}

func NewMockTrackingProvider(status domain.DeliveryStatus) *MockTrackingProvider {
	return &MockTrackingProvider{status: status}
}

// Set installs the next delivery state to report.
func (p *MockTrackingProvider) Set(status domain.DeliveryStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.err = nil
}

// SetError makes every following fetch fail with err until Set is called.
func (p *MockTrackingProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *MockTrackingProvider) FetchDelivery(ctx context.Context) (domain.DeliveryStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return domain.DeliveryStatus{}, p.err
	}
	return p.status, nil
}
