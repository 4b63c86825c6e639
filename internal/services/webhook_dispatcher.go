package services

import (
	"bytes"
	"context"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const dispatchConcurrency = 5

// WebhookDispatcher re-publishes every broadcast snapshot to the registered
// webhook targets. Targets are independent: a dead subscriber is logged and
// skipped, never allowed to block the rest.
type WebhookDispatcher struct {
	repo   ports.SubscriptionRepository
	client *http.Client
}

func NewWebhookDispatcher(repo ports.SubscriptionRepository) *WebhookDispatcher {
	return &WebhookDispatcher{
		repo:   repo,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Run consumes snapshots until the channel closes or the context is canceled.
func (d *WebhookDispatcher) Run(ctx context.Context, snapshots <-chan domain.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			d.Dispatch(ctx, snap)
		}
	}
}

// Dispatch POSTs the snapshot to every registered target with bounded
// concurrency.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, snap domain.Snapshot) {
	subs, err := d.repo.List(ctx)
	if err != nil {
		log.Printf("webhook dispatch: list subscriptions failed: %v", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	body, err := json.Marshal(snap)
	if err != nil {
		log.Printf("webhook dispatch: encode snapshot failed: %v", err)
		return
	}

	sem := make(chan struct{}, dispatchConcurrency)
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub domain.Subscription) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if err := d.post(ctx, sub.TargetURL, body); err != nil {
				log.Printf("webhook dispatch: id=%s target=%s err=%v", sub.ID, sub.TargetURL, err)
				return
			}
		}(sub)
	}
	wg.Wait()
}

type deliveryStatusError struct {
	Code int
	Body string
}

func (e *deliveryStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// post retries transient failures (network errors, 429, 5xx responses) with
// exponential backoff while respecting context cancellation.
func (d *WebhookDispatcher) post(ctx context.Context, target string, body []byte) error {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		lastErr = d.doOnce(req)
		if lastErr == nil {
			return nil
		}

		retry := false
		var se *deliveryStatusError
		if errors.As(lastErr, &se) {
			switch se.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(lastErr, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return lastErr
}

func (d *WebhookDispatcher) doOnce(req *http.Request) error {
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &deliveryStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
