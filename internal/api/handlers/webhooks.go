package handlers

import (
	"delivery-tracker-service/internal/api/dto"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WebhookHandler manages webhook subscription registration.
type WebhookHandler struct {
	Repo ports.SubscriptionRepository
}

// Collection handles POST (register) and GET (list) on /api/webhooks.
func (h *WebhookHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Item handles DELETE on /api/webhooks/{id}.
func (h *WebhookHandler) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/webhooks/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusBadRequest, "invalid subscription id")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ports.ErrSubscriptionNotFound) {
			writeError(w, r, http.StatusNotFound, "subscription not found")
			return
		}
		log.Printf("delete subscription failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WebhookHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		writeError(w, r, http.StatusBadRequest, "url must be a valid http or https URL")
		return
	}

	sub := domain.Subscription{
		ID:        uuid.NewString(),
		TargetURL: target.String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Repo.Insert(r.Context(), sub); err != nil {
		log.Printf("insert subscription failed: target=%s err=%v", sub.TargetURL, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.SubscriptionResponse{
		ID:        sub.ID,
		URL:       sub.TargetURL,
		CreatedAt: sub.CreatedAt,
	})
}

func (h *WebhookHandler) list(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Repo.List(r.Context())
	if err != nil {
		log.Printf("list subscriptions failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListSubscriptionsResponse{
		Subscriptions: make([]dto.SubscriptionResponse, 0, len(subs)),
	}
	for _, s := range subs {
		res.Subscriptions = append(res.Subscriptions, dto.SubscriptionResponse{
			ID:        s.ID,
			URL:       s.TargetURL,
			CreatedAt: s.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
