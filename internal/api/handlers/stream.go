package handlers

import (
	"delivery-tracker-service/internal/api/dto"
	"delivery-tracker-service/internal/domain"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const (
	streamBuffer    = 8
	streamHeartbeat = 15 * time.Second
)

// StreamHandler pushes snapshots to browsers over server-sent events.
type StreamHandler struct {
	Source     SnapshotSource
	Subscriber SnapshotSubscriber
}

func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snapshots, cancel := h.Subscriber.Subscribe(streamBuffer)
	defer cancel()

	// Late joiners get the current state immediately instead of waiting for
	// the next poll.
	if snap, ok := h.Source.Latest(); ok {
		if err := writeEvent(w, flusher, snap); err != nil {
			return
		}
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-snapshots:
			if !open {
				return
			}
			if err := writeEvent(w, flusher, snap); err != nil {
				log.Printf("sse write failed: %v", err)
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, snap domain.Snapshot) error {
	payload, err := json.Marshal(dto.FromSnapshot(snap))
	if err != nil {
		return fmt.Errorf("encode snapshot event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
