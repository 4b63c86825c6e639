package handlers

import (
	"delivery-tracker-service/internal/api/dto"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"log"
	"net/http"
)

// SnapshotSource provides the most recent delivery snapshot.
type SnapshotSource interface {
	Latest() (domain.Snapshot, bool)
}

// SnapshotSubscriber delivers every new snapshot on a channel until the
// returned cancel function is called.
type SnapshotSubscriber interface {
	Subscribe(buffer int) (<-chan domain.Snapshot, func())
}

// TrackHandler exposes the poll-style snapshot endpoint.
type TrackHandler struct {
	Source SnapshotSource

	// Cache covers the window between process start and the first
	// successful poll, when a peer instance may already have data.
	Cache ports.SnapshotCache
}

func (h *TrackHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, ok := h.Source.Latest()
	if !ok && h.Cache != nil {
		var err error
		snap, ok, err = h.Cache.Get(r.Context())
		if err != nil {
			log.Printf("snapshot cache read failed: %v", err)
			ok = false
		}
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "no delivery data yet")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromSnapshot(snap))
}
