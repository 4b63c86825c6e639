package api

import (
	"delivery-tracker-service/internal/api/handlers"
	"delivery-tracker-service/internal/ports"
	"net/http"
)

// Deps carries everything the HTTP layer needs. Handlers depend on the ports
// and the snapshot source, never on concrete adapters.
type Deps struct {
	Source     handlers.SnapshotSource
	Subscriber handlers.SnapshotSubscriber
	Repo       ports.SubscriptionRepository
	Cache      ports.SnapshotCache
	StaticDir  string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	trackHandler := &handlers.TrackHandler{Source: deps.Source, Cache: deps.Cache}
	webhookHandler := &handlers.WebhookHandler{Repo: deps.Repo}
	streamHandler := &handlers.StreamHandler{Source: deps.Source, Subscriber: deps.Subscriber}
	wsHandler := &handlers.WSHandler{Source: deps.Source, Subscriber: deps.Subscriber}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/track", trackHandler.Latest)
	mux.HandleFunc("/api/webhooks", webhookHandler.Collection)
	mux.HandleFunc("/api/webhooks/", webhookHandler.Item)
	mux.HandleFunc("/api/stream", streamHandler.Stream)
	mux.HandleFunc("/ws", wsHandler.Serve)

	if deps.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(deps.StaticDir)))
	}

	return loggingMiddleware(mux)
}
