// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/arbiterhq/arbiter/internal/adapters/ws"
)

// LiveHub is the websocket hub streaming verdicts to subscribers.
type LiveHub = *ws.Hub

// LiveHandler handles websocket subscription requests.
type LiveHandler struct {
	hub LiveHub
}

// NewLiveHandler creates a new live stream handler.
func NewLiveHandler(hub LiveHub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// HandleLive returns a handler for GET /live websocket upgrades. The
// context bounds the lifetime of every connection it accepts.
func (h *LiveHandler) HandleLive(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		if h.hub == nil {
			writeError(w, http.StatusServiceUnavailable, "unavailable", ErrServe)
			return
		}
		// Serve writes its own handshake failure response.
		_ = ws.Serve(ctx, h.hub, w, r)
	}
}
