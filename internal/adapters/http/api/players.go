// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arbiterhq/arbiter/internal/adapters/repository"
	"github.com/arbiterhq/arbiter/internal/domain/profile"
)

// PlayerDependencies defines the interface for player profile lookups.
type PlayerDependencies interface {
	PlayerProfile(ctx context.Context, playerID string) (profile.Profile, error)
}

// PlayersHandler handles player profile requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetProfile handles GET /players/{player_id}/profile requests.
func (h *PlayersHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter between /players/ and /profile
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	playerID, ok := strings.CutSuffix(path, "/profile")
	if !ok || playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	prof, err := h.deps.PlayerProfile(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}
