// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/arbiterhq/arbiter/internal/adapters/repository"
)

// SuspectDependencies defines the interface for suspect listing.
type SuspectDependencies interface {
	Suspects(ctx context.Context, n int) ([]repository.SuspectEntry, error)
}

// SuspectsHandler handles suspect listing requests.
type SuspectsHandler struct {
	deps     SuspectDependencies
	maxLimit int
}

// NewSuspectsHandler creates a new suspects handler.
func NewSuspectsHandler(deps SuspectDependencies, maxLimit int) *SuspectsHandler {
	return &SuspectsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetSuspects handles GET /suspects?limit=N requests.
func (h *SuspectsHandler) HandleGetSuspects(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_suspects"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.Suspects(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
