// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arbiterhq/arbiter/internal/adapters/repository"
)

// VerdictDependencies defines the interface for verdict lookups.
type VerdictDependencies interface {
	Verdict(ctx context.Context, matchID string) (repository.Stored, error)
	Report(ctx context.Context, matchID string) (string, error)
}

// VerdictsHandler handles verdict requests.
type VerdictsHandler struct {
	deps VerdictDependencies
}

// NewVerdictsHandler creates a new verdicts handler.
func NewVerdictsHandler(deps VerdictDependencies) *VerdictsHandler {
	return &VerdictsHandler{deps: deps}
}

// HandleGetVerdict handles GET /verdicts/{match_id} and
// GET /verdicts/{match_id}/report requests.
func (h *VerdictsHandler) HandleGetVerdict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /verdicts/
	path := strings.TrimPrefix(r.URL.Path, "/verdicts/")
	matchID, wantReport := strings.CutSuffix(path, "/report")
	if matchID == "" || strings.Contains(matchID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if wantReport {
		h.serveReport(w, r, matchID)
		return
	}
	stored, err := h.deps.Verdict(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *VerdictsHandler) serveReport(w http.ResponseWriter, r *http.Request, matchID string) {
	text, err := h.deps.Report(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}
