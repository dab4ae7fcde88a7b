// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arbiterhq/arbiter/internal/adapters/repository"
	"github.com/arbiterhq/arbiter/internal/domain/dedupe"
	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/profile"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async validation. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, sub model.Submission) bool

	// Read operations expose stored verdicts and baselines.
	Verdict(ctx context.Context, matchID string) (repository.Stored, error)
	Report(ctx context.Context, matchID string) (string, error)
	PlayerProfile(ctx context.Context, playerID string) (profile.Profile, error)
	Suspects(ctx context.Context, n int) ([]repository.SuspectEntry, error)
}

// Server wires HTTP routes for the validation API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	matchesHandler  *MatchesHandler
	verdictsHandler *VerdictsHandler
	playersHandler  *PlayersHandler
	suspectsHandler *SuspectsHandler
	liveHandler     *LiveHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, hub LiveHub, maxSuspectsLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		matchesHandler:  NewMatchesHandler(deps),
		verdictsHandler: NewVerdictsHandler(deps),
		playersHandler:  NewPlayersHandler(deps),
		suspectsHandler: NewSuspectsHandler(deps, maxSuspectsLimit),
		liveHandler:     NewLiveHandler(hub),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandlePostMatch, "matches"))
	mux.HandleFunc("/verdicts/", MetricsMiddleware(s.verdictsHandler.HandleGetVerdict, "verdicts"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetProfile, "players"))
	mux.HandleFunc("/suspects", MetricsMiddleware(s.suspectsHandler.HandleGetSuspects, "suspects"))
	mux.HandleFunc("/live", s.liveHandler.HandleLive(ctx))
}

// matchRequest mirrors the OpenAPI schema for POST /matches.
type matchRequest struct {
	MatchID       string                `json:"match_id"`
	HomeTeam      string                `json:"home_team"`
	AwayTeam      string                `json:"away_team"`
	HomeScore     int                   `json:"home_score"`
	AwayScore     int                   `json:"away_score"`
	Result        string                `json:"result"`
	PlayerID      string                `json:"player_id"`
	PlayerGoals   int                   `json:"player_goals"`
	PlayerAssists int                   `json:"player_assists"`
	DurationMin   int                   `json:"duration_min"`
	PlayedAt      string                `json:"played_at"`
	TeamStats     *model.TeamMatchStats `json:"team_stats,omitempty"`
}

// validate rejects only structurally malformed input. Implausible
// numbers (negative scores, absurd durations) pass through on purpose:
// the pipeline converts them into findings instead of refusing the
// submission.
func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.MatchID) == "":
		return errors.New("missing match_id")
	case strings.TrimSpace(m.HomeTeam) == "":
		return errors.New("missing home_team")
	case strings.TrimSpace(m.AwayTeam) == "":
		return errors.New("missing away_team")
	case strings.TrimSpace(m.PlayerID) == "":
		return errors.New("missing player_id")
	case strings.TrimSpace(m.PlayedAt) == "":
		return errors.New("missing played_at")
	}
	if !model.Outcome(m.Result).Known() {
		return errors.New("invalid result; must be home_win, away_win or draw")
	}
	if _, err := time.Parse(time.RFC3339, m.PlayedAt); err != nil {
		return errors.New("invalid played_at; must be RFC3339")
	}
	return nil
}

// toSubmission converts a validated request into the queue payload.
func (m matchRequest) toSubmission() model.Submission {
	playedAt, _ := time.Parse(time.RFC3339, m.PlayedAt)
	return model.Submission{
		Record: model.MatchRecord{
			MatchID:       m.MatchID,
			HomeTeam:      m.HomeTeam,
			AwayTeam:      m.AwayTeam,
			HomeScore:     m.HomeScore,
			AwayScore:     m.AwayScore,
			Outcome:       model.Outcome(m.Result),
			PlayerID:      m.PlayerID,
			PlayerGoals:   m.PlayerGoals,
			PlayerAssists: m.PlayerAssists,
			Duration:      m.DurationMin,
			PlayedAt:      playedAt,
		},
		Team: m.TeamStats,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
