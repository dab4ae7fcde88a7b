// Package repository defines the verdict and history store interface
// and its in-memory and Redis implementations.
package repository

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
)

// SuspectEntry is one row of the suspicion index: matches ranked by
// fairness score ascending, so the most suspicious come first.
type SuspectEntry struct {
	Rank     int     `json:"rank"`
	MatchID  string  `json:"match_id"`
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
	IsValid  bool    `json:"is_valid"`
}

// Stored pairs a match record with its validation result.
type Stored struct {
	Record model.MatchRecord `json:"record"`
	Result verdict.Result    `json:"result"`
}

// Store provides read/write access to verdicts and player history.
// Storage is soft-rejection only: every match is kept regardless of its
// verdict; consumers decide what to do with suspicious ones.
type Store interface {
	// PutVerdict stores the validation result for a match.
	PutVerdict(ctx context.Context, rec model.MatchRecord, res verdict.Result) error

	// Verdict returns the stored record and result for a match id.
	// Returns ErrNotFound if the match is unknown.
	Verdict(ctx context.Context, matchID string) (Stored, error)

	// AppendHistory adds a validated match to the reporting player's
	// history window used for future baselines.
	AppendHistory(ctx context.Context, rec model.MatchRecord) error

	// History returns the player's retained match history in any order.
	History(ctx context.Context, playerID string) ([]model.MatchRecord, error)

	// Suspects returns up to n matches ordered by fairness score
	// ascending.
	Suspects(ctx context.Context, n int) ([]SuspectEntry, error)

	// Count returns the number of verdicts stored.
	Count(ctx context.Context) int
}
