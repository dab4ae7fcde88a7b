// Package model contains domain models passed between layers.
package model

import "time"

// Outcome is the result declared by the reporting client.
type Outcome string

// Declared match outcomes.
const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeAwayWin Outcome = "away_win"
	OutcomeDraw    Outcome = "draw"
)

// Known returns true for one of the three declared outcomes.
func (o Outcome) Known() bool {
	switch o {
	case OutcomeHomeWin, OutcomeAwayWin, OutcomeDraw:
		return true
	}
	return false
}

// MatchRecord represents one self-reported match outcome.
// The reporting player plays on the home side; their individual stats
// are therefore bounded by the home score. Records are immutable once
// submitted and are consumed read-only by the validation pipeline.
type MatchRecord struct {
	MatchID       string    `json:"match_id"`       // unique id for idempotency
	HomeTeam      string    `json:"home_team"`      // home team identifier (reporter's team)
	AwayTeam      string    `json:"away_team"`      // away team identifier
	HomeScore     int       `json:"home_score"`     // goals scored by the home team
	AwayScore     int       `json:"away_score"`     // goals scored by the away team
	Outcome       Outcome   `json:"result"`         // result declared by the reporter
	PlayerID      string    `json:"player_id"`      // reporting player identifier
	PlayerGoals   int       `json:"player_goals"`   // reporter's own goals this match
	PlayerAssists int       `json:"player_assists"` // reporter's own assists this match
	Duration      int       `json:"duration_min"`   // match duration in minutes
	PlayedAt      time.Time `json:"played_at"`      // when the match reportedly took place
}

// DeclaredOutcome computes the outcome implied by the scores.
func (m MatchRecord) DeclaredOutcome() Outcome {
	switch {
	case m.HomeScore > m.AwayScore:
		return OutcomeHomeWin
	case m.HomeScore < m.AwayScore:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// Won reports whether the reporting player's side won.
func (m MatchRecord) Won() bool {
	return m.Outcome == OutcomeHomeWin
}

// Margin is the goal difference from the reporter's perspective.
func (m MatchRecord) Margin() int {
	return m.HomeScore - m.AwayScore
}

// SideStats holds one team's secondary match statistics.
type SideStats struct {
	Shots         int     `json:"shots"`
	ShotsOnTarget int     `json:"shots_on_target"`
	Passes        int     `json:"passes"`
	PassAccuracy  float64 `json:"pass_accuracy"` // percent, 0-100
	Tackles       int     `json:"tackles"`
	Fouls         int     `json:"fouls"`
	Possession    float64 `json:"possession"` // percent, 0-100
}

// TeamMatchStats is an optional snapshot of both teams' secondary
// statistics. Its absence never blocks validation; it only feeds
// consistency checks.
type TeamMatchStats struct {
	Home SideStats `json:"home"`
	Away SideStats `json:"away"`
}

// Submission is one reported match queued for validation.
type Submission struct {
	Record MatchRecord     `json:"record"`
	Team   *TeamMatchStats `json:"team_stats,omitempty"`
}
