// Package rules implements the stateless structural checks applied to a
// single match record. Every check runs unconditionally; a violation
// becomes an issue or warning in the output rather than aborting the
// pass, so the report is always complete.
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
)

// Default plausibility bounds.
const (
	defaultMaxTeamGoals     = 50
	defaultMaxPlayerGoals   = 10
	defaultMaxPlayerAssists = 8
	defaultMinDuration      = 20  // minutes
	defaultMaxDuration      = 200 // minutes
	defaultRetention        = 2 * 365 * 24 * time.Hour

	possessionSumTolerance = 1.0 // percent, both sides must sum to ~100
	possessionSumTarget    = 100.0
	maxPassAccuracy        = 100.0
)

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithMaxTeamGoals sets the blowout bound for a single team's score.
func WithMaxTeamGoals(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxTeamGoals = n
		}
	}
}

// WithPlayerCaps sets the per-match caps for individual goals and assists.
func WithPlayerCaps(goals, assists int) Option {
	return func(v *Validator) {
		if goals > 0 {
			v.maxPlayerGoals = goals
		}
		if assists > 0 {
			v.maxPlayerAssists = assists
		}
	}
}

// WithDurationBand sets the realistic duration band in minutes.
func WithDurationBand(minMinutes, maxMinutes int) Option {
	return func(v *Validator) {
		if minMinutes > 0 && maxMinutes > minMinutes {
			v.minDuration = minMinutes
			v.maxDuration = maxMinutes
		}
	}
}

// WithRetention sets how far in the past a match timestamp may lie.
func WithRetention(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.retention = d
		}
	}
}

// Validator runs the structural and plausibility rules. It holds only
// configuration and no per-call state, so one instance is safe for
// concurrent use.
type Validator struct {
	maxTeamGoals     int
	maxPlayerGoals   int
	maxPlayerAssists int
	minDuration      int
	maxDuration      int
	retention        time.Duration
}

// New creates a rule validator with configuration options.
func New(opts ...Option) *Validator {
	v := &Validator{
		maxTeamGoals:     defaultMaxTeamGoals,
		maxPlayerGoals:   defaultMaxPlayerGoals,
		maxPlayerAssists: defaultMaxPlayerAssists,
		minDuration:      defaultMinDuration,
		maxDuration:      defaultMaxDuration,
		retention:        defaultRetention,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Check evaluates all rules against one record and its optional team
// stats snapshot. now anchors the timestamp checks so the result is a
// pure function of the arguments.
func (v *Validator) Check(ctx context.Context, rec model.MatchRecord, team *model.TeamMatchStats, now time.Time) ([]verdict.Issue, []verdict.Warning) {
	_ = ctx // no blocking work; accepted for interface consistency

	issues := make([]verdict.Issue, 0, 4)
	warnings := make([]verdict.Warning, 0, 2)

	issues = v.checkScores(rec, issues)
	issues = v.checkOutcome(rec, issues)
	issues = v.checkPlayerStats(rec, issues)
	issues, warnings = v.checkDuration(rec, issues, warnings)
	issues = v.checkTimestamp(rec, now, issues)
	if team != nil {
		issues = v.checkTeamStats(*team, issues)
	}

	return issues, warnings
}

func (v *Validator) checkScores(rec model.MatchRecord, issues []verdict.Issue) []verdict.Issue {
	if rec.HomeScore < 0 || rec.AwayScore < 0 {
		issues = append(issues, verdict.NewIssue(verdict.CodeNegativeScore,
			fmt.Sprintf("scores must be non-negative, got %d-%d", rec.HomeScore, rec.AwayScore)))
	}
	if rec.HomeScore > v.maxTeamGoals || rec.AwayScore > v.maxTeamGoals {
		issues = append(issues, verdict.NewIssue(verdict.CodeExcessiveScore,
			fmt.Sprintf("score %d-%d exceeds the plausible bound of %d goals", rec.HomeScore, rec.AwayScore, v.maxTeamGoals)))
	}
	return issues
}

func (v *Validator) checkOutcome(rec model.MatchRecord, issues []verdict.Issue) []verdict.Issue {
	if rec.Outcome != rec.DeclaredOutcome() {
		issues = append(issues, verdict.NewIssue(verdict.CodeResultMismatch,
			fmt.Sprintf("declared result %q contradicts score %d-%d", rec.Outcome, rec.HomeScore, rec.AwayScore)))
	}
	return issues
}

func (v *Validator) checkPlayerStats(rec model.MatchRecord, issues []verdict.Issue) []verdict.Issue {
	if rec.PlayerGoals < 0 || rec.PlayerAssists < 0 {
		issues = append(issues, verdict.NewIssue(verdict.CodeNegativeStats,
			fmt.Sprintf("player stats must be non-negative, got %d goals / %d assists", rec.PlayerGoals, rec.PlayerAssists)))
	}
	if rec.PlayerGoals > rec.HomeScore {
		issues = append(issues, verdict.NewIssue(verdict.CodePlayerGoalsExceed,
			fmt.Sprintf("reporter claims %d goals but their team scored %d", rec.PlayerGoals, rec.HomeScore)))
	}
	if rec.PlayerGoals > v.maxPlayerGoals {
		issues = append(issues, verdict.NewIssue(verdict.CodeExcessivePlayerGoals,
			fmt.Sprintf("%d goals exceeds the per-match cap of %d", rec.PlayerGoals, v.maxPlayerGoals)))
	}
	if rec.PlayerAssists > v.maxPlayerAssists {
		issues = append(issues, verdict.NewIssue(verdict.CodeExcessiveAssists,
			fmt.Sprintf("%d assists exceeds the per-match cap of %d", rec.PlayerAssists, v.maxPlayerAssists)))
	}
	return issues
}

func (v *Validator) checkDuration(rec model.MatchRecord, issues []verdict.Issue, warnings []verdict.Warning) ([]verdict.Issue, []verdict.Warning) {
	switch {
	case rec.Duration <= 0:
		issues = append(issues, verdict.NewIssue(verdict.CodeInvalidDuration,
			fmt.Sprintf("duration must be positive, got %d minutes", rec.Duration)))
	case rec.Duration < v.minDuration:
		warnings = append(warnings, verdict.NewWarning(verdict.CodeVeryShortMatch,
			fmt.Sprintf("match lasted only %d minutes (expected at least %d)", rec.Duration, v.minDuration)))
	case rec.Duration > v.maxDuration:
		warnings = append(warnings, verdict.NewWarning(verdict.CodeVeryLongMatch,
			fmt.Sprintf("match lasted %d minutes (expected at most %d)", rec.Duration, v.maxDuration)))
	}
	return issues, warnings
}

func (v *Validator) checkTimestamp(rec model.MatchRecord, now time.Time, issues []verdict.Issue) []verdict.Issue {
	switch {
	case rec.PlayedAt.After(now):
		issues = append(issues, verdict.NewIssue(verdict.CodeFutureMatch,
			fmt.Sprintf("match timestamp %s is in the future", rec.PlayedAt.Format(time.RFC3339))))
	case rec.PlayedAt.Before(now.Add(-v.retention)):
		issues = append(issues, verdict.NewIssue(verdict.CodeStaleMatch,
			fmt.Sprintf("match timestamp %s is older than the retention window", rec.PlayedAt.Format(time.RFC3339))))
	}
	return issues
}

func (v *Validator) checkTeamStats(team model.TeamMatchStats, issues []verdict.Issue) []verdict.Issue {
	sum := team.Home.Possession + team.Away.Possession
	if sum < possessionSumTarget-possessionSumTolerance || sum > possessionSumTarget+possessionSumTolerance {
		issues = append(issues, verdict.NewIssue(verdict.CodePossessionMismatch,
			fmt.Sprintf("possession sums to %.1f%%, expected ~100%%", sum)))
	}
	if badAccuracy(team.Home.PassAccuracy) || badAccuracy(team.Away.PassAccuracy) {
		issues = append(issues, verdict.NewIssue(verdict.CodeInvalidPassAccuracy,
			fmt.Sprintf("pass accuracy must be within 0-100%%, got %.1f%% / %.1f%%", team.Home.PassAccuracy, team.Away.PassAccuracy)))
	}
	if negativeCounts(team.Home) || negativeCounts(team.Away) {
		issues = append(issues, verdict.NewIssue(verdict.CodeNegativeTeamStats,
			"team stat totals must be non-negative"))
	}
	return issues
}

func badAccuracy(pct float64) bool {
	return pct < 0 || pct > maxPassAccuracy
}

func negativeCounts(s model.SideStats) bool {
	return s.Shots < 0 || s.ShotsOnTarget < 0 || s.Passes < 0 || s.Tackles < 0 || s.Fouls < 0 || s.Possession < 0
}
