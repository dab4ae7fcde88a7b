// Package anomaly compares a match's player stats against the player's
// statistical baseline and recent form. Findings are warnings, never
// issues: anomalies are suspicious, not definitively invalid.
package anomaly

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/profile"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
)

// Default detection thresholds. The 3-sigma threshold is a deliberate
// heuristic; it is configurable per deployment because small samples
// produce high-variance standard deviations.
const (
	defaultSigmaThreshold = 3.0
	defaultStreakFloor    = 0.01 // fair-coin probability below which a win streak is flagged
	defaultReversalRun    = 5    // consecutive losses before a blowout win counts as a form reversal
	defaultReversalMargin = 3    // goal margin that makes the reversal sharp
	fairWinProbability    = 0.5
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithSigmaThreshold sets the |z| threshold for metric anomalies.
func WithSigmaThreshold(sigma float64) Option {
	return func(d *Detector) {
		if sigma > 0 {
			d.sigma = sigma
		}
	}
}

// WithStreakFloor sets the streak probability below which a warning fires.
func WithStreakFloor(p float64) Option {
	return func(d *Detector) {
		if p > 0 && p < 1 {
			d.streakFloor = p
		}
	}
}

// WithReversalShape sets the loss-run length and win margin that define
// a form reversal.
func WithReversalShape(lossRun, margin int) Option {
	return func(d *Detector) {
		if lossRun > 0 {
			d.reversalRun = lossRun
		}
		if margin > 0 {
			d.reversalMargin = margin
		}
	}
}

// Detector evaluates statistical anomaly heuristics. It holds only
// configuration and is safe for concurrent use.
type Detector struct {
	sigma          float64
	streakFloor    float64
	reversalRun    int
	reversalMargin int
}

// New creates a detector with configuration options.
func New(opts ...Option) *Detector {
	d := &Detector{
		sigma:          defaultSigmaThreshold,
		streakFloor:    defaultStreakFloor,
		reversalRun:    defaultReversalRun,
		reversalMargin: defaultReversalMargin,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Detect runs all anomaly heuristics for the current record against the
// player's baseline and history. Z-score checks require a sufficient
// profile; streak and form heuristics only need the raw history.
func (d *Detector) Detect(ctx context.Context, rec model.MatchRecord, prof profile.Profile, history []model.MatchRecord) []verdict.Warning {
	_ = ctx // no blocking work; accepted for interface consistency

	warnings := make([]verdict.Warning, 0, 2)

	if prof.Sufficient {
		warnings = d.checkMetric(warnings, verdict.CodeAnomalyGoals, "goals", float64(rec.PlayerGoals), prof.Goals)
		warnings = d.checkMetric(warnings, verdict.CodeAnomalyAssists, "assists", float64(rec.PlayerAssists), prof.Assists)
		warnings = d.checkMetric(warnings, verdict.CodeAnomalyDuration, "duration", float64(rec.Duration), prof.Duration)
	}

	recent := byPlayedAt(history)
	warnings = d.checkStreak(warnings, rec, recent)
	warnings = d.checkFormReversal(warnings, rec, recent)

	return warnings
}

// checkMetric flags a metric whose z-score exceeds the sigma threshold.
// A zero stddev is degenerate (identical past values) and is skipped
// rather than treated as a signal.
func (d *Detector) checkMetric(warnings []verdict.Warning, code, name string, value float64, m Moment) []verdict.Warning {
	z := ZScore(value, m.Mean, m.StdDev)
	if math.Abs(z) > d.sigma {
		warnings = append(warnings, verdict.NewWarning(code,
			fmt.Sprintf("%s of %.0f deviates %.1f sigma from the player's mean of %.2f", name, value, math.Abs(z), m.Mean)))
	}
	return warnings
}

// checkStreak estimates the probability of the win streak ending at the
// current match under a fair-coin baseline and flags implausible runs.
func (d *Detector) checkStreak(warnings []verdict.Warning, rec model.MatchRecord, recent []model.MatchRecord) []verdict.Warning {
	if !rec.Won() {
		return warnings
	}

	streak := 1 // the current match
	for i := len(recent) - 1; i >= 0; i-- {
		if !recent[i].Won() {
			break
		}
		streak++
	}

	p := math.Pow(fairWinProbability, float64(streak))
	if p < d.streakFloor {
		warnings = append(warnings, verdict.NewWarning(verdict.CodeUnlikelyStreak,
			fmt.Sprintf("%d consecutive wins has probability %.4f under a fair baseline", streak, p)))
	}
	return warnings
}

// checkFormReversal flags a blowout win that sharply contradicts a long
// run of losses with no intermediate signal.
func (d *Detector) checkFormReversal(warnings []verdict.Warning, rec model.MatchRecord, recent []model.MatchRecord) []verdict.Warning {
	if !rec.Won() || rec.Margin() < d.reversalMargin {
		return warnings
	}
	if len(recent) < d.reversalRun {
		return warnings
	}

	for _, prior := range recent[len(recent)-d.reversalRun:] {
		if prior.Won() {
			return warnings
		}
	}

	warnings = append(warnings, verdict.NewWarning(verdict.CodeFormReversal,
		fmt.Sprintf("win by %d after %d straight losses contradicts recent form", rec.Margin(), d.reversalRun)))
	return warnings
}

// Moment mirrors profile.Moments for the metric check signature.
type Moment = profile.Moments

// ZScore computes (v - mean) / std with a zero-stddev guard.
func ZScore(v, mean, std float64) float64 {
	if std <= 0 {
		return 0
	}
	return (v - mean) / std
}

// byPlayedAt returns a copy of history ordered oldest first. The input
// is never mutated; callers may pass history in any order.
func byPlayedAt(history []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayedAt.Before(out[j].PlayedAt)
	})
	return out
}
