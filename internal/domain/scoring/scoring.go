// Package scoring aggregates rule and anomaly findings into the 0-100
// fairness score and the validity verdict.
package scoring

import (
	"context"
	"math"

	"github.com/arbiterhq/arbiter/internal/domain/verdict"
)

// Score bounds.
const (
	maxScore = 100.0
	minScore = 0.0
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithDeductionOverrides replaces deduction points for the given codes,
// keeping the cataloged severities. Unknown codes are ignored.
func WithDeductionOverrides(overrides map[string]float64) Option {
	return func(s *Scorer) {
		for code, points := range overrides {
			w, ok := s.weights[code]
			if !ok || points < 0 {
				continue
			}
			w.Deduction = points
			s.weights[code] = w
		}
	}
}

// Scorer applies the deduction rubric. It holds only the weight table
// and is safe for concurrent use.
type Scorer struct {
	weights map[string]verdict.Weight
}

// New creates a scorer seeded with the default rubric.
func New(opts ...Option) *Scorer {
	s := &Scorer{weights: verdict.DefaultWeights()}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score starts at 100, subtracts the rubric deduction for every issue
// and warning, and clamps to [0,100]. Validity is derived purely from
// the severities present: any critical or high issue invalidates the
// match regardless of the numeric score.
func (s *Scorer) Score(ctx context.Context, issues []verdict.Issue, warnings []verdict.Warning) (float64, bool) {
	_ = ctx // no blocking work; accepted for interface consistency

	score := maxScore
	valid := true

	for _, issue := range issues {
		score -= s.deduction(issue.Code, issue.ScoreDeduction)
		if issue.Severity.Blocking() {
			valid = false
		}
	}
	for _, warning := range warnings {
		score -= s.deduction(warning.Code, warning.ScoreDeduction)
	}

	score = math.Max(minScore, math.Min(maxScore, score))
	return score, valid
}

// deduction prefers the (possibly overridden) rubric row; findings with
// codes outside the rubric fall back to their embedded deduction.
func (s *Scorer) deduction(code string, fallback float64) float64 {
	if w, ok := s.weights[code]; ok {
		return w.Deduction
	}
	return fallback
}
