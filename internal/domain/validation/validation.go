// Package validation composes the rule validator, statistical profiler,
// anomaly detector, and fairness scorer into the single entry point for
// validating one match record.
//
// The engine is side-effect free: history is injected by the caller and
// the reference time is an explicit argument, so identical inputs always
// produce identical results and concurrent calls need no locking.
package validation

import (
	"context"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/anomaly"
	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/profile"
	"github.com/arbiterhq/arbiter/internal/domain/rules"
	"github.com/arbiterhq/arbiter/internal/domain/scoring"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRules replaces the rule validator stage.
func WithRules(v *rules.Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.rules = v
		}
	}
}

// WithProfileBuilder replaces the statistical profiler stage.
func WithProfileBuilder(b *profile.Builder) Option {
	return func(e *Engine) {
		if b != nil {
			e.profiles = b
		}
	}
}

// WithDetector replaces the anomaly detector stage.
func WithDetector(d *anomaly.Detector) Option {
	return func(e *Engine) {
		if d != nil {
			e.detector = d
		}
	}
}

// WithScorer replaces the fairness scorer stage.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// Engine runs the full validation pipeline. All stages are stateless;
// one engine may be shared across goroutines.
type Engine struct {
	rules    *rules.Validator
	profiles *profile.Builder
	detector *anomaly.Detector
	scorer   *scoring.Scorer
}

// New creates an engine with default stages, overridable via options.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules:    rules.New(),
		profiles: profile.NewBuilder(),
		detector: anomaly.New(),
		scorer:   scoring.New(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Profile exposes the profiler stage for read-only baseline queries.
func (e *Engine) Profile(ctx context.Context, history []model.MatchRecord) profile.Profile {
	return e.profiles.Build(ctx, history)
}

// Validate scores one match record for plausibility. team may be nil;
// history may be empty. now anchors all timestamp checks and is stamped
// on the result, keeping the call total and deterministic: every finding
// becomes data, nothing is thrown.
func (e *Engine) Validate(ctx context.Context, rec model.MatchRecord, team *model.TeamMatchStats, history []model.MatchRecord, now time.Time) verdict.Result {
	issues, warnings := e.rules.Check(ctx, rec, team, now)

	prof := e.profiles.Build(ctx, history)
	warnings = append(warnings, e.detector.Detect(ctx, rec, prof, history)...)

	score, valid := e.scorer.Score(ctx, issues, warnings)

	return verdict.Result{
		IsValid:   valid,
		Score:     score,
		Issues:    issues,
		Warnings:  warnings,
		Timestamp: now,
	}
}
