// Package profile builds a per-player statistical baseline from prior
// match records. The builder is a pure function of the history slice;
// nothing is cached between calls.
package profile

import (
	"context"
	"math"

	"github.com/arbiterhq/arbiter/internal/domain/model"
)

// defaultMinSamples is the minimum history size for a baseline to be
// statistically meaningful. Below it the profile is marked insufficient
// and z-score checks are skipped entirely to avoid noisy small-sample
// deviations.
const defaultMinSamples = 5

// Moments holds the mean and sample standard deviation of one metric.
type Moments struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Profile is the derived, ephemeral baseline for one player. It is
// recomputed on every validation call and never persisted.
type Profile struct {
	SampleSize int     `json:"sample_size"`
	Sufficient bool    `json:"sufficient"`
	Goals      Moments `json:"goals"`
	Assists    Moments `json:"assists"`
	Duration   Moments `json:"duration"`
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithMinSamples sets the minimum history size for a meaningful baseline.
func WithMinSamples(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.minSamples = n
		}
	}
}

// Builder computes statistical profiles from match history.
type Builder struct {
	minSamples int
}

// NewBuilder creates a profile builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{minSamples: defaultMinSamples}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// MinSamples returns the configured minimum sample size.
func (b *Builder) MinSamples() int {
	return b.minSamples
}

// Build computes the baseline over the given history. Order of entries
// is irrelevant; only aggregate statistics are derived.
func (b *Builder) Build(ctx context.Context, history []model.MatchRecord) Profile {
	_ = ctx // no blocking work; accepted for interface consistency

	p := Profile{SampleSize: len(history)}
	if len(history) == 0 {
		return p
	}

	goals := make([]float64, len(history))
	assists := make([]float64, len(history))
	durations := make([]float64, len(history))
	for i, rec := range history {
		goals[i] = float64(rec.PlayerGoals)
		assists[i] = float64(rec.PlayerAssists)
		durations[i] = float64(rec.Duration)
	}

	p.Goals = moments(goals)
	p.Assists = moments(assists)
	p.Duration = moments(durations)
	p.Sufficient = len(history) >= b.minSamples
	return p
}

// moments computes mean and sample (n-1) standard deviation.
func moments(values []float64) Moments {
	n := float64(len(values))
	if n == 0 {
		return Moments{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	if len(values) < 2 {
		return Moments{Mean: mean}
	}

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return Moments{Mean: mean, StdDev: math.Sqrt(sq / (n - 1))}
}
