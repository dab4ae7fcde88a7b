// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors are wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of validation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission dedupe cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the in-memory store.
	ShardCount int `koanf:"shard_count"`

	// HistoryWindow bounds the per-player history used for baselines.
	HistoryWindow int `koanf:"history_window"`

	// MaxSuspectsLimit caps GET /suspects?limit.
	MaxSuspectsLimit int `koanf:"max_suspects_limit"`

	// MinSampleSize is the history size below which anomaly z-score
	// checks are skipped.
	MinSampleSize int `koanf:"min_sample_size"`

	// SigmaThreshold is the |z| bound for statistical anomaly warnings.
	SigmaThreshold float64 `koanf:"sigma_threshold"`

	// RetentionDays bounds how old a submitted match timestamp may be.
	RetentionDays int `koanf:"retention_days"`

	// DeductionOverrides replaces scoring deductions per issue code.
	DeductionOverrides map[string]float64 `koanf:"deduction_overrides"`

	// RedisAddr selects the Redis-backed store when non-empty; the
	// default store is in-memory.
	RedisAddr string `koanf:"redis_addr"`
}

// Default tuning values.
const (
	defaultQueueSize        = 100_000
	defaultDedupeSize       = 500_000
	defaultShardCount       = 8
	defaultHistoryWindow    = 50
	defaultMaxSuspects      = 100
	defaultMinSampleSize    = 5
	defaultSigmaThreshold   = 3.0
	defaultRetentionDays    = 2 * 365
	defaultWorkerMultiplier = 4
)

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		QueueSize:        defaultQueueSize,
		WorkerCount:      runtime.NumCPU() * defaultWorkerMultiplier,
		DedupeSize:       defaultDedupeSize,
		ShardCount:       defaultShardCount,
		HistoryWindow:    defaultHistoryWindow,
		MaxSuspectsLimit: defaultMaxSuspects,
		MinSampleSize:    defaultMinSampleSize,
		SigmaThreshold:   defaultSigmaThreshold,
		RetentionDays:    defaultRetentionDays,
	}
}
