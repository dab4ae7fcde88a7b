// Package app provides the core service that implements the
// dependencies required by the HTTP API: submission intake, async
// validation, and verdict queries.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	submissionqueue "github.com/arbiterhq/arbiter/internal/adapters/mq/queue"
	workerpool "github.com/arbiterhq/arbiter/internal/adapters/mq/worker"
	"github.com/arbiterhq/arbiter/internal/adapters/repository"
	"github.com/arbiterhq/arbiter/internal/adapters/ws"
	"github.com/arbiterhq/arbiter/internal/domain/anomaly"
	"github.com/arbiterhq/arbiter/internal/domain/dedupe"
	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/profile"
	"github.com/arbiterhq/arbiter/internal/domain/report"
	"github.com/arbiterhq/arbiter/internal/domain/rules"
	"github.com/arbiterhq/arbiter/internal/domain/scoring"
	"github.com/arbiterhq/arbiter/internal/domain/validation"
	"github.com/arbiterhq/arbiter/pkg/logger"
	"github.com/arbiterhq/arbiter/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize     = 100_000
	defaultDedupeSize    = 50_000
	defaultShardCount    = 8
	defaultHistoryWindow = 50
	hoursPerDay          = 24
)

// Service implements the validation API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components.
	store     repository.Store
	deduper   dedupe.Deduper
	queue     submissionqueue.Queue
	engine    *validation.Engine
	pool      *workerpool.Pool
	hub       *ws.Hub
	redisCli  *redis.Client
	cancelHub context.CancelFunc

	// Configuration.
	workerCount        int
	queueSize          int
	dedupeSize         int
	shardCount         int
	historyWindow      int
	minSampleSize      int
	sigmaThreshold     float64
	retention          time.Duration
	deductionOverrides map[string]float64
	redisAddr          string

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithWorkerCount sets the number of validation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the dedupe cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the in-memory store shard count.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithHistoryWindow bounds per-player history retention.
func WithHistoryWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// WithMinSampleSize sets the baseline minimum sample size.
func WithMinSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minSampleSize = n
		}
	}
}

// WithSigmaThreshold sets the anomaly z-score threshold.
func WithSigmaThreshold(sigma float64) Option {
	return func(s *Service) {
		if sigma > 0 {
			s.sigmaThreshold = sigma
		}
	}
}

// WithRetentionDays sets how old a match timestamp may be.
func WithRetentionDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.retention = time.Duration(days) * hoursPerDay * time.Hour
		}
	}
}

// WithDeductionOverrides tunes scoring deductions per issue code.
func WithDeductionOverrides(overrides map[string]float64) Option {
	return func(s *Service) {
		s.deductionOverrides = overrides
	}
}

// WithRedisAddr selects the Redis-backed store.
func WithRedisAddr(addr string) Option {
	return func(s *Service) {
		s.redisAddr = addr
	}
}

// WithStore injects a pre-built store, bypassing store construction.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    0, // pool picks a CPU-based default
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		shardCount:     defaultShardCount,
		historyWindow:  defaultHistoryWindow,
		minSampleSize:  0, // engine defaults apply when unset
		sigmaThreshold: 0,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting validation service...")

	if s.store == nil {
		if s.redisAddr != "" {
			s.redisCli = redis.NewClient(&redis.Options{Addr: s.redisAddr})
			s.store = repository.NewRedisStore(s.redisCli,
				repository.WithRedisHistoryWindow(s.historyWindow),
			)
			s.logger.Info(ctx, "using redis store", logger.String("addr", s.redisAddr))
		} else {
			s.store = repository.NewMemoryStore(ctx,
				repository.WithShardCount(s.shardCount),
				repository.WithHistoryWindow(s.historyWindow),
			)
			s.logger.Info(ctx, "using in-memory store")
		}
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = submissionqueue.NewInMemoryQueue(
		submissionqueue.WithCapacity(s.queueSize),
	)
	s.engine = validation.New(s.engineOptions()...)

	s.hub = ws.NewHub()
	hubCtx, cancel := context.WithCancel(context.Background())
	s.cancelHub = cancel
	go s.hub.Run(hubCtx)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.engine, s.store,
		workerpool.WithPublisher(s.hub),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "validation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// engineOptions translates service tuning into pipeline stage options.
func (s *Service) engineOptions() []validation.Option {
	ruleOpts := []rules.Option{}
	if s.retention > 0 {
		ruleOpts = append(ruleOpts, rules.WithRetention(s.retention))
	}

	profileOpts := []profile.Option{}
	if s.minSampleSize > 0 {
		profileOpts = append(profileOpts, profile.WithMinSamples(s.minSampleSize))
	}

	anomalyOpts := []anomaly.Option{}
	if s.sigmaThreshold > 0 {
		anomalyOpts = append(anomalyOpts, anomaly.WithSigmaThreshold(s.sigmaThreshold))
	}

	scoringOpts := []scoring.Option{}
	if len(s.deductionOverrides) > 0 {
		scoringOpts = append(scoringOpts, scoring.WithDeductionOverrides(s.deductionOverrides))
	}

	return []validation.Option{
		validation.WithRules(rules.New(ruleOpts...)),
		validation.WithProfileBuilder(profile.NewBuilder(profileOpts...)),
		validation.WithDetector(anomaly.New(anomalyOpts...)),
		validation.WithScorer(scoring.New(scoringOpts...)),
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping validation service...")

	if q, ok := s.queue.(*submissionqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if s.cancelHub != nil {
		s.cancelHub()
	}
	if s.redisCli != nil {
		_ = s.redisCli.Close()
	}

	s.started = false
	s.logger.Info(ctx, "validation service stopped")
}

// SeenAndRecord reports whether a match id was already submitted and
// records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSubmissionDuplicate()
	}
	return seen
}

// Unrecord removes a match id from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of match ids currently tracked for dedupe.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// Enqueue submits a match for asynchronous validation.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) bool {
	ok := s.queue.Enqueue(ctx, sub)
	if !ok {
		s.logger.Warn(ctx, "submission rejected by queue",
			logger.String("matchID", sub.Record.MatchID),
		)
	}
	return ok
}

// Verdict returns the stored record and result for a match id.
func (s *Service) Verdict(ctx context.Context, matchID string) (repository.Stored, error) {
	return s.store.Verdict(ctx, matchID)
}

// Report renders the stored verdict for a match as text.
func (s *Service) Report(ctx context.Context, matchID string) (string, error) {
	stored, err := s.store.Verdict(ctx, matchID)
	if err != nil {
		return "", err
	}
	return report.Render(stored.Record, stored.Result), nil
}

// PlayerProfile returns the player's current statistical baseline.
func (s *Service) PlayerProfile(ctx context.Context, playerID string) (profile.Profile, error) {
	history, err := s.store.History(ctx, playerID)
	if err != nil {
		return profile.Profile{}, err
	}
	return s.engine.Profile(ctx, history), nil
}

// Suspects returns the n most suspicious matches, lowest score first.
func (s *Service) Suspects(ctx context.Context, n int) ([]repository.SuspectEntry, error) {
	return s.store.Suspects(ctx, n)
}

// Hub exposes the verdict broadcast hub for the /live endpoint.
func (s *Service) Hub() *ws.Hub {
	return s.hub
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["totalMatches"] = s.store.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
	}

	return stats
}
