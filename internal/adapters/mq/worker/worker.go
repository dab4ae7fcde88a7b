// Package worker defines worker contracts for asynchronous match
// validation and verdict persistence.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
	"github.com/arbiterhq/arbiter/pkg/logger"
	"github.com/arbiterhq/arbiter/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Submission abstracts what workers read off the queue.
type Submission = model.Submission

// Validator scores one match record against the player's history.
type Validator interface {
	Validate(ctx context.Context, rec model.MatchRecord, team *model.TeamMatchStats, history []model.MatchRecord, now time.Time) verdict.Result
}

// Store persists verdicts and maintains player history for baselines.
type Store interface {
	History(ctx context.Context, playerID string) ([]model.MatchRecord, error)
	PutVerdict(ctx context.Context, rec model.MatchRecord, res verdict.Result) error
	AppendHistory(ctx context.Context, rec model.MatchRecord) error
}

// Publisher fans a finished verdict out to live consumers. Publishing
// is best-effort; a nil Publisher disables it.
type Publisher interface {
	Publish(ctx context.Context, rec model.MatchRecord, res verdict.Result)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Submission
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(log logger.Logger) Option {
	return func(w *Worker) {
		if log != nil {
			w.logger = log
		}
	}
}

// WithPublisher attaches a verdict publisher.
func WithPublisher(p Publisher) Option {
	return func(w *Worker) {
		w.publisher = p
	}
}

// Worker validates submissions and persists the verdicts.
type Worker struct {
	queue     Queue
	validator Validator
	store     Store
	publisher Publisher
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, validator Validator, store Store, opts ...Option) *Worker {
	w := &Worker{
		queue:     queue,
		validator: validator,
		store:     store,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	submissions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case sub, ok := <-submissions:
			if !ok {
				return
			}
			if err := w.process(ctx, sub); err != nil {
				w.logger.Error(ctx, "error processing submission", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process validates a single submission and persists the verdict. The
// match is stored regardless of the verdict (soft rejection); only
// storage failures are errors.
func (w *Worker) process(ctx context.Context, sub Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	rec := sub.Record

	history, err := w.store.History(ctx, rec.PlayerID)
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("load history for %s: %w", rec.PlayerID, err)
	}

	validateStart := time.Now()
	res := w.validator.Validate(ctx, rec, sub.Team, history, time.Now())
	metrics.RecordValidationLatency(float64(time.Since(validateStart).Milliseconds()))
	metrics.RecordMatchValidated(res.Score, res.IsValid)
	for _, issue := range res.Issues {
		metrics.RecordIssue(issue.Code, string(issue.Severity))
	}
	for _, warning := range res.Warnings {
		metrics.RecordIssue(warning.Code, string(warning.Severity))
	}

	if !res.IsValid {
		w.logger.Warn(ctx, "suspicious match stored",
			logger.String("matchID", rec.MatchID),
			logger.String("playerID", rec.PlayerID),
			logger.Float64("score", res.Score),
		)
	}

	if err := w.store.PutVerdict(ctx, rec, res); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store verdict for %s: %w", rec.MatchID, err)
	}
	if err := w.store.AppendHistory(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("append history for %s: %w", rec.PlayerID, err)
	}

	if w.publisher != nil {
		w.publisher.Publish(ctx, rec, res)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a worker pool of workerCount workers.
func NewPool(workerCount int, queue Queue, validator Validator, store Store, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewWorker(queue, validator, store, workerOpts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown stops all workers, waiting up to the pool timeout for each
// to drain in-flight submissions.
func (p *Pool) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		close(w.shutdown)
	}
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
