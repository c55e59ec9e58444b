// Package worker runs cache warm-up jobs pulled from the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/neuroshop/internal/adapters/mq/queue"
	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
	"github.com/okian/neuroshop/pkg/metrics"
)

const (
	defaultMaxWorkers   = 4
	poolShutdownTimeout = 30 * time.Second
)

// Warm-up job statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Searcher runs a search and fills the cache as a side effect.
type Searcher interface {
	Search(ctx context.Context, query string) (*model.SearchResponse, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes warm-up jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over a Queue.
type InMemoryWorker struct {
	queue    Queue
	searcher Searcher
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, searcher Searcher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		searcher: searcher,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.NamedOrNop(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Warn(ctx, "warm-up failed",
					logger.String("job_id", j.ID),
					logger.String("query", j.Query),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown signals the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j Job) error {
	start := time.Now()
	resp, err := w.searcher.Search(ctx, j.Query)
	if err != nil {
		metrics.RecordWarmupProcessed(StatusError)
		metrics.RecordErrorLatency("worker", "warmup_error", float64(time.Since(start).Milliseconds()))
		return fmt.Errorf("warm %q: %w", j.Query, err)
	}
	metrics.RecordWarmupProcessed(StatusOK)

	w.logger.Debug(ctx, "warmed",
		logger.String("job_id", j.ID),
		logger.String("query", j.Query),
		logger.Int("offers", resp.Count),
		logger.Duration("took", time.Since(start)),
		logger.Duration("waited", start.Sub(j.Enqueued)),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive workerCount uses
// min(NumCPU, 4).
func NewPool(workerCount int, q Queue, searcher Searcher) *Pool {
	if workerCount < 1 {
		workerCount = min(runtime.NumCPU(), defaultMaxWorkers)
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.NamedOrNop("worker-pool"),
	}
	for i := range workerCount {
		p.workers[i] = NewInMemoryWorker(q, searcher, WithName("worker-"+strconv.Itoa(i)))
	}
	return p
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue, then waits for every worker to exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	metrics.UpdateWorkerCount(0)
	return firstErr
}
