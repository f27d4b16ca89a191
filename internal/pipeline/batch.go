package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/gridstat-etl/internal/domain"
	"github.com/couchcryptid/gridstat-etl/internal/observability"
)

// Runner ingests one configuration.
type Runner interface {
	Ingest(ctx context.Context, cfg domain.Configuration) (string, error)
}

// Result is the outcome of one configuration.
type Result struct {
	Config   domain.Configuration
	Message  string
	Err      error
	Duration time.Duration
}

// ErrNotStarted marks configurations that were never dispatched because the
// batch was interrupted.
var ErrNotStarted = errors.New("configuration not started")

// Batch runs independent configurations on a bounded worker pool.
type Batch struct {
	runner  Runner
	workers int
	logger  *slog.Logger
	metrics *observability.Metrics

	started atomic.Bool
	total   atomic.Int64
	done    atomic.Int64
	failed  atomic.Int64
}

// NewBatch creates a Batch with at most workers configurations in flight.
func NewBatch(runner Runner, workers int, logger *slog.Logger, metrics *observability.Metrics) *Batch {
	return &Batch{
		runner:  runner,
		workers: max(workers, 1),
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the batch has started dispatching.
func (b *Batch) CheckReadiness(_ context.Context) error {
	if !b.started.Load() {
		return errors.New("batch has not started yet")
	}
	return nil
}

// Progress reports finished, failed and total configuration counts. A
// configuration is finished once it has a result, so failed never exceeds
// done and done reaches total when Run returns.
func (b *Batch) Progress() (done, failed, total int) {
	return int(b.done.Load()), int(b.failed.Load()), int(b.total.Load())
}

// Run ingests every configuration and returns one result per configuration
// in completion order. A failing or panicking configuration does not affect
// the others. Once ctx is cancelled no further configurations are started;
// those already running finish, and the rest are reported with ErrNotStarted.
func (b *Batch) Run(ctx context.Context, cfgs []domain.Configuration) []Result {
	b.total.Store(int64(len(cfgs)))
	b.started.Store(true)
	b.metrics.Workers.Set(float64(b.workers))
	b.metrics.BatchRunning.Set(1)
	defer b.metrics.BatchRunning.Set(0)

	b.logger.Info("batch started", "configurations", len(cfgs), "workers", b.workers)

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(cfgs))
	)
	collect := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}

	var g errgroup.Group
	g.SetLimit(b.workers)

	dispatched := 0
	for _, cfg := range cfgs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				collect(b.notStarted(cfg))
				return nil
			}
			collect(b.runOne(ctx, cfg))
			return nil
		})
		dispatched++
	}
	_ = g.Wait()

	for _, cfg := range cfgs[dispatched:] {
		results = append(results, b.notStarted(cfg))
	}
	if ctx.Err() != nil {
		b.logger.Warn("batch interrupted", "reason", ctx.Err())
	}

	_, failed, _ := b.Progress()
	b.logger.Info("batch finished", "configurations", len(cfgs), "failed", failed)
	return results
}

func (b *Batch) notStarted(cfg domain.Configuration) Result {
	b.done.Add(1)
	b.failed.Add(1)
	b.metrics.Configurations.WithLabelValues("not_started").Inc()
	return Result{Config: cfg, Err: fmt.Errorf("%s: %w", cfg.Name(), ErrNotStarted)}
}

func (b *Batch) runOne(ctx context.Context, cfg domain.Configuration) (r Result) {
	r.Config = cfg
	start := domain.Now()
	defer func() {
		if p := recover(); p != nil {
			r.Message = ""
			r.Err = fmt.Errorf("%s: panic: %v", cfg.Name(), p)
		}
		r.Duration = domain.Since(start)
		b.record(r)
	}()

	msg, err := b.runner.Ingest(ctx, cfg)
	if err != nil {
		r.Err = fmt.Errorf("%s: %w", cfg.Name(), err)
		return r
	}
	r.Message = msg
	return r
}

func (b *Batch) record(r Result) {
	b.done.Add(1)
	b.metrics.IngestDuration.Observe(r.Duration.Seconds())
	if r.Err != nil {
		b.failed.Add(1)
		b.metrics.Configurations.WithLabelValues("error").Inc()
		b.logger.Error("configuration failed", "configuration", r.Config.Name(), "error", r.Err, "duration", r.Duration)
		return
	}
	b.metrics.Configurations.WithLabelValues("success").Inc()
	b.logger.Info("configuration completed", "configuration", r.Config.Name(), "duration", r.Duration)
}

// Failed reports whether any result carries an error.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
