// Package scheduler runs periodic background jobs. Each job runs once at
// start-up and then on its own ticker; runs of the same job never overlap
// within a process. A Lease, when configured, keeps replicas from running the
// same job at the same time. Jobs must still be idempotent: the lease only
// saves duplicate work.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"memento/pkg/requestcontext"
)

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Lease grants exclusive execution of a named job across replicas.
type Lease interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), acquired bool, err error)
}

type Runner struct {
	jobs     []Job
	lease    Lease
	leaseTTL time.Duration
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	clock    func() time.Time
}

type Option func(*Runner)

func WithLease(lease Lease, ttl time.Duration) Option {
	return func(r *Runner) {
		r.lease = lease
		r.leaseTTL = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithClock replaces the wall clock used to pin each run's "now".
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{
		logger:   slog.Default(),
		leaseTTL: 5 * time.Minute,
		tracer:   otel.Tracer("memento/scheduler"),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a job. Must be called before Start.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start runs every registered job until ctx is cancelled and returns once all
// in-flight runs have finished.
func (r *Runner) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, job := range r.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			r.loop(ctx, job)
		}(job)
	}
	wg.Wait()
	return nil
}

func (r *Runner) loop(ctx context.Context, job Job) {
	r.RunNow(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunNow(ctx, job)
		}
	}
}

// RunNow executes one iteration of job synchronously. Errors are logged; the
// next tick retries.
func (r *Runner) RunNow(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	if r.lease != nil {
		release, ok, err := r.lease.Acquire(ctx, job.Name, r.leaseTTL)
		if err != nil {
			// Running without the lease is safe because jobs are idempotent.
			r.logger.WarnContext(ctx, "sweep lease unavailable, running unguarded",
				"job", job.Name,
				"error", err,
			)
		} else if !ok {
			r.logger.DebugContext(ctx, "sweep skipped, lease held elsewhere", "job", job.Name)
			r.metrics.incSkipped(job.Name)
			return
		} else {
			defer release()
		}
	}

	start := r.clock()
	runCtx := requestcontext.WithTime(ctx, start)
	runCtx, span := r.tracer.Start(runCtx, "sweep."+job.Name,
		trace.WithAttributes(attribute.String("job", job.Name)))
	defer span.End()

	err := job.Run(runCtx)
	r.metrics.observeRun(job.Name, err, start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.ErrorContext(ctx, "sweep iteration abandoned",
			"job", job.Name,
			"error", err,
		)
		return
	}
	r.logger.DebugContext(ctx, "sweep iteration finished",
		"job", job.Name,
		"duration", time.Since(start),
	)
}
