package dispatch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// Config holds configuration for the dispatcher.
type Config struct {
	// Workers determines how many concurrent workers process jobs.
	// Zero or negative means one worker per available CPU.
	Workers int

	// MaxRetries bounds attempts per job before it is skipped.
	// Zero means the default of 5.
	MaxRetries int

	// Debug is passed through to every job's processing call.
	Debug bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Workers:    0,
		MaxRetries: 5,
	}
}

// Result is the settled state of one dispatched batch.
type Result struct {
	// Outcomes holds the non-skipped job outcomes in completion order,
	// the order workers finished, not submission order. Each outcome
	// carries its own job id.
	Outcomes []*storage.Outcome

	// Skipped lists the jobs that exhausted their retry budget or
	// completed with nothing to write, in completion order.
	Skipped []Job
}

// Dispatcher executes batches of per-tile jobs concurrently against a
// shared array handle with bounded immediate retry.
//
// The worker pool uses shared-memory goroutines rather than isolated
// processes: the array handle is not safely transferable across a
// serialization boundary. Jobs touching disjoint tiles may start, retry and
// finish in any interleaving; only retries of the same job are sequential.
type Dispatcher struct {
	workers    int
	maxRetries int
	debug      bool
	logger     *slog.Logger
}

// New creates a Dispatcher.
func New(cfg Config, logger *slog.Logger) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultConfig().MaxRetries
	}
	return &Dispatcher{
		workers:    workers,
		maxRetries: maxRetries,
		debug:      cfg.Debug,
		logger:     logger,
	}
}

// Dispatch executes every job against the array handle and blocks until
// each one has either produced an outcome or exhausted its retries.
//
// A fault inside a job is absorbed: it is retried up to the bound and then
// downgraded to a silent skip; one bad tile never aborts the batch. A
// failure on the submission side (context cancellation before all jobs are
// handed to workers) aborts the whole dispatch instead.
func (d *Dispatcher) Dispatch(ctx context.Context, jobs []Job, array storage.Array) (*Result, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	type settled struct {
		job     Job
		outcome *storage.Outcome
	}

	jobCh := make(chan Job)
	settledCh := make(chan settled)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobCh {
				settledCh <- settled{job: job, outcome: d.run(ctx, workerID, job, array)}
			}
		}(i)
	}

	// Close the settled channel once every worker has drained its jobs,
	// so the collection loop below terminates.
	go func() {
		wg.Wait()
		close(settledCh)
	}()

	var submitErr error
	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case jobCh <- job:
			case <-ctx.Done():
				submitErr = ctx.Err()
				return
			}
		}
	}()

	result := &Result{}
	for s := range settledCh {
		if s.outcome == nil {
			result.Skipped = append(result.Skipped, s.job)
			continue
		}
		result.Outcomes = append(result.Outcomes, s.outcome)
		d.logger.Debug("job completed",
			"job_id", s.outcome.JobID,
			"label", s.outcome.Label,
			"completed", len(result.Outcomes),
			"total", len(jobs))
	}

	if submitErr != nil {
		return nil, submitErr
	}
	return result, nil
}

// run executes one job with bounded immediate retry. Exhaustion yields nil:
// a skip, not a batch failure.
func (d *Dispatcher) run(ctx context.Context, workerID int, job Job, array storage.Array) *storage.Outcome {
	logger := d.logger.With(
		"job_id", job.ID(),
		"label", job.Label(),
		"worker_id", workerID,
	)

	outcome, err := Retry(ctx, d.maxRetries, func(ctx context.Context) (*storage.Outcome, error) {
		return job.Process(ctx, array, d.debug)
	})
	if err != nil {
		logger.Warn("job skipped after retry exhaustion", "error", err)
		return nil
	}

	if outcome == nil {
		logger.Debug("job completed with nothing to write")
	}
	return outcome
}
