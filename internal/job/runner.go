package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the job runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// StuckJobAge defines how long a job can sit in processing state
	// before it's considered stuck and reset
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs.
	// If zero, defaults to 5 minutes
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// Runner manages background job processing: persistence of job state,
// a worker pool consuming the queue, recovery of unfinished jobs on
// start, and periodic reset of jobs stuck in processing.
type Runner struct {
	store      Store
	queue      *Queue
	factories  map[string]Factory
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(j Job, err error)
}

// NewRunner creates a new Runner.
func NewRunner(store Store, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		queue:      NewQueue(config.QueueSize, logger),
		factories:  make(map[string]Factory),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(j Job, err error) {
			logger.Error("job execution failed",
				"job_id", j.ID(),
				"job_type", j.Type(),
				"error", err)
		},
	}
}

// RegisterFactory associates a job type with the factory that rebuilds
// it from a persisted record during recovery.
func (r *Runner) RegisterFactory(jobType string, factory Factory) {
	r.factories[jobType] = factory
}

// SetErrorHandler allows setting a custom error handler function.
func (r *Runner) SetErrorHandler(handler func(j Job, err error)) {
	r.errHandler = handler
}

// Submit persists a new job and adds it to the queue.
func (r *Runner) Submit(ctx context.Context, j Job) error {
	if err := r.store.SaveJob(ctx, j); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	if err := r.queue.Enqueue(j); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Start recovers unfinished jobs and begins processing.
func (r *Runner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop gracefully shuts down the runner.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	r.queue.Close()
}

// recover reloads jobs that were pending or in flight when the process
// last stopped and requeues them.
func (r *Runner) recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	processing, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range pending {
		r.requeueRecord(ctx, rec, false)
	}
	for _, rec := range processing {
		r.requeueRecord(ctx, rec, true)
	}

	return nil
}

// requeueRecord rebuilds one persisted job and puts it back on the
// queue, resetting its status first when it was left in processing.
func (r *Runner) requeueRecord(ctx context.Context, rec Record, resetStatus bool) {
	factory, ok := r.factories[rec.Type]
	if !ok {
		r.logger.Warn("no factory registered for persisted job type, skipping",
			"job_id", rec.ID, "job_type", rec.Type)
		return
	}

	j, err := factory(rec)
	if err != nil {
		r.logger.Error("failed to rebuild persisted job",
			"job_id", rec.ID, "job_type", rec.Type, "error", err)
		return
	}

	if resetStatus {
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset job status",
				"job_id", rec.ID, "job_type", rec.Type, "error", err)
			return
		}
	}

	if err := r.queue.Enqueue(j); err != nil {
		r.logger.Error("failed to requeue job",
			"job_id", rec.ID, "job_type", rec.Type, "error", err)
	}
}

// worker processes jobs from the queue.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case j, ok := <-r.queue.Channel():
			if !ok {
				r.logger.Debug("job queue closed, stopping worker", "worker_id", id)
				return
			}
			r.processJob(j, id)
		}
	}
}

// processJob handles execution of a single job.
func (r *Runner) processJob(j Job, workerID int) {
	ctx := context.Background()
	logger := r.logger.With(
		"job_id", j.ID(),
		"job_type", j.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateJobStatus(ctx, j.ID(), StatusProcessing, ""); err != nil {
		logger.Error("failed to update job status to processing", "error", err)
		return
	}

	logger.Info("processing job")

	err := j.Execute(ctx)
	if err != nil {
		logger.Error("job execution failed", "error", err)
		if updateErr := r.store.UpdateJobStatus(ctx, j.ID(), StatusFailed, err.Error()); updateErr != nil {
			logger.Error("failed to update job status to failed", "error", updateErr)
		}
		r.errHandler(j, err)
		return
	}

	logger.Info("job completed successfully")
	if updateErr := r.store.UpdateJobStatus(ctx, j.ID(), StatusCompleted, ""); updateErr != nil {
		logger.Error("failed to update job status to completed", "error", updateErr)
	}
}

// stuckJobMonitor periodically resets jobs that have been in
// "processing" state longer than the configured age.
func (r *Runner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuck, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
			if err != nil {
				r.logger.Error("failed to check for stuck jobs", "error", err)
				continue
			}

			if len(stuck) == 0 {
				continue
			}

			r.logger.Info("found stuck jobs", "count", len(stuck))
			for _, rec := range stuck {
				r.requeueRecord(ctx, rec, true)
			}
		}
	}
}
