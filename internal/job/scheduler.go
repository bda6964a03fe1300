package job

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler submits sweep jobs on a fixed interval. It does not run the
// jobs itself; the runner's workers do.
type Scheduler struct {
	runner     *Runner
	newJob     func() (Job, error)
	interval   time.Duration
	runOnStart bool
	logger     *slog.Logger

	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewScheduler creates a scheduler that builds a fresh job with newJob
// at every tick and submits it to the runner.
func NewScheduler(runner *Runner, newJob func() (Job, error), interval time.Duration, runOnStart bool, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		newJob:     newJob,
		interval:   interval,
		runOnStart: runOnStart,
		logger:     logger,
	}
}

// Start begins the scheduling loop.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFunc = cancel

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop halts the scheduling loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.runOnStart {
		s.submit(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.submit(ctx)
		}
	}
}

func (s *Scheduler) submit(ctx context.Context) {
	j, err := s.newJob()
	if err != nil {
		s.logger.Error("failed to build scheduled job", "error", err)
		return
	}

	if err := s.runner.Submit(ctx, j); err != nil {
		s.logger.Error("failed to submit scheduled job",
			"job_type", j.Type(), "error", err)
		return
	}

	s.logger.Debug("scheduled job submitted", "job_id", j.ID(), "job_type", j.Type())
}
