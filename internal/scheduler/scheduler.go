// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs registered jobs on their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler. Schedules use the standard five-field
// cron syntax and descriptors such as @daily or @every 1h.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger.With(slog.String("component", "scheduler")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// AddJob registers job on schedule, e.g. "@daily" or "0 3 * * *".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.run(s.ctx, job)
	})
	if err != nil {
		return err
	}

	s.logger.Info("job registered",
		slog.String("schedule", schedule),
		slog.String("job", job.Name()),
	)
	return nil
}

// RunNow runs job immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	s.logger.Info("running job immediately", slog.String("job", job.Name()))
	return s.run(ctx, job)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	s.logger.Debug("running job", slog.String("job", job.Name()))

	if err := job.Run(ctx); err != nil {
		s.logger.Error("job failed",
			slog.String("job", job.Name()),
			slog.Any("error", err),
		)
		return err
	}

	s.logger.Debug("job completed", slog.String("job", job.Name()))
	return nil
}
