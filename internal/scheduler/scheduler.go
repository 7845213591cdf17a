package scheduler

import (
	"context"
	"fmt"
	"sync"

	"simhockey/youtube-updater/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Runner is a job run on every tick
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler repeats the update on a cron schedule. A tick that fires while
// the previous run is still going is skipped.
type Scheduler struct {
	spec       string
	runner     Runner
	runOnStart bool
	logger     zerolog.Logger
	cron       *cron.Cron

	wg sync.WaitGroup
}

// NewScheduler creates a new scheduler instance
func NewScheduler(spec string, runner Runner, runOnStart bool, logger zerolog.Logger) *Scheduler {
	logger = logger.With().Str("component", "scheduler").Logger()

	return &Scheduler{
		spec:       spec,
		runner:     runner,
		runOnStart: runOnStart,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Msg("Scheduler starting...")

	// The start-up run goes through the same wrapped job so ticks skip it too
	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{s.logger})).
		Then(cron.FuncJob(func() { s.run(ctx) }))

	if _, err := s.cron.AddJob(s.spec, job); err != nil {
		return fmt.Errorf("failed to schedule update: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.spec).
		Msg("Update scheduled")

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			job.Run()
		}()
	}

	return nil
}

// Stop stops the scheduler and waits for a running update to finish
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("Stopping scheduler...")

	<-s.cron.Stop().Done()
	s.wg.Wait()

	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.logger.Info().Msg("Running scheduled update...")
	if err := s.runner.Run(ctx); err != nil {
		metrics.RecordError("scheduler", "run")
		s.logger.Error().Err(err).Msg("Scheduled update failed")
	}
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
