// Package jobs runs background maintenance on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"time"

	"bizadmin/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one unit of scheduled work. It gets a context bounded by the scheduler's lifetime.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
	ctx  context.Context
}

func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = logger.L()
	}
	log = log.With(logger.Component("jobs"))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		log: log,
		ctx: context.Background(),
	}
}

// Add registers job under name with a standard cron spec or descriptor (@daily, @every 1h).
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		l := s.log.With(logger.Op(name))
		ctx := logger.ToContext(s.ctx, l)
		if err := job(ctx); err != nil {
			l.Error("job failed", logger.Err(err), logger.LatencyMs(time.Since(start)))
			return
		}
		l.Info("job finished", logger.LatencyMs(time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("jobs: schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for running jobs.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.log.Info("scheduler started", logger.Count(len(s.cron.Entries())))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ l *zap.Logger }

func (c cronLogger) Info(msg string, kv ...any) {
	c.l.Debug(msg, zap.Any("details", kv))
}

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error(msg, logger.Err(err), zap.Any("details", kv))
}
