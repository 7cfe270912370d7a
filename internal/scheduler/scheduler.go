// Package scheduler triggers recurring crawls on a cron spec.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron. A tick that fires while the previous run of
// the same task is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

// Add registers task under spec ("@every 6h", "0 3 * * *"). Runs get ctx.
func (s *Scheduler) Add(ctx context.Context, spec, name string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		s.log.Info("scheduled task started", zap.String("task", name))
		if err := task(ctx); err != nil {
			s.log.Error("scheduled task failed", zap.String("task", name), zap.Error(err))
			return
		}
		s.log.Info("scheduled task done", zap.String("task", name))
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops new ticks and returns a context that is done once running tasks
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Entries is the number of registered tasks.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
