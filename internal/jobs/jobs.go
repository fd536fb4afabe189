// Package jobs runs the periodic background work of the workshop.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// OverdueSweeper flags pending invoices past their due date.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// Scheduler wraps a gocron scheduler running in UTC.
type Scheduler struct {
	s       *gocron.Scheduler
	log     *zap.Logger
	timeout time.Duration
}

func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{s: s, log: log, timeout: time.Minute}
}

// EveryOverdueSweep runs sw every interval, starting immediately.
func (j *Scheduler) EveryOverdueSweep(interval time.Duration, sw OverdueSweeper) error {
	if interval <= 0 {
		return errors.New("overdue sweep interval must be positive")
	}
	_, err := j.s.Every(interval).Tag("overdue-sweep").Do(j.sweep, sw)
	return err
}

func (j *Scheduler) sweep(sw OverdueSweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	n, err := sw.SweepOverdue(ctx)
	if err != nil {
		j.log.Error("overdue sweep failed", zap.Error(err))
		return
	}
	j.log.Debug("overdue sweep done", zap.Int("marked", n))
}

// Start runs the jobs in the background.
func (j *Scheduler) Start() { j.s.StartAsync() }

// Stop waits for running jobs and stops the scheduler.
func (j *Scheduler) Stop() { j.s.Stop() }

// Jobs reports how many jobs are registered.
func (j *Scheduler) Jobs() int { return len(j.s.Jobs()) }
