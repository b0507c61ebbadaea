package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// Scheduler runs a job once at startup and then on every tick of interval.
// Runs never overlap; a tick that fires during a run is dropped.
type Scheduler struct {
	job      func(ctx context.Context)
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(parent context.Context, interval time.Duration, job func(ctx context.Context)) *Scheduler {
	ctx, cancel := context.WithCancel(parent)

	return &Scheduler{
		job:      job,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runJob()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runJob()
			}
		}
	}()
}

// Stop cancels a running job and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runJob() {
	if s.ctx.Err() != nil {
		return
	}

	start := time.Now()
	s.job(s.ctx)

	slog.Debug("Scheduled run finished", "duration", time.Since(start), "next_in", s.interval)
}
