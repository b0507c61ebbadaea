package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

var _ PoolInterface = (*Pool)(nil)

// ErrNotRun marks tasks that were never started because the batch was cancelled.
var ErrNotRun = errors.New("task not run")

// Policy decides what a failed task means for the rest of the batch.
type Policy string

const (
	// PolicyFailFast cancels outstanding tasks after the first failure.
	PolicyFailFast Policy = "fail-fast"
	// PolicyCollectAll runs every task and reports all failures afterwards.
	PolicyCollectAll Policy = "collect-all"
	// PolicySkipFailed runs every task; failed results are dropped by the caller.
	PolicySkipFailed Policy = "skip-failed"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFailFast, PolicyCollectAll, PolicySkipFailed:
		return p, nil
	}
	return "", fmt.Errorf("unknown sample policy '%s'", s)
}

type Pool struct {
	workerCount int
	policy      Policy
	taskTimeout time.Duration
	retryBase   time.Duration
	retryMax    time.Duration
	retryIf     func(error) bool
}

type PoolOption func(*Pool)

// WithTaskTimeout bounds a single attempt of a task.
func WithTaskTimeout(d time.Duration) PoolOption {
	return func(p *Pool) { p.taskTimeout = d }
}

// WithRetry retries failed attempts for which retryIf holds, waiting base, 2*base, ... up to max.
func WithRetry(retryIf func(error) bool, base, max time.Duration) PoolOption {
	return func(p *Pool) {
		p.retryIf = retryIf
		p.retryBase = base
		p.retryMax = max
	}
}

func NewPool(workerCount int, policy Policy, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		workerCount: workerCount,
		policy:      policy,
		taskTimeout: 5 * time.Minute,
		retryBase:   time.Second,
		retryMax:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run dispatches tasks to the workers and blocks until every dispatched task
// has finished. The returned slice is aligned with tasks: errs[i] is nil when
// tasks[i] succeeded.
func (p *Pool) Run(ctx context.Context, tasks []TaskInterface) []error {
	errs := make([]error, len(tasks))
	if len(tasks) == 0 {
		return errs
	}

	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan int)

	workers := min(p.workerCount, len(tasks))
	for i := 0; i < workers; i++ {
		workerID := i
		g.Go(func() error {
			for idx := range queue {
				err := p.executeTask(gctx, workerID, tasks[idx])
				errs[idx] = err
				if err != nil && p.policy == PolicyFailFast {
					return err
				}
			}
			return nil
		})
	}

dispatch:
	for idx := range tasks {
		select {
		case queue <- idx:
		case <-gctx.Done():
			for rest := idx; rest < len(tasks); rest++ {
				errs[rest] = fmt.Errorf("%w: %w", ErrNotRun, context.Cause(gctx))
			}
			break dispatch
		}
	}
	close(queue)

	if err := g.Wait(); err != nil {
		slog.Debug("Batch stopped early", "policy", string(p.policy), "error", err)
	}

	return errs
}

func (p *Pool) executeTask(ctx context.Context, workerID int, task TaskInterface) error {
	task.Start()

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrNotRun, err)
		}

		taskCtx, cancel := context.WithTimeout(ctx, p.taskTimeout)
		err := task.Execute(taskCtx)
		cancel()

		if err == nil {
			slog.Debug("Worker task completed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "duration", task.GetDuration())
			return nil
		}

		slog.Debug("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if p.retryIf == nil || !p.retryIf(err) || !task.CanRetry() {
			if task.GetRetryCount() > 0 {
				slog.Warn("Task failed after retries", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "duration", task.GetDuration(), "last_error", err)
			}
			return err
		}

		task.IncrementRetryCount()
		retryDelay := p.retryBase << uint(task.GetRetryCount()-1)
		if retryDelay > p.retryMax {
			retryDelay = p.retryMax
		}

		slog.Debug("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
