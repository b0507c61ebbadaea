package tasks

import "context"

// PoolInterface runs a batch of independent tasks on a bounded set of workers.
// Example usage:
//
//	pool := NewPool(10, PolicyCollectAll)
//	errs := pool.Run(ctx, tasks)
//	// errs[i] is the outcome of tasks[i]
type PoolInterface interface {
	Run(ctx context.Context, tasks []TaskInterface) []error
}

type SchedulerInterface interface {
	Start()
	Stop()
}
