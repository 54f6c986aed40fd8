// Package batch runs independent overlay jobs on a fixed pool of workers.
package batch

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool manages a pool of workers for concurrent task execution.
type Pool struct {
	workers    int
	taskQueue  chan func()
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	running    atomic.Bool
	tasksTotal atomic.Uint64
	tasksDone  atomic.Uint64
}

// NewPool creates a new pool with the specified number of workers.
// If workers is 0, it defaults to runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:   workers,
		taskQueue: make(chan func(), workers*16),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the workers.
func (p *Pool) Start() {
	if p.running.Swap(true) {
		return
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			task()
			p.tasksDone.Add(1)
		}
	}
}

// Submit queues a task, blocking while the queue is full.
// Returns false if the pool is not running or ctx is done first.
func (p *Pool) Submit(ctx context.Context, task func()) bool {
	if !p.running.Load() {
		return false
	}

	select {
	case p.taskQueue <- task:
		p.tasksTotal.Add(1)
		return true
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	}
}

// Stop drains queued tasks and waits for all workers to finish.
func (p *Pool) Stop() {
	if !p.running.Swap(false) {
		return
	}

	close(p.taskQueue)
	p.wg.Wait()
	p.cancel()
}

// Stats returns pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:    p.workers,
		Running:    p.running.Load(),
		TasksTotal: p.tasksTotal.Load(),
		TasksDone:  p.tasksDone.Load(),
		QueueLen:   len(p.taskQueue),
	}
}

// PoolStats contains pool statistics.
type PoolStats struct {
	Workers    int
	Running    bool
	TasksTotal uint64
	TasksDone  uint64
	QueueLen   int
}

// Outcome is the result of one job.
type Outcome[R any] struct {
	Index  int
	Result R
	Err    error
}

// Run executes fn for every job on a new pool and returns outcomes in job order.
// Jobs that could not be submitted because ctx was cancelled carry ctx.Err().
func Run[J, R any](ctx context.Context, workers int, jobs []J, fn func(context.Context, J) (R, error)) []Outcome[R] {
	outcomes := make([]Outcome[R], len(jobs))
	pool := NewPool(workers)
	pool.Start()

	var wg sync.WaitGroup
	for i, job := range jobs {
		i, job := i, job
		outcomes[i].Index = i

		wg.Add(1)
		ok := pool.Submit(ctx, func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return
			}
			outcomes[i].Result, outcomes[i].Err = fn(ctx, job)
		})
		if !ok {
			wg.Done()
			outcomes[i].Err = ctx.Err()
		}
	}

	wg.Wait()
	pool.Stop()
	return outcomes
}
