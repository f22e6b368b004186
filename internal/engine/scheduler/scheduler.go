// Package scheduler implements the concurrent compile phase: a shared task
// queue drained by a fixed pool of workers.
package scheduler

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
)

// Stats summarizes the outcome of the compile phase.
type Stats struct {
	// Completed is the number of tasks that produced artifacts.
	Completed uint32

	// Failed is the number of tasks that failed permanently.
	Failed uint32

	// Terminated is true when the run stopped early, either because a task
	// failed without continue-on-error or because the user interrupted it.
	Terminated bool
}

// Scheduler runs compile tasks on a worker pool.
type Scheduler struct {
	logger ports.Logger
}

// New creates a Scheduler.
func New(logger ports.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// run is the shared mutable state of one compile phase. The pending stack
// is guarded by the mutex; the counters and flags are independent atomics
// so they can be read at any time for progress reporting.
type run struct {
	mu      sync.Mutex
	pending []*domain.Task

	completed   atomic.Uint32
	failed      atomic.Uint32
	retryBudget atomic.Int64
	terminate   atomic.Bool

	total uint32
}

// pop takes the most recently planned pending task, or nil when the queue
// is drained. No execution order is promised; the stack order only means
// retried tasks tend to run again promptly.
func (r *run) pop() *domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.pending)
	if n == 0 {
		return nil
	}
	task := r.pending[n-1]
	r.pending = r.pending[:n-1]
	return task
}

// push returns a task to the queue for a retry.
func (r *run) push(task *domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, task)
}

// Run compiles all tasks and blocks until every worker has exited. The pool
// size is the hardware concurrency, or 1 in serial mode. Cancellation is
// cooperative: the termination flag and the context are checked between
// tasks only, never mid-compile.
func (s *Scheduler) Run(
	ctx context.Context,
	tasks []*domain.Task,
	compiler ports.Compiler,
	artifacts ports.ArtifactWriter,
	reporter ports.Reporter,
	opts *domain.Options,
) Stats {
	r := &run{
		pending: tasks,
		total:   uint32(len(tasks)),
	}
	r.retryBudget.Store(int64(opts.RetryCount))

	workers := runtime.NumCPU()
	if opts.Serial {
		workers = 1
	}

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			s.worker(ctx, r, compiler, artifacts, reporter, opts)
			return nil
		})
	}
	_ = g.Wait()

	return Stats{
		Completed:  r.completed.Load(),
		Failed:     r.failed.Load(),
		Terminated: r.terminate.Load() || ctx.Err() != nil,
	}
}

func (s *Scheduler) worker(
	ctx context.Context,
	r *run,
	compiler ports.Compiler,
	artifacts ports.ArtifactWriter,
	reporter ports.Reporter,
	opts *domain.Options,
) {
	for {
		if r.terminate.Load() || ctx.Err() != nil {
			return
		}

		task := r.pop()
		if task == nil {
			return
		}

		// The invocation happens outside any lock; this is the only place
		// a worker blocks.
		result := compiler.Invoke(ctx, task)

		if result.LaunchFailed {
			// The retry budget is global across all tasks and workers: a
			// run-wide safety valve for flaky process spawning.
			if r.retryBudget.Add(-1) >= 0 {
				r.push(task)
				continue
			}
			s.fail(r, reporter, task, result.Diagnostic, opts)
			continue
		}

		if !result.Succeeded {
			s.fail(r, reporter, task, result.Diagnostic, opts)
			continue
		}

		if err := artifacts.WriteArtifacts(task, result.Payload); err != nil {
			s.fail(r, reporter, task, err.Error(), opts)
			continue
		}

		done := r.completed.Add(1)
		reporter.TaskCompleted(task, done, r.total, result.Diagnostic)
	}
}

func (s *Scheduler) fail(r *run, reporter ports.Reporter, task *domain.Task, diagnostic string, opts *domain.Options) {
	r.failed.Add(1)
	reporter.TaskFailed(task, diagnostic)
	if !opts.ContinueOnError {
		r.terminate.Store(true)
	}
}
