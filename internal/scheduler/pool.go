package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"investor-backend/internal/shared/metrics"
	"investor-backend/internal/shared/telemetry"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
)

// PoolOptions configures an in-process Pool.
type PoolOptions struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
	OnFailure   FailureSink
}

// Pool runs tasks on a fixed set of goroutines fed by a bounded channel.
type Pool struct {
	handler Handler
	opts    PoolOptions

	mu     sync.RWMutex
	closed bool
	tasks  chan Task

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewPool starts the workers. Call Shutdown to drain them.
func NewPool(handler Handler, opts PoolOptions) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	p := &Pool{
		handler: handler,
		opts:    opts,
		tasks:   make(chan Task, opts.QueueSize),
		group:   group,
		cancel:  cancel,
	}
	for i := 0; i < opts.Workers; i++ {
		group.Go(func() error {
			for task := range p.tasks {
				p.run(gctx, task)
			}
			return nil
		})
	}
	return p
}

// Schedule enqueues the task without blocking. A full queue or a stopped pool yields ErrUnavailable.
func (p *Pool) Schedule(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now().UTC()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		metrics.IncTasksRejected()
		return fmt.Errorf("%w: pool is shut down", ErrUnavailable)
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		metrics.IncTasksRejected()
		return fmt.Errorf("%w: queue full (%d)", ErrUnavailable, cap(p.tasks))
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish.
// If ctx expires first, running handlers are canceled.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.group.Wait() }()

	select {
	case err := <-done:
		p.cancel()
		return err
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) run(base context.Context, task Task) {
	ctx := base
	if p.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(base, p.opts.TaskTimeout)
		defer cancel()
	}

	start := time.Now()
	err := p.invoke(ctx, task)
	fields := task.logFields()
	fields["duration_ms"] = time.Since(start).Milliseconds()
	fields["queue_wait_ms"] = start.Sub(task.EnqueuedAt).Milliseconds()
	if err == nil {
		telemetry.Info("task.completed", fields)
		return
	}

	fields["error"] = err.Error()
	telemetry.Error("task.failed", fields)
	if p.opts.OnFailure != nil {
		metrics.IncTasksDeadLettered()
		p.opts.OnFailure(ctx, task, err)
	}
}

func (p *Pool) invoke(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panic: %v", rec)
		}
	}()
	return p.handler(ctx, task)
}

var _ Scheduler = (*Pool)(nil)
