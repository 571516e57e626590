package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Task is a unit of background work. Errors are logged, never returned to the submitter.
type Task func(ctx context.Context) error

type job struct {
	name string
	ctx  context.Context
	fn   Task
}

// Pool runs fire-and-forget tasks on a bounded set of goroutines. Submit
// never blocks: when the queue is full the task is dropped and logged.
type Pool struct {
	queue  chan job
	pool   *pool.Pool
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewPool(workers, queueSize int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = workers * 64
	}

	p := &Pool{
		queue:  make(chan job, queueSize),
		pool:   pool.New().WithMaxGoroutines(workers),
		logger: logger,
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Pool) loop() {
	defer close(p.done)
	for j := range p.queue {
		p.pool.Go(func() { p.run(j) })
	}
}

func (p *Pool) run(j job) {
	var catcher panics.Catcher
	var err error
	catcher.Try(func() { err = j.fn(j.ctx) })

	if r := catcher.Recovered(); r != nil {
		p.logger.Error("background task panicked", zap.String("task", j.name), zap.Error(r.AsError()))
		return
	}
	if err != nil {
		p.logger.Error("background task failed", zap.String("task", j.name), zap.Error(err))
	}
}

// Submit schedules fn. The task context keeps the values of ctx (trace
// span, identity) but not its cancellation, so it outlives the request.
func (p *Pool) Submit(ctx context.Context, name string, fn Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("background pool closed, task dropped", zap.String("task", name))
		return false
	}

	select {
	case p.queue <- job{name: name, ctx: context.WithoutCancel(ctx), fn: fn}:
		return true
	default:
		p.logger.Warn("background queue full, task dropped", zap.String("task", name))
		return false
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		<-p.done
		p.pool.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for background tasks: %w", ctx.Err())
	}
}
