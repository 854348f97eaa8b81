package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Task is a unit of background work, such as recording an incoming help
// request.
type Task func(ctx context.Context) error

// Pool runs tasks on a fixed set of workers with a buffered queue.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
}

func NewPool(workers int, bufferSize int) *Pool {
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, bufferSize),
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			if err := task(ctx); err != nil {
				slog.Error("task failed", "worker_id", id, "error", err)
			}
		}
	}
}

func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// Stop closes the queue and waits for workers to drain it.
func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}
