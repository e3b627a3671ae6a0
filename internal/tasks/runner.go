package tasks

import (
	"context"
	"sync"
	"time"

	"higestdata/internal/logger"
)

// Task is a unit of detached work. Its outcome is logged, never
// surfaced to the request that submitted it.
type Task struct {
	Name  string
	Delay time.Duration
	Run   func(ctx context.Context) error
}

// Runner executes submitted tasks on a single background goroutine,
// decoupled from the request/response lifecycle. Submitting never
// blocks a request: when the queue is full the task is dropped and
// logged.
type Runner struct {
	queue chan Task
	wg    sync.WaitGroup
}

func NewRunner(buffer int) *Runner {
	if buffer <= 0 {
		buffer = 64
	}
	return &Runner{
		queue: make(chan Task, buffer),
	}
}

// Start consumes the queue until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case task := <-r.queue:
				r.execute(ctx, task)
			}
		}
	}()
}

// Submit enqueues a task. The caller must not assume the task runs
// before its own response is written.
func (r *Runner) Submit(task Task) bool {
	select {
	case r.queue <- task:
		return true
	default:
		logger.Warn("task dropped, queue full", map[string]any{
			"task": task.Name,
		})
		return false
	}
}

// Wait blocks until the consumer goroutine has stopped.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) execute(ctx context.Context, task Task) {
	if task.Delay > 0 {
		timer := time.NewTimer(task.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	if err := task.Run(ctx); err != nil {
		logger.Error("task failed", map[string]any{
			"task":  task.Name,
			"error": err.Error(),
		})
		return
	}

	logger.Debug("task completed", map[string]any{
		"task": task.Name,
	})
}
