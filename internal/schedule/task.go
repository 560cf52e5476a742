// Package schedule runs cancellable timer-driven tasks. A Task owns its
// timer and goroutine; Stop and context cancellation both release them.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task is a running scheduled callback.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every calls fn every interval until Stop is called or ctx is cancelled.
// The first call happens one interval after start. Calls never overlap: a
// slow fn delays the next tick instead of queueing.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Stop may race with a pending tick.
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()
	return t
}

// After calls fn once after delay unless the task is stopped first.
func After(ctx context.Context, delay time.Duration, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
			if ctx.Err() == nil {
				fn(ctx)
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for its goroutine to exit. It may be
// called more than once but never from inside fn; use Cancel there.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.Cancel()
	<-t.done
}

// Cancel stops future calls without waiting. Safe to call from fn.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
