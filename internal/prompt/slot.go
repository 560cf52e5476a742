// Package prompt asks the operator for input. Slot is the request/response
// broker used by interactive views; LinePrompter and Confirm read from a
// terminal.
package prompt

import (
	"context"
	"errors"
	"sync"
)

// Prompt outcomes other than an answer.
var (
	ErrDismissed  = errors.New("prompt dismissed")
	ErrSuperseded = errors.New("prompt superseded by a newer prompt")
)

// IsCancelled reports whether err means the operator did not answer.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrDismissed) || errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled)
}

type pending[T any] struct {
	title string
	reply chan result[T]
}

type result[T any] struct {
	value T
	err   error
}

// Slot holds at most one outstanding prompt. Opening a new prompt rejects
// the previous one with ErrSuperseded.
type Slot[T any] struct {
	mu      sync.Mutex
	current *pending[T]
	onOpen  func(title string)
}

// NewSlot returns a Slot that calls onOpen (if set) whenever a prompt opens,
// so a view can show its form.
func NewSlot[T any](onOpen func(title string)) *Slot[T] {
	return &Slot[T]{onOpen: onOpen}
}

// Open shows a prompt titled title and blocks until it is resolved,
// dismissed, superseded or ctx ends.
func (s *Slot[T]) Open(ctx context.Context, title string) (T, error) {
	p := &pending[T]{title: title, reply: make(chan result[T], 1)}

	s.mu.Lock()
	if s.current != nil {
		s.current.reply <- result[T]{err: ErrSuperseded}
	}
	s.current = p
	onOpen := s.onOpen
	s.mu.Unlock()

	if onOpen != nil {
		onOpen(title)
	}

	select {
	case r := <-p.reply:
		return r.value, r.err
	case <-ctx.Done():
		s.mu.Lock()
		if s.current == p {
			s.current = nil
		}
		s.mu.Unlock()
		var zero T
		return zero, ctx.Err()
	}
}

// Title returns the title of the outstanding prompt, if any.
func (s *Slot[T]) Title() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "", false
	}
	return s.current.title, true
}

// Resolve answers the outstanding prompt. It reports false when none is open.
func (s *Slot[T]) Resolve(value T) bool {
	return s.finish(result[T]{value: value})
}

// Dismiss rejects the outstanding prompt with ErrDismissed.
func (s *Slot[T]) Dismiss() bool {
	return s.finish(result[T]{err: ErrDismissed})
}

func (s *Slot[T]) finish(r result[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	s.current.reply <- r
	s.current = nil
	return true
}
