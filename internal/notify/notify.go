// Package notify is the process-wide notification sink: transient, one-shot
// messages for the operator (info, success, error). The sink is installed
// once at startup with Init and lives for the whole process.
package notify

import (
	"errors"
	"fmt"
	"sync"
)

// Level classifies a notification.
type Level int

// Notification levels.
const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notification is one message delivered to a Sink.
type Notification struct {
	Level   Level
	Message string
}

// Sink receives notifications.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Notify calls f(n).
func (f SinkFunc) Notify(n Notification) { f(n) }

// Notifier is the convenience surface used by workflows.
type Notifier struct {
	sink Sink
}

// New wraps sink. A nil sink drops everything.
func New(sink Sink) *Notifier {
	return &Notifier{sink: sink}
}

// Info emits an info notification.
func (n *Notifier) Info(msg string) { n.emit(LevelInfo, msg) }

// Success emits a success notification.
func (n *Notifier) Success(msg string) { n.emit(LevelSuccess, msg) }

// Error emits an error notification.
func (n *Notifier) Error(msg string) { n.emit(LevelError, msg) }

func (n *Notifier) emit(level Level, msg string) {
	if n == nil || n.sink == nil {
		return
	}
	n.sink.Notify(Notification{Level: level, Message: msg})
}

var (
	defaultMu sync.RWMutex //nolint:gochecknoglobals // Guards the process-wide sink
	defaultN  = New(nil)   //nolint:gochecknoglobals // Process-lifetime singleton, replaced by Init
)

// Init installs the process-wide sink. There is no teardown.
func Init(sink Sink) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultN = New(sink)
}

// Default returns the process-wide notifier.
func Default() *Notifier {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultN
}

// reportedError marks an error whose message has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// MarkReported wraps err so IsReported recognises it. nil stays nil.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err (or anything it wraps) was already shown.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
