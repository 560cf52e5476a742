// Package login drives the platform QR login: fetch a QR code, poll the
// server until the code is scanned or expires, then close the session.
package login

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/schedule"
)

// Default timings of a login session.
const (
	DefaultPollInterval = 1500 * time.Millisecond
	DefaultCloseDelay   = 3000 * time.Millisecond
)

// ErrAlreadyOpen is returned when Open is called twice on one session.
var ErrAlreadyOpen = errors.New("login session already opened")

// State is the login session state. Values other than NotStarted and
// AwaitingScan are the server check codes.
type State int

// Known states.
const (
	NotStarted   State = -1
	AwaitingScan State = 0
	TimedOut     State = 1
	LoggedIn     State = 1000
)

// String returns the text shown for a state.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "Loading"
	case AwaitingScan:
		return "Waiting for scan"
	case TimedOut:
		return "QrCode Timeout!"
	case LoggedIn:
		return "Login Success!"
	default:
		return fmt.Sprintf("Login finished with code %d", int(s))
	}
}

// Terminal reports whether polling stops in this state.
func (s State) Terminal() bool {
	return s != NotStarted && s != AwaitingScan
}

// Service is the part of the API client a session needs.
type Service interface {
	BiliLogin(ctx context.Context) (api.LoginQR, error)
	BiliCheck(ctx context.Context, key string) (api.Result, error)
}

// Options tunes a Session. Zero values select the defaults.
type Options struct {
	PollInterval time.Duration
	CloseDelay   time.Duration
	// OnChange observes every state change. It runs on the poll goroutine.
	OnChange func(State)
	Logger   zerolog.Logger
}

// Session is one QR login attempt.
type Session struct {
	svc  Service
	opts Options

	mu     sync.Mutex
	state  State
	key    string
	qr     string
	opened bool
	closed bool
	poll   *schedule.Task
	closer *schedule.Task

	done chan struct{}
}

// NewSession returns a session in the NotStarted state.
func NewSession(svc Service, opts Options) *Session {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = DefaultCloseDelay
	}
	opts.Logger = opts.Logger.With().Str("component", "login").Logger()
	return &Session{svc: svc, opts: opts, state: NotStarted, done: make(chan struct{})}
}

// Open requests a QR code and starts polling. Cancelling ctx closes the
// session.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.opened {
		s.mu.Unlock()
		return ErrAlreadyOpen
	}
	s.opened = true
	s.mu.Unlock()

	qr, err := s.svc.BiliLogin(ctx)
	if err != nil {
		s.Close()
		return fmt.Errorf("requesting login qr code: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.key = qr.Key
	s.qr = qr.QR
	s.state = AwaitingScan
	s.poll = schedule.Every(ctx, s.opts.PollInterval, s.check)
	s.mu.Unlock()

	s.opts.Logger.Debug().Msg("qr code issued, polling")
	s.publish(AwaitingScan)

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	return nil
}

func (s *Session) check(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	key := s.key
	s.mu.Unlock()

	res, err := s.svc.BiliCheck(ctx, key)
	if err != nil {
		// Reported by the client; keep polling.
		s.opts.Logger.Debug().Err(err).Msg("login check failed")
		return
	}
	if res.Code == 0 {
		return
	}

	next := State(res.Code)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.poll.Cancel()
	s.closer = schedule.After(context.WithoutCancel(ctx), s.opts.CloseDelay, func(context.Context) {
		s.Close()
	})
	s.mu.Unlock()

	s.opts.Logger.Info().Int("code", res.Code).Msg("login finished")
	s.publish(next)
}

func (s *Session) publish(st State) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(st)
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// QR returns the QR image data URL once issued.
func (s *Session) QR() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qr
}

// Close stops polling and ends the session. It is idempotent and must not
// be called from OnChange.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	poll, closer := s.poll, s.closer
	s.mu.Unlock()

	poll.Stop()
	closer.Cancel()
	close(s.done)
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session closes or ctx ends and returns the last state.
func (s *Session) Wait(ctx context.Context) (State, error) {
	select {
	case <-s.done:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}
