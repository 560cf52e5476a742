package batch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rmlive/capctl/internal/notify"
)

// DefaultCompletionMessage is the success text used by the stock actions.
const DefaultCompletionMessage = "Operation Success"

// ErrNilAction is returned by Run when no action is given.
var ErrNilAction = errors.New("batch action cannot be nil")

// Action performs the work for one item. A non-nil error is shown to the
// operator verbatim.
type Action[T any] func(ctx context.Context, item T) error

// ProgressCallback observes each step of a run, including the final reset
// to idle.
type ProgressCallback func(s Snapshot)

// Summary counts the outcome of a run.
type Summary struct {
	Total  int
	Failed int
}

// Runner executes an Action over items one at a time.
//
// A Runner does not lock against concurrent Run calls; callers check Busy
// and disable their triggers while a run is active.
type Runner[T any] struct {
	notifier   *notify.Notifier
	reload     func()
	progress   *Progress
	limiter    *rate.Limiter
	onProgress ProgressCallback
	logger     zerolog.Logger
}

// NewRunner creates a runner reporting through notifier and calling reload
// after every run. reload may be nil.
func NewRunner[T any](notifier *notify.Notifier, reload func()) *Runner[T] {
	return &Runner[T]{
		notifier: notifier,
		reload:   reload,
		progress: NewProgress(),
		logger:   zerolog.Nop(),
	}
}

// WithLimiter paces actions: the runner waits on l before each item.
func (r *Runner[T]) WithLimiter(l *rate.Limiter) *Runner[T] {
	r.limiter = l
	return r
}

// WithProgressCallback sets a progress observer.
func (r *Runner[T]) WithProgressCallback(cb ProgressCallback) *Runner[T] {
	r.onProgress = cb
	return r
}

// WithLogger sets the logger used for per-item debug output.
func (r *Runner[T]) WithLogger(l zerolog.Logger) *Runner[T] {
	r.logger = l.With().Str("component", "batch").Logger()
	return r
}

// Progress exposes the runner's progress state.
func (r *Runner[T]) Progress() *Progress {
	return r.progress
}

// Busy reports whether a run is active.
func (r *Runner[T]) Busy() bool {
	return r.progress.IsRunning()
}

// Run executes action for every item in order. Each failure is notified
// unless it was already shown, and the loop continues. Afterwards
// completionMessage (if non-empty) is notified as a success, progress
// returns to Idle and reload is called once.
func (r *Runner[T]) Run(ctx context.Context, items []T, action Action[T], completionMessage string) (Summary, error) {
	if action == nil {
		return Summary{}, ErrNilAction
	}

	summary := Summary{Total: len(items)}
	r.progress.begin(len(items))

	for i, item := range items {
		r.progress.set(i)
		r.emitProgress()

		if err := r.runOne(ctx, item, action); err != nil {
			summary.Failed++
			r.logger.Debug().Int("index", i).Err(err).Msg("batch item failed")
			if !notify.IsReported(err) {
				r.notifier.Error(err.Error())
			}
		}
	}

	if completionMessage != "" {
		r.notifier.Success(completionMessage)
	}
	r.progress.reset()
	r.emitProgress()

	if r.reload != nil {
		r.reload()
	}

	r.logger.Debug().Int("total", summary.Total).Int("failed", summary.Failed).Msg("batch run finished")
	return summary, nil
}

func (r *Runner[T]) runOne(ctx context.Context, item T, action Action[T]) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return action(ctx, item)
}

func (r *Runner[T]) emitProgress() {
	if r.onProgress != nil {
		r.onProgress(r.progress.Snapshot())
	}
}
