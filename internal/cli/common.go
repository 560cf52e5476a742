package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/cache"
	"github.com/rmlive/capctl/internal/config"
	"github.com/rmlive/capctl/internal/engine/batch"
	"github.com/rmlive/capctl/internal/logging"
	"github.com/rmlive/capctl/internal/notify"
)

// newClient builds an API client from the global config.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	return newClientWithNotifier(cmd, notify.Default())
}

func newClientWithNotifier(cmd *cobra.Command, n *notify.Notifier) (*api.Client, error) {
	cfg := config.GetGlobalConfig()
	return api.New(api.Options{
		BaseURL:  cfg.Server.URL,
		Username: cfg.Server.Username,
		Password: cfg.Server.Password,
		Timeout:  cfg.Server.Timeout,
		Notifier: n,
		Logger:   *logging.FromContext(cmd.Context()),
	})
}

// actionLimiter paces batch actions per ui.action_rate; nil disables pacing.
func actionLimiter() *rate.Limiter {
	r := config.GetGlobalConfig().UI.ActionRate
	if r <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(r), 1)
}

// newVideoRunner returns a runner that reports through the default notifier
// and draws a progress bar on stderr.
func newVideoRunner(cmd *cobra.Command, description string, total int, reload func()) *batch.Runner[api.Video] {
	bar := newItemBar(cmd.ErrOrStderr(), description, total)
	runner := batch.NewRunner[api.Video](notify.Default(), reload).
		WithLogger(*logging.FromContext(cmd.Context())).
		WithProgressCallback(func(s batch.Snapshot) {
			if s.Current == batch.Idle {
				_ = bar.Finish()
				return
			}
			_ = bar.Set(s.Current)
		})
	if l := actionLimiter(); l != nil {
		runner = runner.WithLimiter(l)
	}
	return runner
}

func newItemBar(w io.Writer, description string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30), //nolint:mnd // Bar width in cells.
		progressbar.OptionSetVisibility(stderrIsTerminal()),
		progressbar.OptionClearOnFinish(),
	)
}

func newByteBar(w io.Writer, description string, size int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30), //nolint:mnd // Bar width in cells.
		progressbar.OptionThrottle(100*time.Millisecond), //nolint:mnd // Redraw rate.
		progressbar.OptionSetVisibility(stderrIsTerminal()),
		progressbar.OptionClearOnFinish(),
	)
}

// stderrIsTerminal is replaced in tests.
//
//nolint:gochecknoglobals // Test seam for terminal detection.
var stderrIsTerminal = func() bool { return isTerminal(os.Stderr) }

// newCatalog returns the cached live catalog for client.
func newCatalog(cmd *cobra.Command, client *api.Client) *cache.Catalog {
	cfg := config.GetGlobalConfig()
	log := logging.WithComponentFromContext(cmd.Context(), "cli")
	store, err := cache.NewFileStore(cfg.Cache.Directory, cfg.Cache.Enabled,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	if err != nil {
		log.Debug().Err(err).Msg("live catalog cache unavailable")
		store = nil
	}
	return cache.NewCatalog(store, client.Live, log)
}

// summaryLine renders a batch summary for the log.
func summaryLine(s batch.Summary) string {
	return fmt.Sprintf("%d/%d succeeded", s.Total-s.Failed, s.Total)
}
