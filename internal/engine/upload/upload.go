// Package upload implements the gated platform upload: check the platform
// identity, ask for a title, convert every selected video, then queue the
// upload on the server.
package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/engine/batch"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/internal/prompt"
)

// Operator-facing messages.
const (
	MsgLoginFirst    = "Please login first"
	MsgPreprocessing = "Preprocessing, please wait..."
	MsgQueued        = "Uploading on background. You can close the page now."
)

// Service is the part of the API client the workflow uses.
type Service interface {
	batch.VideoService
	BiliIdentity(ctx context.Context) (string, error)
	BiliUpload(ctx context.Context, title string, fileNames []string) (api.Result, error)
}

// TitleFunc asks the operator for the upload title. heading names the
// account the upload goes to.
type TitleFunc func(ctx context.Context, heading string) (string, error)

// LoginFunc starts the platform login flow.
type LoginFunc func(ctx context.Context) error

// Workflow runs gated uploads.
type Workflow struct {
	svc      Service
	notifier *notify.Notifier
	runner   *batch.Runner[api.Video]
	title    TitleFunc
	login    LoginFunc
	logger   zerolog.Logger
}

// New returns a Workflow. runner converts the videos before the upload;
// login is started when no platform session exists and may be nil.
func New(svc Service, notifier *notify.Notifier, runner *batch.Runner[api.Video], title TitleFunc, login LoginFunc) *Workflow {
	return &Workflow{
		svc:      svc,
		notifier: notifier,
		runner:   runner,
		title:    title,
		login:    login,
		logger:   zerolog.Nop(),
	}
}

// WithLogger sets the workflow logger.
func (w *Workflow) WithLogger(l zerolog.Logger) *Workflow {
	w.logger = l.With().Str("component", "upload").Logger()
	return w
}

// Heading is the title prompt heading for account name.
func Heading(name string) string {
	return "You are uploading as " + name
}

// Run uploads videos as one platform video. A dismissed title prompt ends
// the workflow silently. Identity, login and prompt errors are returned as
// they are.
func (w *Workflow) Run(ctx context.Context, videos []api.Video) error {
	name, err := w.svc.BiliIdentity(ctx)
	if err != nil {
		return err
	}

	if name == api.NotLoggedIn {
		w.notifier.Info(MsgLoginFirst)
		if w.login == nil {
			return nil
		}
		return w.login(ctx)
	}

	title, err := w.title(ctx, Heading(name))
	if err != nil {
		if prompt.IsCancelled(err) {
			w.logger.Debug().Err(err).Msg("upload title prompt cancelled")
			return nil
		}
		return err
	}
	title = norm.NFC.String(strings.TrimSpace(title))
	if title == "" {
		return nil
	}

	w.notifier.Info(MsgPreprocessing)
	summary, err := w.runner.Run(ctx, videos, batch.ConvertAction(w.svc), "")
	if err != nil {
		return err
	}
	w.logger.Debug().Int("total", summary.Total).Int("failed", summary.Failed).Msg("preprocessing finished")

	fileNames := make([]string, 0, len(videos))
	for _, v := range videos {
		fileNames = append(fileNames, v.FileName)
	}

	res, err := w.svc.BiliUpload(ctx, title, fileNames)
	if err != nil {
		return err
	}
	if err = res.Err(); err != nil {
		w.notifier.Error(err.Error())
		return fmt.Errorf("queueing upload: %w", notify.MarkReported(err))
	}

	w.notifier.Success(MsgQueued)
	return nil
}
