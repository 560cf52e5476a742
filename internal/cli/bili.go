package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/config"
	"github.com/rmlive/capctl/internal/logging"
	"github.com/rmlive/capctl/internal/login"
	"github.com/rmlive/capctl/internal/notify"
)

// ErrLoginFailed is returned when the QR login ends in any state but LoggedIn.
var ErrLoginFailed = errors.New("platform login failed")

// loginTimings overrides the session poll and close delays in tests.
//
//nolint:gochecknoglobals // Test seam for login timings.
var loginTimings = struct {
	poll  time.Duration
	close time.Duration
}{}

func newBiliLoginCmd() *cobra.Command {
	var qrOut string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the video platform by scanning a QR code",
		Long: "Requests a login QR code from the server, saves it as an image and " +
			"waits until the code is scanned in the platform app or expires.",
		Example: `  capctl bili login
  capctl bili login --qr-out ~/Desktop/login.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			return runLogin(cmd, client, qrOut)
		},
	}
	cmd.Flags().StringVar(&qrOut, "qr-out", "", "where to save the QR image (default $CAPCTL_HOME/login-qr.png)")
	return cmd
}

func newBiliWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the platform account uploads go to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			name, err := client.BiliIdentity(cmd.Context())
			if err != nil {
				return err
			}
			if name == api.NotLoggedIn {
				notify.Default().Info("Not logged in. Run `capctl bili login`.")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

// runLogin opens a login session, saves its QR image and blocks until the
// session closes. The outcome is notified as success or error.
func runLogin(cmd *cobra.Command, svc login.Service, qrOut string) error {
	ctx := cmd.Context()
	if qrOut == "" {
		qrOut = filepath.Join(config.HomeDir(), "login-qr.png")
	}

	session := login.NewSession(svc, login.Options{
		PollInterval: loginTimings.poll,
		CloseDelay:   loginTimings.close,
		OnChange: func(s login.State) {
			if s.Terminal() {
				reportLoginState(s)
			}
		},
		Logger: logging.WithComponentFromContext(ctx, "cli"),
	})
	if err := session.Open(ctx); err != nil {
		return err
	}
	defer session.Close()

	path, err := login.WriteQR(session.QR(), qrOut)
	if err != nil {
		return err
	}
	notify.Default().Info(fmt.Sprintf("Scan the QR code saved at %s with the platform app", path))

	state, err := session.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			notify.Default().Info("Login cancelled")
			return nil
		}
		return err
	}
	if state != login.LoggedIn {
		return notify.MarkReported(fmt.Errorf("%w: %s", ErrLoginFailed, state))
	}
	return nil
}

func reportLoginState(s login.State) {
	if s == login.LoggedIn {
		notify.Default().Success(s.String())
		return
	}
	notify.Default().Error(s.String())
}
