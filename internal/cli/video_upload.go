package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/engine/upload"
	"github.com/rmlive/capctl/internal/logging"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/internal/prompt"
)

func newVideoUploadCmd() *cobra.Command {
	var (
		f     videoFlags
		title string
		qrOut string
	)
	cmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Convert recordings and upload them as one platform video",
		Long: "Checks the platform login, asks for a title (unless --title is set), " +
			"converts every selected recording and queues the upload on the server. " +
			"Without a login the QR login flow starts instead.",
		Example: `  capctl video upload 1_1_1_1.m3u8 1_1_1_2.m3u8 --title "Final Round 1"
  capctl video upload --red 上海交通大学 --page 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			videos, err := resolveSelection(cmd, client, f, args)
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				notify.Default().Info("No videos selected")
				return nil
			}

			titleFn := prompt.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout(), "Video Title").Prompt
			if title != "" {
				titleFn = func(context.Context, string) (string, error) { return title, nil }
			}
			loginFn := func(context.Context) error { return runLogin(cmd, client, qrOut) }

			runner := newVideoRunner(cmd, "Preprocessing", len(videos), nil)
			return upload.New(client, notify.Default(), runner, titleFn, loginFn).
				WithLogger(logging.WithComponentFromContext(cmd.Context(), "cli")).
				Run(cmd.Context(), videos)
		},
	}
	addVideoFlags(cmd, &f, "title-filter")
	cmd.Flags().StringVar(&title, "title", "", "upload title (prompted when empty)")
	cmd.Flags().StringVar(&qrOut, "qr-out", "", "where to save the login QR image if a login is needed")
	return cmd
}
