package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/config"
	"github.com/rmlive/capctl/internal/logging"
	"github.com/rmlive/capctl/internal/login"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/internal/tui"
)

// ErrNotInteractive is returned by the tui command without a terminal.
var ErrNotInteractive = errors.New("the console needs an interactive terminal")

func newTUICmd() *cobra.Command {
	var f videoFlags
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive console",
		Long: `Opens a full-screen console with two tabs:

  Dashboard  current round and downloaders, refreshed every ui.refresh_interval
  Videos     recorded videos; space selects, a selects the page,
             c converts, d deletes, p copies the play list, u uploads
             (an upload without a platform login opens the QR login panel)

Action keys are disabled while a batch runs.`,
		Example: `  capctl tui
  capctl tui --role 主视角`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return ErrNotInteractive
			}
			return runTUI(cmd, api.VideoFilter{Red: f.red, Blue: f.blue, Role: f.role, Title: f.title})
		},
	}
	cmd.Flags().StringVar(&f.red, "red", "", "filter videos by red team")
	cmd.Flags().StringVar(&f.blue, "blue", "", "filter videos by blue team")
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "filter videos by role")
	cmd.Flags().StringVar(&f.title, "title", "", "filter videos by title")
	_ = cmd.RegisterFlagCompletionFunc("role", completeRoles)
	return cmd
}

// runTUI runs the console until the operator quits. Notifications raised
// while it runs go to its status area instead of stderr.
func runTUI(cmd *cobra.Command, filter api.VideoFilter) error {
	ctx := cmd.Context()
	log := logging.WithComponentFromContext(ctx, "cli")

	events := tui.NewEvents()
	defer events.Close()
	notifier := notify.New(events)

	client, err := newClientWithNotifier(cmd, notifier)
	if err != nil {
		return err
	}

	cfg := config.GetGlobalConfig()
	model := tui.NewModel(ctx, client, events, notifier, tui.Options{
		RefreshInterval: cfg.UI.RefreshInterval,
		PageSize:        cfg.UI.PageSize,
		Filter:          filter,
		Limiter:         actionLimiter(),
		QRPath:          filepath.Join(config.HomeDir(), "login-qr.png"),
		Login:           login.Options{PollInterval: loginTimings.poll, CloseDelay: loginTimings.close},
		Logger:          log,
	})

	log.Debug().Str("operation", "tui").Str("server", client.BaseURL()).Msg("starting console")
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
