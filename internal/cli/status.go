package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/config"
	"github.com/rmlive/capctl/internal/schedule"
)

//nolint:gochecknoglobals // Immutable style definitions.
var (
	headlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	runningStyle  = cellStyle.Foreground(lipgloss.Color("33"))
	idleStyle     = cellStyle.Foreground(lipgloss.Color("160"))
)

func newStatusCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current round and downloader states",
		Example: `  capctl status
  capctl status --watch --interval 2s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			if !watch {
				return printStatus(cmd.Context(), cmd.OutOrStdout(), client)
			}
			if interval <= 0 {
				interval = config.GetGlobalConfig().UI.RefreshInterval
			}
			return watchStatus(cmd.Context(), cmd.OutOrStdout(), client, interval)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval for --watch (default ui.refresh_interval)")
	return cmd
}

func printStatus(ctx context.Context, w io.Writer, src api.StatusSource) error {
	manager, live, err := api.LoadStatus(ctx, src)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, headlineStyle.Render(api.Headline(manager, live)))
	_, _ = fmt.Fprintln(w, renderDownloaders(manager.Downloaders))
	return nil
}

// watchStatus prints the status now and every interval until ctx ends.
// Failed refreshes are already reported by the client and do not stop it.
func watchStatus(ctx context.Context, w io.Writer, src api.StatusSource, interval time.Duration) error {
	refresh := func(ctx context.Context) {
		if err := printStatus(ctx, w, src); err != nil {
			logger.Debug().Err(err).Msg("status refresh failed")
			return
		}
		_, _ = fmt.Fprintf(w, "Updated %s\n\n", time.Now().Format(time.TimeOnly))
	}

	refresh(ctx)
	task := schedule.Every(ctx, interval, refresh)
	defer task.Stop()
	<-ctx.Done()
	return nil
}

func renderDownloaders(downloaders []api.Downloader) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DOWNLOADER", "STATUS", "ERRORS").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 && downloaders[row].Status:
				return runningStyle
			case col == 1:
				return idleStyle
			default:
				return cellStyle
			}
		})
	for _, d := range downloaders {
		t.Row(d.Name, d.StatusText(), strconv.Itoa(d.ErrorCount))
	}
	return t.Render()
}
