package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/cli/pagination"
	"github.com/rmlive/capctl/internal/config"
	"github.com/rmlive/capctl/internal/engine/batch"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/internal/playlist"
	"github.com/rmlive/capctl/internal/prompt"
)

// videoFlags are the listing filters shared by the video commands.
type videoFlags struct {
	red      string
	blue     string
	role     string
	title    string
	page     int
	pageSize int
	sort     string
}

// addVideoFlags registers the filters; titleFlag names the title filter,
// which upload renames because --title is its upload title.
func addVideoFlags(cmd *cobra.Command, f *videoFlags, titleFlag string) {
	cmd.Flags().StringVar(&f.red, "red", "", "filter by red team")
	cmd.Flags().StringVar(&f.blue, "blue", "", "filter by blue team")
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "filter by role")
	cmd.Flags().StringVar(&f.title, titleFlag, "", "filter by title")
	cmd.Flags().IntVar(&f.page, "page", pagination.DefaultPage, "page number (1-based)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "videos per page (default ui.page_size)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort the page by field[:asc|desc] (title, red, blue, role, round, file)")
	_ = cmd.RegisterFlagCompletionFunc("role", completeRoles)
}

func (f videoFlags) params() pagination.Params {
	size := f.pageSize
	if size <= 0 {
		size = config.GetGlobalConfig().UI.PageSize
	}
	return pagination.Params{Page: f.page, PageSize: size}
}

// listVideos fetches the page selected by f and sorts it.
func listVideos(ctx context.Context, client *api.Client, f videoFlags) ([]api.Video, pagination.Meta, error) {
	params := f.params()
	if err := params.Validate(); err != nil {
		return nil, pagination.Meta{}, err
	}
	field, order, err := pagination.ParseSort(f.sort)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	filter := params.Apply(api.VideoFilter{Red: f.red, Blue: f.blue, Role: f.role, Title: f.title})
	page, err := client.ListVideos(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	videos, err := pagination.SortVideos(page.Data, field, order)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return videos, pagination.NewMeta(params, page.Total), nil
}

// selectVideos narrows the listing to the named files. Names that are not
// on the listed page are still selected by file name.
func selectVideos(listed []api.Video, names []string) []api.Video {
	if len(names) == 0 {
		return listed
	}
	byName := make(map[string]api.Video, len(listed))
	for _, v := range listed {
		byName[v.FileName] = v
	}
	selected := make([]api.Video, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		v, ok := byName[name]
		if !ok {
			logger.Debug().Str("file", name).Msg("selected video not on listed page")
			v = api.Video{FileName: name}
		}
		selected = append(selected, v)
	}
	return selected
}

// resolveSelection lists videos per f and narrows them to args.
func resolveSelection(cmd *cobra.Command, client *api.Client, f videoFlags, args []string) ([]api.Video, error) {
	listed, _, err := listVideos(cmd.Context(), client, f)
	if err != nil {
		return nil, err
	}
	return selectVideos(listed, args), nil
}

func newVideoListCmd() *cobra.Command {
	var f videoFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded videos",
		Example: `  capctl video list
  capctl video list --red 上海交通大学 --page 2
  capctl video list --role 主视角 --sort round:desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			videos, meta, err := listVideos(cmd.Context(), client, f)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderVideos(videos))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), meta.Footer())
			return nil
		},
	}
	addVideoFlags(cmd, &f, "title")
	return cmd
}

func renderVideos(videos []api.Video) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TITLE", "RED", "BLUE", "ROLE", "ROUND", "FILE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, v := range videos {
		t.Row(v.Title, v.Red, v.Blue, v.Role, strconv.Itoa(v.Round), v.FileName)
	}
	return t.Render()
}

func newVideoConvertCmd() *cobra.Command {
	return newVideoBatchCmd("convert", "Convert videos to MP4 on the server", "Converting", batch.ConvertAction, false)
}

func newVideoDeleteCmd() *cobra.Command {
	return newVideoBatchCmd("delete", "Delete videos on the server", "Deleting", batch.DeleteAction, true)
}

// newVideoBatchCmd builds a command that runs action over the selection.
// With confirm set the operator must accept the selection (or pass --yes).
func newVideoBatchCmd(
	name, short, description string,
	action func(batch.VideoService) batch.Action[api.Video],
	confirm bool,
) *cobra.Command {
	var (
		f   videoFlags
		yes bool
	)
	cmd := &cobra.Command{
		Use:   name + " [files...]",
		Short: short,
		Long: short + ". Without file names every video on the listed page " +
			"(after filters) is selected.",
		Example: fmt.Sprintf(`  capctl video %[1]s 1_1_1_1.m3u8
  capctl video %[1]s --role 主视角 --page 2`, name),
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
			if confirm && !yes {
				question := fmt.Sprintf("%s %d video(s)?", short, len(videos))
				if answer := prompt.Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), question); !answer.Accepted {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			runner := newVideoRunner(cmd, description, len(videos), nil)
			summary, err := runner.Run(cmd.Context(), videos, action(client), batch.DefaultCompletionMessage)
			if err != nil {
				return err
			}
			logger.Debug().Str("action", name).Msg(summaryLine(summary))
			return nil
		},
	}
	addVideoFlags(cmd, &f, "title")
	if confirm {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	}
	return cmd
}

func newVideoPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "play <file>",
		Short:   "Print the playable URL of a recording",
		Example: `  mpv "$(capctl video play 1_1_1_1.m3u8)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), client.FileURL(args[0]))
			return nil
		},
	}
}

func newVideoPlaylistCmd() *cobra.Command {
	var (
		f      videoFlags
		format string
		output string
		copyIt bool
	)
	cmd := &cobra.Command{
		Use:   "playlist [files...]",
		Short: "Print a play list of recordings",
		Example: `  capctl video playlist --role 主视角
  capctl video playlist --format m3u -o round.m3u
  capctl video playlist 1_1_1_1.m3u8 1_1_1_2.m3u8 --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			videos, err := resolveSelection(cmd, client, f, args)
			if err != nil {
				return err
			}
			text, err := playlist.Render(format, client.BaseURL(), videos)
			if err != nil {
				return err
			}
			if output != "" {
				if err = renameio.WriteFile(output, []byte(text), 0o644); err != nil { //nolint:mnd // Play lists are shareable.
					return fmt.Errorf("writing play list: %w", err)
				}
				notify.Default().Success("Play list written to " + output)
				return nil
			}
			return emitPlaylist(cmd.OutOrStdout(), text, copyIt)
		},
	}
	addVideoFlags(cmd, &f, "title")
	cmd.Flags().StringVarP(&format, "format", "f", playlist.FormatText, "play list format: text or m3u")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the play list to a file instead of printing it")
	cmd.Flags().BoolVarP(&copyIt, "copy", "c", false, "copy the play list to the clipboard instead of printing it")
	cmd.MarkFlagsMutuallyExclusive("output", "copy")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{playlist.FormatText, playlist.FormatM3U}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func emitPlaylist(w io.Writer, text string, copyIt bool) error {
	if !copyIt {
		_, err := io.WriteString(w, text)
		return err
	}
	msg, ok := playlist.Copy(text)
	if !ok {
		notify.Default().Error(msg)
		return notify.MarkReported(errors.New(msg))
	}
	notify.Default().Success(msg)
	return nil
}
