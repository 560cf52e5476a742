package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/internal/prompt"
)

// Stream validation errors.
var (
	ErrRoleRequired       = errors.New("--role is required")
	ErrUnknownRole        = errors.New("role is not in the live stream list")
	ErrQualityUnavailable = errors.New("Quality not available") //nolint:revive,stylecheck // Operator-facing text.
)

type streamFlags struct {
	role    string
	quality string
}

func newStreamAddCmd() *cobra.Command {
	var f streamFlags
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Start capturing a role",
		Example: `  capctl stream add --role 主视角 --quality 1080p`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStreamChange(cmd, f, func(ctx context.Context, c *api.Client, req api.StreamRequest) (api.ManagerInfo, error) {
				return c.AddStream(ctx, req)
			})
		},
	}
	addStreamFlags(cmd, &f)
	return cmd
}

func newStreamEditCmd() *cobra.Command {
	var f streamFlags
	cmd := &cobra.Command{
		Use:     "edit",
		Short:   "Change the quality captured for a role",
		Example: `  capctl stream edit --role 主视角 --quality 720p`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStreamChange(cmd, f, func(ctx context.Context, c *api.Client, req api.StreamRequest) (api.ManagerInfo, error) {
				return c.UpdateStream(ctx, req)
			})
		},
	}
	addStreamFlags(cmd, &f)
	return cmd
}

func newStreamDeleteCmd() *cobra.Command {
	var (
		role string
		yes  bool
	)
	cmd := &cobra.Command{
		Use:     "delete",
		Short:   "Stop capturing a role",
		Example: `  capctl stream delete --role 主视角 --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role == "" {
				return ErrRoleRequired
			}
			if !yes {
				answer := prompt.Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), fmt.Sprintf("Delete downloader %s?", role))
				if !answer.Accepted {
					cmd.Println("Cancelled")
					return nil
				}
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			manager, err := client.DeleteStream(cmd.Context(), role)
			if err != nil {
				return err
			}
			notify.Default().Success(fmt.Sprintf("Downloader %s deleted", role))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderDownloaders(manager.Downloaders))
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "role to stop capturing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	_ = cmd.RegisterFlagCompletionFunc("role", completeRoles)
	return cmd
}

func addStreamFlags(cmd *cobra.Command, f *streamFlags) {
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "role (camera view) from the live stream list")
	cmd.Flags().StringVarP(&f.quality, "quality", "q", api.Quality1080p, "stream quality: 1080p, 720p or 540p")
	_ = cmd.RegisterFlagCompletionFunc("role", completeRoles)
	_ = cmd.RegisterFlagCompletionFunc("quality", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return api.Qualities(), cobra.ShellCompDirectiveNoFileComp
	})
}

type streamCall func(ctx context.Context, c *api.Client, req api.StreamRequest) (api.ManagerInfo, error)

func runStreamChange(cmd *cobra.Command, f streamFlags, call streamCall) error {
	if f.role == "" {
		return ErrRoleRequired
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	catalog := newCatalog(cmd, client)

	live, err := catalog.Live(cmd.Context())
	if err != nil {
		return err
	}
	if err = validateStream(live, f.role, f.quality); err != nil {
		// The cached catalog may be stale; check once more against the server.
		if live, err = catalog.Refresh(cmd.Context()); err != nil {
			return err
		}
		if err = validateStream(live, f.role, f.quality); err != nil {
			return err
		}
	}

	manager, err := call(cmd.Context(), client, api.StreamRequest{Role: f.role, Quality: f.quality})
	if err != nil {
		return err
	}
	notify.Default().Success(fmt.Sprintf("Capturing %s at %s", f.role, f.quality))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderDownloaders(manager.Downloaders))
	return nil
}

// validateStream checks role and quality against the live catalog.
func validateStream(live api.LiveInfo, role, quality string) error {
	if !slices.Contains(api.Qualities(), quality) {
		return fmt.Errorf("%w: %s", ErrQualityUnavailable, quality)
	}
	if _, ok := live.Streams[role]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	if !live.HasQuality(role, quality) {
		return ErrQualityUnavailable
	}
	return nil
}

// completeRoles completes --role from the cached live catalog.
func completeRoles(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	roles, err := newCatalog(cmd, client).Roles(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return roles, cobra.ShellCompDirectiveNoFileComp
}
