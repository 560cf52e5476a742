// Package cli implements the capctl command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rmlive/capctl/internal/config"
	"github.com/rmlive/capctl/internal/logging"
	"github.com/rmlive/capctl/internal/notify"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type rootFlags struct {
	server     string
	user       string
	password   string
	configPath string
	debug      bool
}

// NewRootCmd creates the root Cobra command for capctl. It loads the
// configuration, wires logging and the notification sink, and registers
// the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult *logging.LogPathResult
		flags     rootFlags
	)

	cmd := &cobra.Command{
		Use:           "capctl",
		Short:         "Console for the match stream capture server",
		Long:          "capctl: monitor the capture manager, manage live stream downloaders and recorded videos",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, flags); err != nil {
				return err
			}
			result := setupLogging(cmd, flags.debug)
			logResult = &result
			notify.Init(notify.NewConsoleSink(cmd.ErrOrStderr(), logging.ComponentLogger(result.Logger, "notify")))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.server, "server", "", "capture server URL (overrides config and "+config.EnvServerURL+")")
	pf.StringVar(&flags.user, "user", "", "HTTP basic auth user name")
	pf.StringVar(&flags.password, "password", "", "HTTP basic auth password")
	pf.StringVar(&flags.configPath, "config", "", "config file (default $CAPCTL_HOME/config.yaml)")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newStatusCmd(), newStreamCmd(), newVideoCmd(), newBiliCmd(),
		newConfigCmd(), newCacheCmd(), newTUICmd(),
	)
	return cmd
}

const rootCmdExample = `  # Show the current round and downloaders
  capctl status

  # Keep the status on screen, refreshing every 5 seconds
  capctl status --watch

  # Capture a role at 1080p
  capctl stream add --role 主视角 --quality 1080p

  # List recorded videos of one role
  capctl video list --role 主视角

  # Convert and upload two recordings
  capctl video upload 1_1_1_1.m3u8 1_1_1_2.m3u8 --title "Final Round 1"

  # Open the interactive console
  capctl tui`

// loadConfig resolves the configuration (file, project overlay, env, flags)
// and installs it as the global config.
func loadConfig(cmd *cobra.Command, flags rootFlags) error {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		overlay := ""
		if wd, wdErr := os.Getwd(); wdErr == nil {
			overlay = config.ProjectOverlayPath(wd)
		}
		cfg, err = config.LoadWithOverlay(cmd.Context(), overlay)
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if flags.server != "" {
		cfg.Server.URL = flags.server
	}
	if flags.user != "" {
		cfg.Server.Username = flags.user
	}
	if flags.password != "" {
		cfg.Server.Password = flags.password
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	config.SetGlobalConfig(cfg)
	return nil
}

// newStreamCmd creates the stream command group.
func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "stream", Short: "Manage live stream downloaders"}
	cmd.AddCommand(newStreamAddCmd(), newStreamEditCmd(), newStreamDeleteCmd())
	return cmd
}

// newVideoCmd creates the video command group.
func newVideoCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "video", Short: "Browse and process recorded videos"}
	cmd.AddCommand(
		newVideoListCmd(), newVideoConvertCmd(), newVideoDeleteCmd(),
		newVideoDownloadCmd(), newVideoPlayCmd(), newVideoPlaylistCmd(),
		newVideoUploadCmd(),
	)
	return cmd
}

// newBiliCmd creates the platform account command group.
func newBiliCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "bili", Short: "Video platform account commands"}
	cmd.AddCommand(newBiliLoginCmd(), newBiliWhoamiCmd())
	return cmd
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), newConfigShowCmd(), newConfigSetCmd())
	return cmd
}
