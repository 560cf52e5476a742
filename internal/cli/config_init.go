package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/config"
)

// ErrConfigExists is returned by config init when the file exists and
// --force is not set.
var ErrConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// NewConfigInitCmd creates the config init command. By default it writes the
// global $CAPCTL_HOME/config.yaml; --project writes ./.capctl/config.yaml,
// which is merged over the global file when capctl runs in this directory.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

With --project the file is created at ./.capctl/config.yaml. Its sections
replace the matching sections of the global configuration whenever capctl
runs in this directory.`,
		Example: `  # Create the global configuration
  capctl config init

  # Create a project overlay in the current directory
  capctl config init --project

  # Create configuration, overwriting existing
  capctl config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			return initConfig(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create ./.capctl/config.yaml instead of the global file")

	return cmd
}

// configTarget resolves the file config init and config set write to.
func configTarget(project bool) (string, error) {
	if !project {
		return config.New().ConfigPath(), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return config.ProjectOverlayPath(wd), nil
}

func initConfig(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return ErrConfigExists
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg := config.New()
	cfg.SetConfigPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}
