package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/config"
)

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [key]",
		Short: "Show the effective configuration",
		Long: "Prints every key of the effective configuration (file, project overlay, " +
			"environment and flags applied), or a single key. The password is masked.",
		Example: `  capctl config show
  capctl config show server.url`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()
			keys := config.Keys()
			if len(args) == 1 {
				keys = args
			}
			for _, key := range keys {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", key, value)
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var project bool
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  capctl config set server.url http://192.168.1.20:10398
  capctl config set ui.page_size 30
  capctl config set --project cache.enabled false`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			cfg, err := config.ReadFile(path)
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Set %s in %s\n", args[0], path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&project, "project", false, "write ./.capctl/config.yaml instead of the global file")
	return cmd
}
