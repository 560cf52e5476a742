package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rmlive/capctl/internal/cache"
	"github.com/rmlive/capctl/internal/config"
)

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Manage the local live catalog cache"}
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := cache.NewFileStore(cfg.Cache.Directory, true,
				time.Duration(cfg.Cache.TTLSeconds)*time.Second)
			if err != nil {
				return err
			}
			removed, err := store.Clear()
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d cached entries from %s\n", removed, store.Dir())
			return nil
		},
	}
}
