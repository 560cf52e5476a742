package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rmlive/capctl/internal/logging"
)

// ProjectOverlayPath returns ./.capctl/config.yaml relative to dir.
func ProjectOverlayPath(dir string) string {
	return filepath.Join(dir, dirName, configFileName)
}

// LoadWithOverlay loads the global config, then shallow-merges the overlay at
// overlayPath when it exists, then applies environment overrides. A broken
// overlay is logged and ignored.
func LoadWithOverlay(ctx context.Context, overlayPath string) (*Config, error) {
	cfg := New()
	if err := cfg.loadFile(cfg.configPath); err != nil {
		return nil, err
	}

	if overlayPath != "" {
		if _, statErr := os.Stat(overlayPath); statErr == nil {
			if err := MergeProjectFile(cfg, overlayPath); err != nil {
				logger := logging.FromContext(ctx)
				logger.Warn().
					Str("component", "config").
					Str("operation", "merge_project_config").
					Err(err).
					Str("overlay_path", overlayPath).
					Msg("failed to merge project config, using global settings")
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}
