package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNilConfig is returned when merging into a nil Config.
var ErrNilConfig = errors.New("nil config")

// MergeProjectFile reads the project file at path and replaces each section
// of cfg (server, ui, logging, cache) that the file sets. Unknown keys are
// ignored. On error cfg is left as it was.
func MergeProjectFile(cfg *Config, path string) error {
	if cfg == nil {
		return ErrNilConfig
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading project config: %w", err)
	}

	var doc map[string]yaml.Node
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing project config %s: %w", path, err)
	}

	merged := *cfg
	sections := map[string]func(*yaml.Node) error{
		"server":  func(n *yaml.Node) error { return replaceSection(&merged.Server, n) },
		"ui":      func(n *yaml.Node) error { return replaceSection(&merged.UI, n) },
		"logging": func(n *yaml.Node) error { return replaceSection(&merged.Logging, n) },
		"cache":   func(n *yaml.Node) error { return replaceSection(&merged.Cache, n) },
	}
	for key, node := range doc {
		apply, ok := sections[key]
		if !ok {
			continue
		}
		if err = apply(&node); err != nil {
			return fmt.Errorf("project config section %q: %w", key, err)
		}
	}

	*cfg = merged
	return nil
}

// replaceSection decodes node into a fresh T so fields the file omits fall
// back to zero values rather than keeping the global setting.
func replaceSection[T any](dst *T, node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
