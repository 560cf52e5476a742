package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownKey is returned by Get and Set for keys outside Keys().
var ErrUnknownKey = errors.New("unknown configuration key")

// Keys lists the settable configuration keys in display order.
func Keys() []string {
	return []string{
		"server.url", "server.username", "server.password", "server.timeout",
		"ui.refresh_interval", "ui.page_size", "ui.action_rate",
		"logging.level", "logging.format", "logging.file",
		"cache.enabled", "cache.directory", "cache.ttl_seconds",
	}
}

// Get returns the value of a dotted key as text. The password is masked.
func (c *Config) Get(key string) (string, error) {
	switch strings.ToLower(key) {
	case "server.url":
		return c.Server.URL, nil
	case "server.username":
		return c.Server.Username, nil
	case "server.password":
		if c.Server.Password == "" {
			return "", nil
		}
		return "********", nil
	case "server.timeout":
		return c.Server.Timeout.String(), nil
	case "ui.refresh_interval":
		return c.UI.RefreshInterval.String(), nil
	case "ui.page_size":
		return strconv.Itoa(c.UI.PageSize), nil
	case "ui.action_rate":
		return strconv.FormatFloat(c.UI.ActionRate, 'g', -1, 64), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "cache.enabled":
		return strconv.FormatBool(c.Cache.Enabled), nil
	case "cache.directory":
		return c.Cache.Directory, nil
	case "cache.ttl_seconds":
		return strconv.Itoa(c.Cache.TTLSeconds), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses value for a dotted key and validates the result.
//
//nolint:gocyclo // One case per key.
func (c *Config) Set(key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "server.url":
		c.Server.URL = strings.TrimRight(value, "/")
	case "server.username":
		c.Server.Username = value
	case "server.password":
		c.Server.Password = value
	case "server.timeout":
		c.Server.Timeout, err = time.ParseDuration(value)
	case "ui.refresh_interval":
		c.UI.RefreshInterval, err = time.ParseDuration(value)
	case "ui.page_size":
		c.UI.PageSize, err = strconv.Atoi(value)
		if err == nil && c.UI.PageSize < 1 {
			err = errors.New("must be >= 1")
		}
	case "ui.action_rate":
		c.UI.ActionRate, err = strconv.ParseFloat(value, 64)
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	case "cache.enabled":
		c.Cache.Enabled, err = strconv.ParseBool(value)
	case "cache.directory":
		c.Cache.Directory = value
	case "cache.ttl_seconds":
		c.Cache.TTLSeconds, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return c.Validate()
}
