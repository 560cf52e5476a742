// Package config loads and saves the capctl configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognised by capctl.
const (
	EnvHome      = "CAPCTL_HOME"
	EnvServerURL = "CAPCTL_SERVER_URL"
	EnvUsername  = "CAPCTL_USERNAME"
	EnvPassword  = "CAPCTL_PASSWORD"
	EnvLogLevel  = "CAPCTL_LOG_LEVEL"
	EnvLogFormat = "CAPCTL_LOG_FORMAT"
)

// Defaults for a fresh configuration.
const (
	DefaultServerURL       = "http://127.0.0.1:10398"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultRefreshInterval = 5 * time.Second
	DefaultPageSize        = 15
	DefaultCacheTTLSeconds = 60

	configFileName = "config.yaml"
	dirName        = ".capctl"
)

// ErrInvalidServerURL is returned by Validate for a malformed server URL.
var ErrInvalidServerURL = errors.New("server url must be an absolute http(s) URL")

// ServerConfig describes how to reach the capture server.
type ServerConfig struct {
	URL      string        `yaml:"url"`
	Username string        `yaml:"username,omitempty"`
	Password string        `yaml:"password,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
}

// UIConfig holds console presentation settings.
type UIConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	PageSize        int           `yaml:"page_size"`
	// ActionRate limits batch actions per second; 0 disables pacing.
	ActionRate float64 `yaml:"action_rate"`
}

// CacheConfig controls the on-disk live catalog cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// Config is the full capctl configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`

	configPath string
}

// HomeDir returns the capctl home directory ($CAPCTL_HOME or ~/.capctl).
func HomeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(userHome, dirName)
}

// New returns a Config with defaults, pointing at the global config path.
func New() *Config {
	home := HomeDir()
	return &Config{
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: DefaultRequestTimeout,
		},
		UI: UIConfig{
			RefreshInterval: DefaultRefreshInterval,
			PageSize:        DefaultPageSize,
		},
		Logging: LoggingConfig{
			Level:  "error",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Directory:  filepath.Join(home, "cache"),
			TTLSeconds: DefaultCacheTTLSeconds,
		},
		configPath: filepath.Join(home, configFileName),
	}
}

// Load reads the global config file on top of the defaults. A missing file
// is not an error.
func Load() (*Config, error) {
	cfg := New()
	if err := cfg.loadFile(cfg.configPath); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads path on top of the defaults and applies environment
// overrides. The returned config saves back to path.
func LoadFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// ReadFile reads path on top of the defaults without environment overrides,
// so saving it back persists only what the file holds.
func ReadFile(path string) (*Config, error) {
	cfg := New()
	cfg.SetConfigPath(path)
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		c.Server.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Server.Password = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks fields that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidServerURL, c.Server.URL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server timeout must be >= 0, got %s", c.Server.Timeout)
	}
	if c.UI.RefreshInterval < 0 {
		return fmt.Errorf("ui refresh_interval must be >= 0, got %s", c.UI.RefreshInterval)
	}
	if c.UI.ActionRate < 0 {
		return fmt.Errorf("ui action_rate must be >= 0, got %v", c.UI.ActionRate)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache ttl_seconds must be >= 0, got %d", c.Cache.TTLSeconds)
	}
	return nil
}

// ConfigPath returns the file this config is saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file this config is saved to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	return os.WriteFile(c.configPath, data, 0o600)
}

var (
	globalConfig   *Config    //nolint:gochecknoglobals // Loaded once per CLI invocation
	globalConfigMu sync.Mutex //nolint:gochecknoglobals // Guards globalConfig
)

// GetGlobalConfig returns the process configuration, loading it on first use.
// Load errors fall back to defaults.
func GetGlobalConfig() *Config {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = New()
			cfg.applyEnv()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobalConfig replaces the process configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalConfigForTest forgets the loaded configuration.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}
