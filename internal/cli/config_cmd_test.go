package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmlive/capctl/internal/config"
)

func TestConfigInit(t *testing.T) {
	home := setupCLI(t, nil)
	path := filepath.Join(home, "config.yaml")

	res := execute(t, "", "config", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Configuration initialized at "+path)
	assert.FileExists(t, path)

	require.ErrorIs(t, execute(t, "", "config", "init").err, ErrConfigExists)
	require.NoError(t, execute(t, "", "config", "init", "--force").err)
}

func TestConfigInit_Project(t *testing.T) {
	home := setupCLI(t, nil)
	dir := t.TempDir()
	t.Chdir(dir)

	res := execute(t, "", "config", "init", "--project")
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(dir, ".capctl", "config.yaml"))
	assert.NoFileExists(t, filepath.Join(home, "config.yaml"))
}

func TestConfigShow(t *testing.T) {
	setupCLI(t, nil)
	t.Setenv(config.EnvPassword, "secret")

	res := execute(t, "", "config", "show")
	require.NoError(t, res.err)
	for _, key := range config.Keys() {
		assert.Contains(t, res.stdout, key)
	}
	assert.Contains(t, res.stdout, "********")
	assert.NotContains(t, res.stdout, "secret")

	res = execute(t, "", "config", "show", "ui.page_size")
	require.NoError(t, res.err)
	assert.Equal(t, "15\n", res.stdout)

	require.ErrorIs(t, execute(t, "", "config", "show", "ui.colour").err, config.ErrUnknownKey)
}

func TestConfigShow_FlagOverrides(t *testing.T) {
	setupCLI(t, nil)

	res := execute(t, "", "--server", "http://10.0.0.9:10398", "config", "show", "server.url")
	require.NoError(t, res.err)
	assert.Equal(t, "http://10.0.0.9:10398\n", res.stdout)
}

func TestConfigSet(t *testing.T) {
	home := setupCLI(t, nil)
	t.Setenv(config.EnvServerURL, "http://env-only:1")

	res := execute(t, "", "config", "set", "ui.page_size", "30")
	require.NoError(t, res.err)

	cfg, err := config.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.UI.PageSize)
	assert.Equal(t, config.DefaultServerURL, cfg.Server.URL)

	require.ErrorIs(t, execute(t, "", "config", "set", "nope", "1").err, config.ErrUnknownKey)
	require.Error(t, execute(t, "", "config", "set", "ui.page_size", "many").err)
}

func TestConfigSet_Project(t *testing.T) {
	setupCLI(t, nil)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, execute(t, "", "config", "set", "--project", "cache.enabled", "false").err)
	data, err := os.ReadFile(filepath.Join(dir, ".capctl", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "enabled: false")

	res := execute(t, "", "config", "show", "cache.enabled")
	require.NoError(t, res.err)
	assert.Equal(t, "false\n", res.stdout)
}

func TestInvalidConfigRejected(t *testing.T) {
	setupCLI(t, nil)

	res := execute(t, "", "--server", "ftp://nowhere", "status")
	require.ErrorIs(t, res.err, config.ErrInvalidServerURL)
}
