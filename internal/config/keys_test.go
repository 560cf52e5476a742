package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmlive/capctl/internal/config"
)

func TestSetAndGet(t *testing.T) {
	setupHome(t)
	cfg := config.New()

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{key: "server.url", value: "http://10.0.0.2:10398/", want: "http://10.0.0.2:10398"},
		{key: "server.username", value: "admin", want: "admin"},
		{key: "server.password", value: "secret", want: "********"},
		{key: "server.timeout", value: "10s", want: "10s"},
		{key: "ui.refresh_interval", value: "2s", want: "2s"},
		{key: "ui.page_size", value: "30", want: "30"},
		{key: "ui.action_rate", value: "2.5", want: "2.5"},
		{key: "logging.level", value: "debug", want: "debug"},
		{key: "logging.format", value: "json", want: "json"},
		{key: "logging.file", value: "/tmp/capctl.log", want: "/tmp/capctl.log"},
		{key: "cache.enabled", value: "false", want: "false"},
		{key: "cache.directory", value: "/tmp/cache", want: "/tmp/cache"},
		{key: "CACHE.TTL_SECONDS", value: "120", want: "120"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.NoError(t, cfg.Set(tt.key, tt.value))
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "secret", cfg.Server.Password)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Len(t, config.Keys(), len(tests))
}

func TestSet_Errors(t *testing.T) {
	setupHome(t)
	cfg := config.New()

	assert.ErrorIs(t, cfg.Set("server.port", "1"), config.ErrUnknownKey)
	_, err := cfg.Get("nope")
	assert.ErrorIs(t, err, config.ErrUnknownKey)

	assert.Error(t, cfg.Set("ui.page_size", "0"))
	assert.Error(t, cfg.Set("ui.page_size", "many"))
	assert.Error(t, cfg.Set("server.timeout", "soon"))
	assert.Error(t, cfg.Set("cache.enabled", "maybe"))
	assert.ErrorIs(t, cfg.Set("server.url", "ftp://host"), config.ErrInvalidServerURL)
}

func TestGet_EmptyPassword(t *testing.T) {
	setupHome(t)
	got, err := config.New().Get("server.password")
	require.NoError(t, err)
	assert.Empty(t, got)
}
