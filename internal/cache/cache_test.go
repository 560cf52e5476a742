package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmlive/capctl/internal/api"
)

func TestEntry(t *testing.T) {
	e := NewEntry("k", json.RawMessage(`{"a":1}`), time.Minute)
	assert.False(t, e.Expired())
	assert.Equal(t, 60, e.TTLSeconds)
	assert.Greater(t, e.Remaining(), 59*time.Second)
	assert.LessOrEqual(t, e.Age(), time.Second)

	e.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, e.Expired())
	assert.Zero(t, e.Remaining())
}

func TestEntry_JSON(t *testing.T) {
	e := NewEntry("k", json.RawMessage(`{"a":1}`), time.Minute)
	encoded, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), e.CreatedAt.Format(time.RFC3339))

	var decoded Entry
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, e.Key, decoded.Key)
	assert.JSONEq(t, `{"a":1}`, string(decoded.Data))
	assert.Equal(t, e.ExpiresAt.Unix(), decoded.ExpiresAt.Unix())

	assert.Error(t, json.Unmarshal([]byte(`{"created_at":"yesterday"}`), &decoded))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s, err := NewFileStore(dir, true, time.Minute)
	require.NoError(t, err)
	assert.True(t, s.Enabled())
	assert.Equal(t, dir, s.Dir())
	assert.Equal(t, time.Minute, s.TTL())

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("a/b:c", json.RawMessage(`[1,2]`)))
	e, err := s.Get("a/b:c")
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(e.Data))
	assert.FileExists(t, filepath.Join(dir, "a_b_c.json"))

	require.NoError(t, s.Delete("a/b:c"))
	require.NoError(t, s.Delete("a/b:c"))
	_, err = s.Get("a/b:c")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Set("", nil), ErrInvalidKey)
}

func TestFileStore_Expired(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, true, -time.Second)
	require.NoError(t, err)

	require.NoError(t, s.Set("old", json.RawMessage(`1`)))
	_, err = s.Get("old")
	assert.ErrorIs(t, err, ErrExpired)
	assert.NoFileExists(t, filepath.Join(dir, "old.json"))
}

func TestFileStore_Clear(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, true, time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.Set("a", json.RawMessage(`1`)))
	require.NoError(t, s.Set("b", json.RawMessage(`2`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o600))

	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(dir, "keep.txt"))
}

func TestFileStore_Disabled(t *testing.T) {
	s, err := NewFileStore("", false, time.Minute)
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = s.Get("k")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, s.Set("k", nil), ErrDisabled)
	_, err = s.Clear()
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = NewFileStore("", true, time.Minute)
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), true, time.Minute)
	require.NoError(t, err)

	calls := 0
	fetch := func(context.Context) (api.LiveInfo, error) {
		calls++
		return api.LiveInfo{Live: true, Streams: map[string]map[string]string{
			"第一视角": {"1080p": "u1"},
			"主视角":  {"720p": "u2"},
		}}, nil
	}
	c := NewCatalog(s, fetch, zerolog.Nop())
	ctx := context.Background()

	roles, err := c.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"主视角", "第一视角"}, roles)

	info, err := c.Live(ctx)
	require.NoError(t, err)
	assert.True(t, info.HasQuality("第一视角", "1080p"))
	assert.Equal(t, 1, calls, "second read is served from disk")

	require.NoError(t, c.Invalidate())
	_, err = c.Live(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, err = c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestCatalog_DisabledStoreAlwaysFetches(t *testing.T) {
	calls := 0
	c := NewCatalog(nil, func(context.Context) (api.LiveInfo, error) {
		calls++
		return api.LiveInfo{}, nil
	}, zerolog.Nop())

	for range 3 {
		_, err := c.Live(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	assert.NoError(t, c.Invalidate())
}

func TestCatalog_FetchError(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), true, time.Minute)
	require.NoError(t, err)
	boom := errors.New("offline")
	c := NewCatalog(s, func(context.Context) (api.LiveInfo, error) { return api.LiveInfo{}, boom }, zerolog.Nop())

	_, err = c.Roles(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = s.Get(liveKey)
	assert.ErrorIs(t, err, ErrNotFound)
}
