package cli

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmlive/capctl/internal/api"
)

// managerQuery returns the query of the first call to path.
func managerQuery(t *testing.T, srv *fakeServer, path string) url.Values {
	t.Helper()
	for _, call := range srv.Calls() {
		if raw, ok := strings.CutPrefix(call, path+"?"); ok {
			q, err := url.ParseQuery(raw)
			require.NoError(t, err)
			return q
		}
	}
	t.Fatalf("no call to %s in %v", path, srv.Calls())
	return nil
}

func countCalls(srv *fakeServer, prefix string) int {
	n := 0
	for _, call := range srv.Calls() {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func TestStreamAdd(t *testing.T) {
	srv := newFakeServer()
	setupCLI(t, srv)

	res := execute(t, "", "stream", "add", "--role", "主视角", "--quality", "720p")
	require.NoError(t, res.err)

	q := managerQuery(t, srv, "/api/manager/add")
	assert.Equal(t, "主视角", q.Get("role"))
	assert.Equal(t, "720p", q.Get("quality"))
	assert.Contains(t, res.stderr, "Capturing 主视角 at 720p")
	assert.Contains(t, res.stdout, "红方英雄")
}

func TestStreamEdit(t *testing.T) {
	srv := newFakeServer()
	setupCLI(t, srv)

	res := execute(t, "", "stream", "edit", "-r", "红方英雄", "-q", "720p")
	require.NoError(t, res.err)
	assert.Equal(t, "红方英雄", managerQuery(t, srv, "/api/manager/update").Get("role"))
}

func TestStreamAdd_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing role", []string{"--quality", "720p"}, ErrRoleRequired},
		{"unknown role", []string{"--role", "裁判", "--quality", "720p"}, ErrUnknownRole},
		{"quality not offered by role", []string{"--role", "红方英雄", "--quality", "1080p"}, ErrQualityUnavailable},
		{"unknown quality", []string{"--role", "主视角", "--quality", "4k"}, ErrQualityUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer()
			setupCLI(t, srv)

			res := execute(t, "", append([]string{"stream", "add"}, tt.args...)...)
			require.ErrorIs(t, res.err, tt.wantErr)
			assert.Zero(t, countCalls(srv, "/api/manager/add"))
		})
	}
}

func TestStreamAdd_StaleCatalogIsRefreshed(t *testing.T) {
	srv := newFakeServer()
	setupCLI(t, srv)

	require.NoError(t, execute(t, "", "stream", "add", "--role", "主视角").err)
	assert.Equal(t, 1, countCalls(srv, "/api/manager/live"))

	srv.mu.Lock()
	srv.live.Streams["蓝方英雄"] = map[string]string{"540p": "u4"}
	srv.mu.Unlock()

	require.NoError(t, execute(t, "", "stream", "add", "--role", "蓝方英雄", "--quality", "540p").err)
	assert.Equal(t, 2, countCalls(srv, "/api/manager/live"))
}

func TestStreamAdd_UsesCachedCatalog(t *testing.T) {
	srv := newFakeServer()
	setupCLI(t, srv)

	require.NoError(t, execute(t, "", "stream", "add", "--role", "主视角").err)
	require.NoError(t, execute(t, "", "stream", "edit", "--role", "主视角", "--quality", "720p").err)
	assert.Equal(t, 1, countCalls(srv, "/api/manager/live"))
}

func TestStreamDelete(t *testing.T) {
	t.Run("confirmed with --yes", func(t *testing.T) {
		srv := newFakeServer()
		setupCLI(t, srv)

		res := execute(t, "", "stream", "delete", "--role", "主视角", "--yes")
		require.NoError(t, res.err)
		assert.Equal(t, "主视角", managerQuery(t, srv, "/api/manager/delete").Get("role"))
		assert.Contains(t, res.stderr, "Downloader 主视角 deleted")
	})

	t.Run("declined without a terminal", func(t *testing.T) {
		srv := newFakeServer()
		setupCLI(t, srv)

		res := execute(t, "y\n", "stream", "delete", "--role", "主视角")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "Cancelled")
		assert.Zero(t, countCalls(srv, "/api/manager/delete"))
	})

	t.Run("missing role", func(t *testing.T) {
		setupCLI(t, newFakeServer())
		require.ErrorIs(t, execute(t, "", "stream", "delete", "--yes").err, ErrRoleRequired)
	})
}

func TestValidateStream(t *testing.T) {
	live := api.LiveInfo{Streams: map[string]map[string]string{"主视角": {"1080p": "u"}}}

	require.NoError(t, validateStream(live, "主视角", "1080p"))
	require.ErrorIs(t, validateStream(live, "主视角", "720p"), ErrQualityUnavailable)
	require.ErrorIs(t, validateStream(live, "裁判", "1080p"), ErrUnknownRole)
	assert.Equal(t, "Quality not available", validateStream(live, "主视角", "540p").Error())
}
