package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/notify"
)

func TestStatus_Living(t *testing.T) {
	setupCLI(t, newFakeServer())

	res := execute(t, "", "status")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Living  NUAA vs SJTU Round 2")
	assert.Contains(t, res.stdout, "主视角")
	assert.Contains(t, res.stdout, "Running")
	assert.Contains(t, res.stdout, "Idle")
	assert.Contains(t, res.stdout, "3")
}

func TestStatus_Idle(t *testing.T) {
	srv := newFakeServer()
	srv.live.Live = false
	setupCLI(t, srv)

	res := execute(t, "", "status")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "Idle"), res.stdout)
	assert.NotContains(t, res.stdout, "Living")
}

func TestStatus_ServerError(t *testing.T) {
	setupCLI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	res := execute(t, "", "status")
	require.Error(t, res.err)
	assert.True(t, notify.IsReported(res.err))
	assert.Contains(t, res.stderr, "boom")
}

type staticStatus struct {
	manager api.ManagerInfo
	live    api.LiveInfo
}

func (s staticStatus) Manager(context.Context) (api.ManagerInfo, error) { return s.manager, nil }
func (s staticStatus) Live(context.Context) (api.LiveInfo, error)       { return s.live, nil }

func TestWatchStatus_RefreshesUntilCancelled(t *testing.T) {
	src := staticStatus{manager: api.ManagerInfo{Downloaders: []api.Downloader{{Name: "主视角"}}}}
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, watchStatus(ctx, &out, src, 20*time.Millisecond))
	assert.GreaterOrEqual(t, strings.Count(out.String(), "Updated"), 2)
	assert.Contains(t, out.String(), "Idle")
}

func TestRenderDownloaders_Empty(t *testing.T) {
	out := renderDownloaders(nil)
	assert.Contains(t, out, "DOWNLOADER")
	assert.Contains(t, out, "ERRORS")
}
