package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheClear(t *testing.T) {
	srv := newFakeServer()
	setupCLI(t, srv)

	require.NoError(t, execute(t, "", "stream", "add", "--role", "主视角").err)

	res := execute(t, "", "cache", "clear")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Removed 1 cached entries")

	require.NoError(t, execute(t, "", "stream", "add", "--role", "主视角").err)
	assert.Equal(t, 2, countCalls(srv, "/api/manager/live"))
}
