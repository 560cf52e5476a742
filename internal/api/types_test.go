package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadline(t *testing.T) {
	m := ManagerInfo{RoundInfo: RoundInfo{Red: "HITSZ", Blue: "SJTU", Round: 2}}
	assert.Equal(t, "Living  HITSZ vs SJTU Round 2", Headline(m, LiveInfo{Live: true}))
	assert.Equal(t, "Idle", Headline(m, LiveInfo{}))

	assert.Equal(t, "Running", Downloader{Status: true}.StatusText())
	assert.Equal(t, "Idle", Downloader{}.StatusText())
}

type staticStatus struct {
	manager ManagerInfo
	live    LiveInfo
	err     error
}

func (s staticStatus) Manager(context.Context) (ManagerInfo, error) { return s.manager, s.err }
func (s staticStatus) Live(context.Context) (LiveInfo, error)       { return s.live, nil }

func TestLoadStatus(t *testing.T) {
	src := staticStatus{
		manager: ManagerInfo{Downloaders: []Downloader{{Name: "主视角", Status: true}}},
		live:    LiveInfo{Live: true},
	}
	manager, live, err := LoadStatus(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, manager.Downloaders, 1)
	assert.True(t, live.Live)

	src.err = errors.New("connection refused")
	_, _, err = LoadStatus(context.Background(), src)
	assert.EqualError(t, err, "connection refused")
}
