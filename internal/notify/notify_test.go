package notify

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Levels(t *testing.T) {
	rec := &Recorder{}
	n := New(rec)

	n.Info("Please login first")
	n.Success("Operation Success")
	n.Error("disk full")

	all := rec.All()
	require.Len(t, all, 3)
	assert.Equal(t, Notification{Level: LevelInfo, Message: "Please login first"}, all[0])
	assert.Equal(t, Notification{Level: LevelSuccess, Message: "Operation Success"}, all[1])
	assert.Equal(t, Notification{Level: LevelError, Message: "disk full"}, all[2])

	assert.Equal(t, []string{"disk full"}, rec.Messages(LevelError))
}

func TestNotifier_NilSafe(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() { n.Info("x") })
	assert.NotPanics(t, func() { New(nil).Error("x") })
}

func TestRecorder_Drain(t *testing.T) {
	rec := &Recorder{}
	rec.Notify(Notification{Message: "a"})
	assert.Len(t, rec.Drain(), 1)
	assert.Empty(t, rec.All())
}

func TestInitAndDefault(t *testing.T) {
	rec := &Recorder{}
	Init(rec)
	t.Cleanup(func() { Init(nil) })

	Default().Success("done")
	assert.Equal(t, []string{"done"}, rec.Messages(LevelSuccess))
}

func TestSinkFunc(t *testing.T) {
	var got Notification
	New(SinkFunc(func(n Notification) { got = n })).Error("boom")
	assert.Equal(t, LevelError, got.Level)
	assert.Equal(t, "boom", got.Message)
}

func TestConsoleSink(t *testing.T) {
	var out, logs bytes.Buffer
	sink := NewConsoleSink(&out, zerolog.New(&logs).Level(zerolog.DebugLevel))

	sink.Notify(Notification{Level: LevelSuccess, Message: "Convert Success"})
	sink.Notify(Notification{Level: LevelError, Message: "Illegal file name"})

	assert.Contains(t, out.String(), "Convert Success")
	assert.Contains(t, out.String(), "Illegal file name")
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"level_name":"success"`)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "level(7)", Level(7).String())
}

func TestMarkReported(t *testing.T) {
	assert.NoError(t, MarkReported(nil))

	base := errors.New("connection refused")
	marked := MarkReported(base)
	assert.True(t, IsReported(marked))
	assert.True(t, IsReported(fmt.Errorf("wrapped: %w", marked)))
	assert.ErrorIs(t, marked, base)
	assert.Equal(t, "connection refused", marked.Error())
	assert.False(t, IsReported(base))
}
