package playlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmlive/capctl/internal/api"
)

var videos = []api.Video{
	{Title: "RED vs BLUE R1", Role: "主视角", FileName: "r1_main.m3u8"},
	{Title: "RED vs BLUE R1", Role: "第一视角", FileName: "r1 fpv.m3u8"},
}

func TestText(t *testing.T) {
	got := Text("http://127.0.0.1:10398/", videos)
	assert.Equal(t,
		"主视角 http://127.0.0.1:10398/api/video/file/r1_main.m3u8\n"+
			"第一视角 http://127.0.0.1:10398/api/video/file/r1%20fpv.m3u8\n",
		got)
	assert.Empty(t, Text("http://x", nil))
}

func TestM3U(t *testing.T) {
	got := M3U("http://h", videos[:1])
	assert.Equal(t,
		"#EXTM3U\n#EXTINF:-1,RED vs BLUE R1 [主视角]\nhttp://h/api/video/file/r1_main.m3u8\n",
		got)
}

func TestLineBreaksFlattened(t *testing.T) {
	broken := []api.Video{{Title: "Final\r\nR2\n#EXTINF:-1,x", Role: "主\r视角", FileName: "r2.m3u8"}}

	assert.Equal(t,
		"#EXTM3U\n#EXTINF:-1,Final R2 #EXTINF:-1,x [主 视角]\nhttp://h/api/video/file/r2.m3u8\n",
		M3U("http://h", broken))
	assert.Equal(t, "主 视角 http://h/api/video/file/r2.m3u8\n", Text("http://h", broken))
}

func TestRender(t *testing.T) {
	text, err := Render("", "http://h", videos)
	require.NoError(t, err)
	assert.Equal(t, Text("http://h", videos), text)

	m3u, err := Render("M3U", "http://h", videos)
	require.NoError(t, err)
	assert.Equal(t, M3U("http://h", videos), m3u)

	_, err = Render("pls", "http://h", videos)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestCopy(t *testing.T) {
	orig := CopyFunc
	t.Cleanup(func() { CopyFunc = orig })

	var copied string
	CopyFunc = func(s string) error { copied = s; return nil }
	msg, ok := Copy("abc")
	assert.True(t, ok)
	assert.Equal(t, MsgCopied, msg)
	assert.Equal(t, "abc", copied)

	CopyFunc = func(string) error { return errors.New("no clipboard utility") }
	msg, ok = Copy("abc")
	assert.False(t, ok)
	assert.Equal(t, "Failed to copy text! no clipboard utility", msg)
}
