// Package playlist renders play lists for recorded videos.
package playlist

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/rmlive/capctl/internal/api"
)

// Supported formats.
const (
	FormatText = "text"
	FormatM3U  = "m3u"
)

// ErrUnknownFormat is returned for formats other than FormatText and FormatM3U.
var ErrUnknownFormat = errors.New("unknown playlist format")

// Clipboard messages.
const (
	MsgCopied     = "Text copied to clipboard"
	MsgCopyFailed = "Failed to copy text! "
)

// FileURL is the playable URL of fileName on the server at origin.
func FileURL(origin, fileName string) string {
	return strings.TrimRight(origin, "/") + "/api/video/file/" + url.PathEscape(fileName)
}

// lineBreaks flattens server-provided names onto one play list line.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ") //nolint:gochecknoglobals // Immutable replacer.

// Text renders one "<role> <url>" line per video.
func Text(origin string, videos []api.Video) string {
	var b strings.Builder
	for _, v := range videos {
		b.WriteString(lineBreaks.Replace(v.Role))
		b.WriteByte(' ')
		b.WriteString(FileURL(origin, v.FileName))
		b.WriteByte('\n')
	}
	return b.String()
}

// M3U renders an extended M3U play list titled by each video's title.
func M3U(origin string, videos []api.Video) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, v := range videos {
		name := lineBreaks.Replace(v.Title)
		if v.Role != "" {
			name = fmt.Sprintf("%s [%s]", name, lineBreaks.Replace(v.Role))
		}
		fmt.Fprintf(&b, "#EXTINF:-1,%s\n%s\n", name, FileURL(origin, v.FileName))
	}
	return b.String()
}

// Render dispatches on format.
func Render(format, origin string, videos []api.Video) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return Text(origin, videos), nil
	case FormatM3U:
		return M3U(origin, videos), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// CopyFunc writes text to the system clipboard. Replaced in tests.
//
//nolint:gochecknoglobals // Test seam for the system clipboard.
var CopyFunc = clipboard.WriteAll

// Copy puts text on the clipboard and returns the operator message with
// whether it succeeded.
func Copy(text string) (string, bool) {
	if err := CopyFunc(text); err != nil {
		return MsgCopyFailed + err.Error(), false
	}
	return MsgCopied, true
}
