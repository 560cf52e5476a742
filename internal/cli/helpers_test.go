package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/config"
)

// fakeServer is an in-memory capture server.
type fakeServer struct {
	mu sync.Mutex

	manager  api.ManagerInfo
	live     api.LiveInfo
	videos   []api.Video
	identity string
	// results maps "<action>/<file>" to a non-zero result.
	results map[string]api.Result
	// checks are returned by successive login checks; the last one repeats.
	checks  []int
	mp4     []byte
	uploads []uploadCall

	calls []string
	lists []api.VideoFilter
}

type uploadCall struct {
	Title string
	Files []string
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		manager: api.ManagerInfo{
			RoundInfo: api.RoundInfo{Red: "NUAA", Blue: "SJTU", Round: 2},
			Downloaders: []api.Downloader{
				{Name: "主视角", Status: true},
				{Name: "红方英雄", ErrorCount: 3},
			},
		},
		live: api.LiveInfo{
			Live: true,
			Streams: map[string]map[string]string{
				"主视角":  {"1080p": "u1", "720p": "u2"},
				"红方英雄": {"720p": "u3"},
			},
		},
		videos: []api.Video{
			{Title: "Final R1", Red: "NUAA", Blue: "SJTU", Role: "主视角", Round: 1, FileName: "1_1_1_1.m3u8"},
			{Title: "Final R1", Red: "NUAA", Blue: "SJTU", Role: "红方英雄", Round: 1, FileName: "1_1_1_2.m3u8"},
		},
		identity: "operator",
		results:  map[string]api.Result{},
		checks:   []int{0},
		mp4:      []byte("mp4-bytes"),
	}
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := r.URL.Path
	s.calls = append(s.calls, path)

	switch {
	case path == "/api/manager":
		writeJSON(w, s.manager)
	case path == "/api/manager/live":
		writeJSON(w, s.live)
	case path == "/api/manager/add", path == "/api/manager/update":
		s.calls[len(s.calls)-1] = path + "?" + r.URL.RawQuery
		writeJSON(w, s.manager)
	case path == "/api/manager/delete":
		s.calls[len(s.calls)-1] = path + "?" + r.URL.RawQuery
		writeJSON(w, s.manager)
	case path == "/api/video/list":
		var f api.VideoFilter
		_ = json.NewDecoder(r.Body).Decode(&f)
		s.lists = append(s.lists, f)
		var data []api.Video
		for _, v := range s.videos {
			if f.Role == "" || f.Role == v.Role {
				data = append(data, v)
			}
		}
		writeJSON(w, api.VideoPage{Data: data, Total: len(data)})
	case strings.HasPrefix(path, "/api/video/convert/"), strings.HasPrefix(path, "/api/video/delete/"):
		key := strings.TrimPrefix(path, "/api/video/")
		writeJSON(w, s.results[key])
	case strings.HasPrefix(path, "/api/video/download/"):
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write(s.mp4)
	case path == "/api/bili/login":
		writeJSON(w, api.LoginQR{QR: "data:image/png;base64,AAAA", Key: "k-1"})
	case path == "/api/bili/check":
		code := s.checks[0]
		if len(s.checks) > 1 {
			s.checks = s.checks[1:]
		}
		writeJSON(w, api.Result{Code: code})
	case path == "/api/bili/username":
		writeJSON(w, api.Result{Msg: s.identity})
	case path == "/api/bili/upload":
		var files []string
		_ = json.NewDecoder(r.Body).Decode(&files)
		s.uploads = append(s.uploads, uploadCall{Title: r.URL.Query().Get("title"), Files: files})
		writeJSON(w, s.results["upload"])
	default:
		http.NotFound(w, r)
	}
}

func (s *fakeServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeServer) Lists() []api.VideoFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.VideoFilter(nil), s.lists...)
}

func (s *fakeServer) Uploads() []uploadCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uploadCall(nil), s.uploads...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// setupCLI isolates the config home and starts srv.
func setupCLI(t *testing.T, srv http.Handler) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvUsername, "")
	t.Setenv(config.EnvPassword, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "")
	if srv != nil {
		ts := httptest.NewServer(srv)
		t.Cleanup(ts.Close)
		t.Setenv(config.EnvServerURL, ts.URL)
	} else {
		t.Setenv(config.EnvServerURL, "")
	}

	origTerm := stderrIsTerminal
	stderrIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		stderrIsTerminal = origTerm
		config.ResetGlobalConfigForTest()
	})
	return home
}

// execute runs the root command with args and stdin.
func execute(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
