// Package tui is the interactive console: a dashboard of the capture
// manager and a video browser that runs batch actions.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/engine/batch"
	"github.com/rmlive/capctl/internal/engine/upload"
	"github.com/rmlive/capctl/internal/login"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/internal/prompt"
)

// maxStatusLines is how many notifications the status area keeps.
const maxStatusLines = 3

// MsgLoginCancelled is shown when the operator closes the login panel.
const MsgLoginCancelled = "Login cancelled"

// Tab identifies a screen.
type Tab int

// Screens.
const (
	TabDashboard Tab = iota
	TabVideos
)

// Backend is the server API used by the console.
type Backend interface {
	upload.Service
	login.Service
	Manager(ctx context.Context) (api.ManagerInfo, error)
	Live(ctx context.Context) (api.LiveInfo, error)
	ListVideos(ctx context.Context, f api.VideoFilter) (api.VideoPage, error)
	BaseURL() string
}

// Options configures the console.
type Options struct {
	RefreshInterval time.Duration
	PageSize        int
	// Filter narrows the video browser; Current and PageSize are managed
	// by the browser.
	Filter  api.VideoFilter
	Limiter *rate.Limiter
	// QRPath is where the login QR image is written when an upload needs
	// a platform login.
	QRPath string
	// Login tunes the login session timings; OnChange is owned by the console.
	Login  login.Options
	Logger zerolog.Logger
}

type dashboardMsg struct {
	manager api.ManagerInfo
	live    api.LiveInfo
	err     error
}

type videosMsg struct {
	page api.VideoPage
	err  error
}

type refreshTickMsg struct{}

type batchDoneMsg struct{ err error }

// Model is the root Bubble Tea model.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	ctx      context.Context
	backend  Backend
	events   *Events
	notifier *notify.Notifier
	runner   *batch.Runner[api.Video]
	uploader *upload.Workflow
	titles   *prompt.Slot[string]
	opts     Options
	logger   zerolog.Logger

	tab    Tab
	width  int
	height int

	// Dashboard
	manager    api.ManagerInfo
	live       api.LiveInfo
	dashLoaded bool
	dashErr    error
	dashTable  table.Model

	// Video browser
	videos       []api.Video
	total        int
	page         int
	selected     map[string]bool
	videosLoaded bool
	videosErr    error
	videoTable   table.Model

	// Batch
	running  bool
	snapshot batch.Snapshot
	bar      progress.Model
	spinner  spinner.Model

	// Title prompt and delete confirmation
	promptOpen    bool
	promptTitle   string
	input         textinput.Model
	confirmDelete bool

	// Platform login started by an upload
	login      *login.Session
	loginState login.State
	loginQR    string

	status   []notify.Notification
	quitting bool
}

// NewModel builds the console. events must be the sink of notifier so
// notifications raised by background work reach the status area.
func NewModel(ctx context.Context, backend Backend, events *Events, notifier *notify.Notifier, opts Options) Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 5 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 15
	}
	if opts.QRPath == "" {
		opts.QRPath = filepath.Join(os.TempDir(), "capctl-login-qr.png")
	}
	logger := opts.Logger.With().Str("component", "tui").Logger()

	runner := batch.NewRunner[api.Video](notifier, func() { events.send(reloadMsg{}) }).
		WithProgressCallback(func(s batch.Snapshot) { events.send(progressMsg(s)) }).
		WithLogger(opts.Logger)
	if opts.Limiter != nil {
		runner = runner.WithLimiter(opts.Limiter)
	}

	titles := prompt.NewSlot[string](func(title string) { events.send(promptOpenMsg{title: title}) })
	uploader := upload.New(backend, notifier, runner, titles.Open, func(context.Context) error {
		events.send(loginStartMsg{})
		return nil
	}).WithLogger(opts.Logger)

	input := textinput.New()
	input.Placeholder = "Video Title"
	input.CharLimit = 80

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		backend:  backend,
		events:   events,
		notifier: notifier,
		runner:   runner,
		uploader: uploader,
		titles:   titles,
		opts:     opts,
		logger:   logger,
		width:    defaultWidth,
		height:   defaultHeight,
		page:     1,
		selected: make(map[string]bool),
		bar:      progress.New(progress.WithDefaultGradient()),
		spinner:  s,
		input:    input,
	}
	m.rebuildTables()
	return m
}

// Init starts event delivery, the first loads and the refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.events.wait(),
		m.spinner.Tick,
		m.fetchDashboard(),
		m.fetchVideos(),
		m.scheduleRefresh(),
	)
}

// Busy reports whether a batch is running; action keys are ignored then.
func (m Model) Busy() bool {
	return m.running || m.runner.Busy()
}

// Selected returns the selected videos in page order.
func (m Model) Selected() []api.Video {
	var out []api.Video
	for _, v := range m.videos {
		if m.selected[v.FileName] {
			out = append(out, v)
		}
	}
	return out
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (m Model) fetchDashboard() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		manager, live, err := api.LoadStatus(ctx, backend)
		return dashboardMsg{manager: manager, live: live, err: err}
	}
}

func (m Model) fetchVideos() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	filter := m.opts.Filter
	filter.Current = m.page
	filter.PageSize = m.opts.PageSize
	return func() tea.Msg {
		page, err := backend.ListVideos(ctx, filter)
		return videosMsg{page: page, err: err}
	}
}

func (m Model) runBatch(videos []api.Video, action batch.Action[api.Video]) tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		_, err := runner.Run(ctx, videos, action, batch.DefaultCompletionMessage)
		return batchDoneMsg{err: err}
	}
}

func (m Model) runUpload(videos []api.Video) tea.Cmd {
	ctx, uploader := m.ctx, m.uploader
	return func() tea.Msg {
		return batchDoneMsg{err: uploader.Run(ctx, videos)}
	}
}

// startLogin opens a login session for the upload gate. The QR image is
// written once issued; state changes arrive as loginStateMsg.
func (m Model) startLogin() (Model, tea.Cmd) {
	opts := m.opts.Login
	opts.Logger = m.opts.Logger
	events := m.events
	var session *login.Session
	opts.OnChange = func(st login.State) { events.send(loginStateMsg{session: session, state: st}) }
	session = login.NewSession(m.backend, opts)

	m.login = session
	m.loginState = login.NotStarted
	m.loginQR = ""

	ctx, qrPath := m.ctx, m.opts.QRPath
	open := func() tea.Msg {
		if err := session.Open(ctx); err != nil {
			return loginOpenedMsg{session: session, err: err}
		}
		select {
		case <-session.Done():
			return nil
		default:
		}
		path, err := login.WriteQR(session.QR(), qrPath)
		return loginOpenedMsg{session: session, path: path, err: err}
	}
	closed := func() tea.Msg {
		<-session.Done()
		return loginClosedMsg{session: session}
	}
	return m, tea.Batch(open, closed)
}

func (m *Model) pushStatus(n notify.Notification) {
	m.status = append(m.status, n)
	if len(m.status) > maxStatusLines {
		m.status = m.status[len(m.status)-maxStatusLines:]
	}
}
