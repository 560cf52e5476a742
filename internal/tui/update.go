package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmlive/capctl/internal/engine/batch"
	"github.com/rmlive/capctl/internal/login"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/internal/playlist"
)

// Update handles messages and updates the model state (Bubble Tea interface).
//
//nolint:gocyclo // One branch per message type.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-borderPadding*10, 10)
		m.rebuildTables()
		return m, nil

	case notificationMsg:
		m.pushStatus(notify.Notification(msg))
		return m, m.events.wait()

	case progressMsg:
		m.snapshot = batch.Snapshot(msg)
		return m, m.events.wait()

	case reloadMsg:
		return m, tea.Batch(m.fetchVideos(), m.events.wait())

	case promptOpenMsg:
		m.promptOpen = true
		m.promptTitle = msg.title
		m.input.SetValue("")
		return m, tea.Batch(m.input.Focus(), textinput.Blink, m.events.wait())

	case loginStartMsg:
		if m.login != nil {
			return m, m.events.wait()
		}
		next, cmd := m.startLogin()
		return next, tea.Batch(cmd, m.events.wait())

	case loginStateMsg:
		if msg.session == m.login {
			m.loginState = msg.state
			if msg.state.Terminal() {
				m.pushStatus(loginOutcome(msg.state))
			}
		}
		return m, m.events.wait()

	case loginOpenedMsg:
		return m.handleLoginOpened(msg), nil

	case loginClosedMsg:
		if msg.session == m.login {
			m.login = nil
			m.loginQR = ""
		}
		return m, nil

	case batchDoneMsg:
		m.running = false
		m.snapshot = batch.Snapshot{Current: batch.Idle}
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Msg("batch finished with error")
			if !notify.IsReported(msg.err) {
				m.pushStatus(notify.Notification{Level: notify.LevelError, Message: msg.err.Error()})
			}
		}
		return m, nil

	case dashboardMsg:
		m.dashLoaded = true
		m.dashErr = msg.err
		if msg.err == nil {
			m.manager = msg.manager
			m.live = msg.live
		}
		m.rebuildTables()
		return m, nil

	case videosMsg:
		return m.handleVideos(msg), nil

	case refreshTickMsg:
		return m, tea.Batch(m.fetchDashboard(), m.scheduleRefresh())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleVideos(msg videosMsg) Model {
	m.videosLoaded = true
	m.videosErr = msg.err
	if msg.err != nil {
		return m
	}
	m.videos = msg.page.Data
	m.total = msg.page.Total

	present := make(map[string]bool, len(m.videos))
	for _, v := range m.videos {
		if m.selected[v.FileName] {
			present[v.FileName] = true
		}
	}
	m.selected = present
	m.rebuildTables()
	return m
}

func (m Model) handleLoginOpened(msg loginOpenedMsg) Model {
	if msg.session != m.login {
		return m
	}
	if msg.err != nil {
		m.logger.Debug().Err(msg.err).Msg("login panel failed")
		if !notify.IsReported(msg.err) {
			m.pushStatus(notify.Notification{Level: notify.LevelError, Message: msg.err.Error()})
		}
		msg.session.Close()
		m.login = nil
		return m
	}
	m.loginQR = msg.path
	return m
}

func loginOutcome(st login.State) notify.Notification {
	if st == login.LoggedIn {
		return notify.Notification{Level: notify.LevelSuccess, Message: st.String()}
	}
	return notify.Notification{Level: notify.LevelError, Message: st.String()}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		return m.quit()
	}
	if m.promptOpen {
		return m.handlePromptKey(msg)
	}
	if m.confirmDelete {
		return m.handleConfirmKey(msg)
	}
	if m.login != nil && msg.String() == keyEsc {
		m.login.Close()
		m.login = nil
		m.loginQR = ""
		m.pushStatus(notify.Notification{Level: notify.LevelInfo, Message: MsgLoginCancelled})
		return m, nil
	}

	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyTab:
		if m.tab == TabDashboard {
			m.tab = TabVideos
		} else {
			m.tab = TabDashboard
		}
		return m, nil
	case keyReload:
		return m, tea.Batch(m.fetchDashboard(), m.fetchVideos())
	}

	if m.tab == TabVideos {
		return m.handleVideoKey(msg)
	}
	var cmd tea.Cmd
	m.dashTable, cmd = m.dashTable.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.titles.Dismiss()
	m.events.Close()
	if m.login != nil {
		m.login.Close()
	}
	return m, tea.Quit
}

func (m Model) handleVideoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keySpace:
		if i := m.videoTable.Cursor(); i >= 0 && i < len(m.videos) {
			name := m.videos[i].FileName
			m.selected[name] = !m.selected[name]
			if !m.selected[name] {
				delete(m.selected, name)
			}
			m.rebuildVideoTable()
		}
		return m, nil

	case keyAll:
		if len(m.selected) == len(m.videos) {
			m.selected = make(map[string]bool)
		} else {
			for _, v := range m.videos {
				m.selected[v.FileName] = true
			}
		}
		m.rebuildVideoTable()
		return m, nil

	case keyPrevPage:
		if m.page > 1 {
			m.page--
			return m, m.fetchVideos()
		}
		return m, nil

	case keyNextPage:
		if m.page*m.opts.PageSize < m.total {
			m.page++
			return m, m.fetchVideos()
		}
		return m, nil

	case keyConvert, keyDelete, keyPlaylist, keyUpload:
		return m.handleAction(msg.String())
	}

	var cmd tea.Cmd
	m.videoTable, cmd = m.videoTable.Update(msg)
	return m, cmd
}

func (m Model) handleAction(key string) (tea.Model, tea.Cmd) {
	selected := m.Selected()
	if m.Busy() || len(selected) == 0 {
		return m, nil
	}

	switch key {
	case keyConvert:
		m.running = true
		return m, m.runBatch(selected, batch.ConvertAction(m.backend))
	case keyDelete:
		m.confirmDelete = true
		return m, nil
	case keyPlaylist:
		message, ok := playlist.Copy(playlist.Text(m.backend.BaseURL(), selected))
		if ok {
			m.notifier.Success(message)
		} else {
			m.notifier.Error(message)
		}
		return m, nil
	case keyUpload:
		m.running = true
		return m, m.runUpload(selected)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if strings.ToLower(msg.String()) != keyYes || m.Busy() {
		return m, nil
	}
	m.running = true
	return m, m.runBatch(m.Selected(), batch.DeleteAction(m.backend))
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.promptOpen = false
		m.input.Blur()
		m.titles.Resolve(value)
		return m, nil
	case keyEsc:
		m.promptOpen = false
		m.input.Blur()
		m.titles.Dismiss()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
