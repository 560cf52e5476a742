package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmlive/capctl/internal/engine/batch"
	"github.com/rmlive/capctl/internal/login"
	"github.com/rmlive/capctl/internal/notify"
)

const eventBuffer = 64

// notificationMsg carries a notification into the update loop.
type notificationMsg notify.Notification

// progressMsg reports a batch step.
type progressMsg batch.Snapshot

// reloadMsg asks the video browser to reload its page.
type reloadMsg struct{}

// promptOpenMsg shows the title form.
type promptOpenMsg struct{ title string }

// loginStartMsg asks the console to open the platform login panel.
type loginStartMsg struct{}

// loginStateMsg reports a state change of session.
type loginStateMsg struct {
	session *login.Session
	state   login.State
}

// loginOpenedMsg reports the QR image written for session.
type loginOpenedMsg struct {
	session *login.Session
	path    string
	err     error
}

// loginClosedMsg reports that session has closed.
type loginClosedMsg struct{ session *login.Session }

// Events carries messages from background work (batch runs, the API
// notifier, prompts) into the Bubble Tea loop. It implements notify.Sink.
type Events struct {
	ch        chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// NewEvents returns an open event bus.
func NewEvents() *Events {
	return &Events{ch: make(chan tea.Msg, eventBuffer), done: make(chan struct{})}
}

// Notify forwards n to the UI.
func (e *Events) Notify(n notify.Notification) {
	e.send(notificationMsg(n))
}

// Close releases senders blocked on a UI that has exited.
func (e *Events) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

func (e *Events) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	case <-e.done:
	}
}

// wait returns a command that delivers the next event.
func (e *Events) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-e.ch:
			return msg
		case <-e.done:
			return nil
		}
	}
}
