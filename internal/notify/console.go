package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Console styles, shared with the CLI renderers.
//
//nolint:gochecknoglobals // Immutable style definitions.
var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// ConsoleSink prints notifications to a terminal and mirrors them to the log.
type ConsoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	logger zerolog.Logger
}

// NewConsoleSink prints to out and logs each notification at debug level
// (errors at warn).
func NewConsoleSink(out io.Writer, logger zerolog.Logger) *ConsoleSink {
	return &ConsoleSink{out: out, logger: logger}
}

// Notify renders n on its own line.
func (s *ConsoleSink) Notify(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var line string
	switch n.Level {
	case LevelSuccess:
		line = successStyle.Render("✔ " + n.Message)
	case LevelError:
		line = errorStyle.Render("✘ " + n.Message)
	default:
		line = infoStyle.Render("ℹ " + n.Message)
	}
	_, _ = fmt.Fprintln(s.out, line)

	event := s.logger.Debug()
	if n.Level == LevelError {
		event = s.logger.Warn()
	}
	event.Str("level_name", n.Level.String()).Msg(n.Message)
}
