package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
	borderPadding = 2
	chromeHeight  = 8
)

// Color palette.
const (
	colorAccent  = lipgloss.Color("39")
	colorSubtle  = lipgloss.Color("241")
	colorSuccess = lipgloss.Color("42")
	colorError   = lipgloss.Color("196")
	colorInfo    = lipgloss.Color("75")
	colorBorder  = lipgloss.Color("238")
)

// Shared styles.
//
//nolint:gochecknoglobals // Style definitions are package-level constants in practice.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle   = lipgloss.NewStyle().Bold(true)
	ValueStyle   = lipgloss.NewStyle()
	SubtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	InfoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorError)

	TabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(colorSubtle)
	ActiveTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(colorAccent).Underline(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorBorder).
				BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))
)
