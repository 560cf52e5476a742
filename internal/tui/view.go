package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmlive/capctl/internal/api"
	"github.com/rmlive/capctl/internal/notify"
)

// View renders the current screen (Bubble Tea interface).
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderTabs()}
	switch m.tab {
	case TabDashboard:
		sections = append(sections, m.renderDashboard())
	case TabVideos:
		sections = append(sections, m.renderVideos())
	}
	if m.running {
		sections = append(sections, m.renderProgress())
	}
	if m.login != nil {
		sections = append(sections, m.renderLogin())
	}
	if m.promptOpen {
		sections = append(sections, m.renderPrompt())
	}
	if m.confirmDelete {
		sections = append(sections,
			ErrorStyle.Render(fmt.Sprintf("Delete %d selected videos? (y/N)", len(m.selected))))
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, SubtleStyle.Render(m.help()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	names := []string{"Dashboard", "Videos"}
	tabs := make([]string, len(names))
	for i, name := range names {
		if Tab(i) == m.tab {
			tabs[i] = ActiveTabStyle.Render(name)
		} else {
			tabs[i] = TabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) renderDashboard() string {
	if !m.dashLoaded {
		return m.spinner.View() + " Loading..."
	}
	if m.dashErr != nil {
		return ErrorStyle.Render("Error: " + m.dashErr.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(api.Headline(m.manager, m.live)),
		m.dashTable.View(),
	)
}

func (m Model) renderVideos() string {
	if !m.videosLoaded {
		return m.spinner.View() + " Loading..."
	}
	if m.videosErr != nil {
		return ErrorStyle.Render("Error: " + m.videosErr.Error())
	}
	pages := max((m.total+m.opts.PageSize-1)/m.opts.PageSize, 1)
	footer := fmt.Sprintf("Page %d/%d | %d videos | %d selected", m.page, pages, m.total, len(m.selected))
	return lipgloss.JoinVertical(lipgloss.Left, m.videoTable.View(), SubtleStyle.Render(footer))
}

func (m Model) renderProgress() string {
	s := m.snapshot
	if s.Total == 0 || s.Current < 0 {
		return m.spinner.View() + " Working..."
	}
	label := fmt.Sprintf(" %d/%d", s.Current+1, s.Total)
	return m.bar.ViewAs(float64(s.Percent)/100) + InfoStyle.Render(label) //nolint:mnd // Percent to ratio.
}

func (m Model) renderPrompt() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render(m.promptTitle),
		m.input.View(),
		SubtleStyle.Render("enter to upload, esc to cancel"),
	)
}

func (m Model) renderLogin() string {
	lines := []string{LabelStyle.Render("Platform login: " + m.loginState.String())}
	if m.loginQR != "" && !m.loginState.Terminal() {
		lines = append(lines, "Scan the QR code saved at "+m.loginQR+" with the platform app")
	}
	lines = append(lines, SubtleStyle.Render("esc to close"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderStatus() string {
	lines := make([]string, 0, len(m.status))
	for _, n := range m.status {
		switch n.Level {
		case notify.LevelError:
			lines = append(lines, ErrorStyle.Render("✗ "+n.Message))
		case notify.LevelSuccess:
			lines = append(lines, SuccessStyle.Render("✓ "+n.Message))
		default:
			lines = append(lines, InfoStyle.Render("• "+n.Message))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) help() string {
	if m.login != nil {
		return "esc close login | q quit"
	}
	if m.tab == TabDashboard {
		return "tab videos | r reload | q quit"
	}
	if m.Busy() {
		return "tab dashboard | running... | q quit"
	}
	return "space select | a all | c convert | d delete | p copy play list | u upload | pgup/pgdown page | tab dashboard | q quit"
}

func (m *Model) rebuildTables() {
	m.rebuildDashTable()
	m.rebuildVideoTable()
}

func (m *Model) tableHeight(rows int) int {
	return max(min(rows, m.height-chromeHeight), minHeight)
}

func (m *Model) rebuildDashTable() {
	columns := []table.Column{
		{Title: "Downloader", Width: 24}, //nolint:mnd // Column width.
		{Title: "Status", Width: 10},     //nolint:mnd // Column width.
		{Title: "Errors", Width: 8},      //nolint:mnd // Column width.
	}
	rows := make([]table.Row, len(m.manager.Downloaders))
	for i, d := range m.manager.Downloaders {
		rows[i] = table.Row{d.Name, d.StatusText(), strconv.Itoa(d.ErrorCount)}
	}
	cursor := m.dashTable.Cursor()
	m.dashTable = newTable(columns, rows, m.tableHeight(len(rows)))
	m.dashTable.SetCursor(min(cursor, max(len(rows)-1, 0)))
}

func (m *Model) rebuildVideoTable() {
	titleWidth := max(m.width-60, 20) //nolint:mnd // Remaining width after fixed columns.
	columns := []table.Column{
		{Title: " ", Width: 3}, //nolint:mnd // Column width.
		{Title: "Title", Width: titleWidth},
		{Title: "Role", Width: 12},  //nolint:mnd // Column width.
		{Title: "Round", Width: 6},  //nolint:mnd // Column width.
		{Title: "File", Width: 28},  //nolint:mnd // Column width.
	}
	rows := make([]table.Row, len(m.videos))
	for i, v := range m.videos {
		mark := "[ ]"
		if m.selected[v.FileName] {
			mark = "[x]"
		}
		rows[i] = table.Row{mark, v.Title, v.Role, strconv.Itoa(v.Round), v.FileName}
	}
	cursor := m.videoTable.Cursor()
	m.videoTable = newTable(columns, rows, m.tableHeight(len(rows)))
	m.videoTable.SetCursor(min(cursor, max(len(rows)-1, 0)))
}

func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}
