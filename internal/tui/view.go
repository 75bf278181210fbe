package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const maxTextWidth = 60

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	var bindings []key.Binding
	switch m.screen {
	case screenMenu:
		body = m.viewMenu()
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Quit}
	case screenGame:
		body = m.viewGame()
		bindings = []key.Binding{m.keys.Back}
	case screenResults:
		body = m.viewResults()
		bindings = []key.Binding{m.keys.Restart, m.keys.Menu, m.keys.Quit}
	case screenSettings:
		body = m.viewSettings()
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Back}
	case screenError:
		body = m.viewError()
	}
	footer := m.renderFooter()
	helpLine := m.help.ShortHelpView(bindings)

	if m.width == 0 || m.height == 0 {
		return strings.Join(nonEmpty(body, footer, helpLine), "\n\n")
	}
	bg := lipgloss.WithWhitespaceBackground(m.styles.background)
	bodyHeight := max(1, m.height-2)
	out := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body, bg)
	out += "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer, bg)
	out += "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine, bg)
	return out
}

func (m *Model) viewMenu() string {
	lines := []string{m.styles.title.Render("QUICKTYPE"), ""}
	for i, item := range menuItems {
		if i == m.menuIndex {
			lines = append(lines, m.styles.selected.Render(item))
		} else {
			lines = append(lines, m.styles.text.Render(item))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewGame() string {
	if m.session == nil {
		return ""
	}
	runes := buildStyledRunes(m.session, m.styles)
	width := maxTextWidth
	if m.width > 0 {
		width = min(width, max(1, int(float64(m.width)*0.70)))
	}
	return wrapStyledRunes(runes, width)
}

func (m *Model) viewResults() string {
	r := m.result
	best := m.styles.text.Render(fmt.Sprintf("Personal best: %.2f WPM", r.score.Best))
	if r.score.NewRecord {
		best = m.styles.record.Render(fmt.Sprintf("New personal best: %.2f WPM", r.score.Best))
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.title.Render("TEST FINISHED"),
		"",
		best,
		m.styles.text.Render(fmt.Sprintf("True WPM: %.2f", r.metrics.WPM)),
		m.styles.text.Render(fmt.Sprintf("Raw WPM: %.2f", r.metrics.RawWPM)),
		m.styles.text.Render(fmt.Sprintf("Accuracy: %.2f%%", r.metrics.Accuracy)),
	)
}

func (m *Model) viewSettings() string {
	rows := []struct {
		label string
		value string
	}{
		{"Word Count:", fmt.Sprintf("‹ %d ›", m.config.Words)},
		{"Select Theme:", fmt.Sprintf("‹ %s ›", m.theme.Name)},
		{"Menu", ""},
	}
	lines := []string{m.styles.title.Render("SETTINGS"), ""}
	for i, row := range rows {
		label := m.styles.text.Render(row.label)
		if i == m.settingsIndex {
			label = m.styles.selected.Render(row.label)
		}
		if row.value != "" {
			label = lipgloss.JoinHorizontal(lipgloss.Top, label, m.styles.text.Render("  "+row.value))
		}
		lines = append(lines, label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewError() string {
	msg := ""
	if m.loadErr != nil {
		msg = m.loadErr.Error()
	}
	width := maxTextWidth
	if m.width > 0 {
		width = min(width, m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.title.Render("FILE NOT FOUND"),
		"",
		m.styles.typed.Width(width).Align(lipgloss.Center).Render(msg),
		"",
		m.styles.selected.Render("Exit game (enter)"),
	)
}

func (m *Model) renderFooter() string {
	var segments []string
	switch m.screen {
	case screenGame:
		if m.session == nil || m.session.Len() == 0 {
			return ""
		}
		metrics := m.session.Metrics()
		progress := int(float64(m.session.Cursor()) / float64(m.session.Len()) * 100)
		segments = append(segments,
			fmt.Sprintf("Progress %d%%", progress),
			fmt.Sprintf("%.1f WPM · %.1f%%", metrics.WPM, metrics.Accuracy),
		)
	case screenMenu, screenResults:
		segments = append(segments, fmt.Sprintf("Best %.1f WPM", m.bestWPM))
		if m.hasLast {
			segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc))
		}
	default:
		return ""
	}
	return m.styles.muted.Render(strings.Join(segments, "  "))
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
