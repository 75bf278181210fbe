// Package statsui provides the Bubble Tea session history browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quicktype/internal/model"
	"github.com/verte-zerg/quicktype/internal/stats"
	"github.com/verte-zerg/quicktype/internal/store"
)

const (
	tabOverview = iota
	tabHistory
)

const (
	filterSince = iota
	filterLast
	filterWindow
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#e2b714"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#646669"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store        *store.Store
	cfg          model.StatsConfig
	personalBest float64

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	history   table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig, personalBest float64) *Model {
	m := &Model{
		store:        st,
		cfg:          cfg,
		personalBest: personalBest,
		tabs:         []string{"Overview", "History"},
		overview:     viewport.New(0, 0),
		history:      buildHistoryTable(nil, 1),
	}
	m.initInputs()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h", "right", "l", "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			if m.activeTab == tabHistory {
				m.history.Focus()
			} else {
				m.history.Blur()
			}
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderOverview()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderOverview()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabHistory {
				m.history.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.history.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabHistory {
			m.history, cmd = m.history.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Config returns the filters currently applied.
func (m *Model) Config() model.StatsConfig {
	return m.cfg
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Since != nil {
		m.filterInputs[filterSince].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[filterSince].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[filterLast].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[filterLast].SetValue("")
	}
	m.filterInputs[filterWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.history.SetWidth(m.width)
	m.history.SetHeight(max(1, bodyHeight-1))
	m.history.GotoBottom()
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg, m.personalBest)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		m.history.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	m.history.SetRows(historyRows(report.Sessions))
	m.history.GotoBottom()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.report.Sessions, m.report.PersonalBest); err != nil {
		m.overview.SetContent(err.Error())
		return
	}
	if err := stats.RenderTrend(&buf, m.report.Sessions, m.cfg.CurveWindow, width); err != nil {
		m.overview.SetContent(err.Error())
		return
	}
	m.overview.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func buildHistoryTable(rows []table.Row, height int) table.Model {
	columns := []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Words", Width: 5},
		{Title: "WPM", Width: 7},
		{Title: "Raw", Width: 7},
		{Title: "Acc", Width: 7},
		{Title: "Errors", Width: 6},
		{Title: "Time", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height)),
	)
	t.SetStyles(historyTableStyles())
	return t
}

func historyRows(sessions []model.SessionRecord) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.Words),
			fmt.Sprintf("%.2f", s.WPM),
			fmt.Sprintf("%.2f", s.RawWPM),
			fmt.Sprintf("%.1f%%", s.Accuracy),
			strconv.Itoa(s.Errors),
			(time.Duration(s.DurationMs) * time.Millisecond).Round(100 * time.Millisecond).String(),
		})
	}
	return rows
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#e2b714")).
		Bold(true)
	return styles
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: since=%s  last=%s  window=%d", since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	if m.activeTab == tabHistory {
		if len(m.report.Sessions) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.history.View())
	}
	return m.overview.View()
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Tabs: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filters: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(filterSince)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	var since *time.Time
	if v := strings.TrimSpace(m.filterInputs[filterSince].Value()); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date")
		}
		since = &parsed
	}
	last := 0
	if v := strings.TrimSpace(m.filterInputs[filterLast].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("last must be >= 0")
		}
		last = n
	}
	window := m.cfg.CurveWindow
	if v := strings.TrimSpace(m.filterInputs[filterWindow].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("curve window must be >= 1")
		}
		window = n
	}
	m.cfg.Since = since
	m.cfg.Last = last
	m.cfg.CurveWindow = window
	return nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
