// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"

	"github.com/verte-zerg/quicktype/internal/config"
	"github.com/verte-zerg/quicktype/internal/generator"
	"github.com/verte-zerg/quicktype/internal/highscore"
	"github.com/verte-zerg/quicktype/internal/model"
	"github.com/verte-zerg/quicktype/internal/session"
	"github.com/verte-zerg/quicktype/internal/store"
	"github.com/verte-zerg/quicktype/internal/wordlist"
)

// DefaultTickInterval is how often live metrics are refreshed while typing.
const DefaultTickInterval = 100 * time.Millisecond

// WordCounts lists the word counts offered on the settings screen.
var WordCounts = []int{5, 10, 25, 50}

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenResults
	screenSettings
	screenError
)

const (
	menuStart = iota
	menuSettings
	menuQuit
)

var menuItems = []string{"Start Game", "Settings", "Quit"}

const (
	settingWords = iota
	settingTheme
	settingBack
)

type results struct {
	metrics session.Metrics
	score   highscore.Result
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config  model.Config
	words   wordlist.Catalogue
	gen     *generator.Generator
	scores  *highscore.Store
	history *store.Store
	loadErr error
	now     func() time.Time

	width  int
	height int

	screen        screen
	menuIndex     int
	settingsIndex int
	theme         Theme
	styles        styles
	keys          keyMap
	help          help.Model

	session *session.Session
	ticker  stopwatch.Model
	result  results

	bestWPM float64
	lastWPM float64
	lastAcc float64
	hasLast bool
}

// NewModel constructs the typing TUI. A non-nil loadErr opens the error
// screen instead of the menu. history may be nil.
func NewModel(cfg model.Config, words wordlist.Catalogue, gen *generator.Generator, scores *highscore.Store, history *store.Store, loadErr error) *Model {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	theme, ok := LookupTheme(cfg.Theme)
	if !ok {
		theme = themes[0]
	}
	m := &Model{
		config:  cfg,
		words:   words,
		gen:     gen,
		scores:  scores,
		history: history,
		loadErr: loadErr,
		now:     time.Now,
		theme:   theme,
		styles:  newStyles(theme),
		keys:    defaultKeyMap(),
		help:    help.New(),
		ticker:  stopwatch.NewWithInterval(cfg.TickInterval),
	}
	if loadErr != nil {
		m.screen = screenError
		return m
	}
	m.loadFooterStats()
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
		m.help.Width = msg.Width
		return m, nil
	case stopwatch.TickMsg:
		return m, m.handleTick(msg)
	case stopwatch.StartStopMsg, stopwatch.ResetMsg:
		var cmd tea.Cmd
		m.ticker, cmd = m.ticker.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.abandon()
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m, m.updateMenu(msg)
		case screenGame:
			return m, m.updateGame(msg)
		case screenResults:
			return m, m.updateResults(msg)
		case screenSettings:
			return m, m.updateSettings(msg)
		case screenError:
			return m, m.updateError(msg)
		}
	}
	return m, nil
}

// handleTick refreshes live metrics. Ticks from a ticker that was replaced
// when its session was abandoned are dropped and not rescheduled.
func (m *Model) handleTick(msg stopwatch.TickMsg) tea.Cmd {
	if msg.ID != m.ticker.ID() {
		return nil
	}
	if m.session != nil {
		m.session.Tick(m.now())
	}
	var cmd tea.Cmd
	m.ticker, cmd = m.ticker.Update(msg)
	return cmd
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuIndex = (m.menuIndex + len(menuItems) - 1) % len(menuItems)
	case key.Matches(msg, m.keys.Down):
		m.menuIndex = (m.menuIndex + 1) % len(menuItems)
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Select):
		switch m.menuIndex {
		case menuStart:
			return m.startGame()
		case menuSettings:
			m.settingsIndex = settingWords
			m.screen = screenSettings
		case menuQuit:
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Back) {
		cmd := m.abandon()
		m.screen = screenMenu
		return cmd
	}
	switch msg.Type {
	case tea.KeyBackspace:
		m.session.Backspace(m.now())
		return nil
	case tea.KeySpace:
		return m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m.typeRunes(msg.Runes)
	default:
		return nil
	}
}

// typeRunes feeds runes to the session. A paste may start and complete the
// session in one message, in which case the ticker is never started.
func (m *Model) typeRunes(runes []rune) tea.Cmd {
	wasIdle := m.session.State() == session.Idle
	for _, r := range runes {
		if m.session.State() == session.Completed {
			break
		}
		m.session.Type(r, m.now())
	}
	switch m.session.State() {
	case session.Completed:
		return m.finishSession()
	case session.Running:
		if wasIdle {
			return m.ticker.Start()
		}
	}
	return nil
}

func (m *Model) updateResults(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Restart):
		return m.startGame()
	case key.Matches(msg, m.keys.Menu):
		cmd := m.abandon()
		m.screen = screenMenu
		return cmd
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.settingsIndex = max(0, m.settingsIndex-1)
	case key.Matches(msg, m.keys.Down):
		m.settingsIndex = min(settingBack, m.settingsIndex+1)
	case key.Matches(msg, m.keys.Left):
		m.changeSetting(-1)
	case key.Matches(msg, m.keys.Right):
		m.changeSetting(1)
	case key.Matches(msg, m.keys.Back):
		m.screen = screenMenu
	case key.Matches(msg, m.keys.Select):
		if m.settingsIndex == settingBack {
			m.screen = screenMenu
		} else {
			m.changeSetting(1)
		}
	}
	return nil
}

func (m *Model) updateError(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Select, m.keys.Back, m.keys.Quit) {
		return tea.Quit
	}
	return nil
}

func (m *Model) changeSetting(delta int) {
	switch m.settingsIndex {
	case settingWords:
		m.config.Words = cycleWordCount(m.config.Words, delta)
		slog.Info("word count changed", "words", m.config.Words)
	case settingTheme:
		idx := (themeIndex(m.theme.Name) + delta + len(themes)) % len(themes)
		m.theme = themes[idx]
		m.styles = newStyles(m.theme)
		m.config.Theme = m.theme.Name
		slog.Info("theme changed", "theme", m.theme.Name)
	default:
		return
	}
	m.saveSettings()
}

// cycleWordCount steps through WordCounts. A count outside the list moves to
// the nearest offered count in the requested direction.
func cycleWordCount(current, delta int) int {
	idx := -1
	for i, n := range WordCounts {
		if n == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta > 0 {
			for _, n := range WordCounts {
				if n > current {
					return n
				}
			}
			return WordCounts[0]
		}
		for i := len(WordCounts) - 1; i >= 0; i-- {
			if WordCounts[i] < current {
				return WordCounts[i]
			}
		}
		return WordCounts[len(WordCounts)-1]
	}
	return WordCounts[(idx+delta+len(WordCounts))%len(WordCounts)]
}

func (m *Model) saveSettings() {
	if m.config.ConfigPath == "" {
		return
	}
	theme := m.theme.Name
	if err := config.UpdateGameSettings(m.config.ConfigPath, m.config.Words, theme); err != nil {
		slog.Warn("failed to save settings", "path", m.config.ConfigPath, tint.Err(err))
	}
}

// startGame discards any current session and opens a fresh one.
func (m *Model) startGame() tea.Cmd {
	cmd := m.abandon()
	m.session = session.New(m.gen.Sample(m.words, m.config.Words))
	m.screen = screenGame
	return cmd
}

// abandon stops the ticker and replaces it so in-flight ticks carry a stale ID.
func (m *Model) abandon() tea.Cmd {
	stop := m.ticker.Stop()
	m.ticker = stopwatch.NewWithInterval(m.config.TickInterval)
	m.session = nil
	return stop
}

func (m *Model) finishSession() tea.Cmd {
	metrics := m.session.Metrics()
	score, err := m.scores.Submit(metrics.WPM)
	if err != nil {
		slog.Warn("failed to save high score", "path", m.scores.Path(), tint.Err(err))
	}
	if score.NewRecord {
		slog.Info("new personal best", "wpm", score.Best, "previous", score.Previous)
	}
	m.bestWPM = score.Best
	m.lastWPM = metrics.WPM
	m.lastAcc = metrics.Accuracy
	m.hasLast = true
	m.result = results{metrics: metrics, score: score}
	m.recordHistory(metrics)
	m.screen = screenResults
	return m.ticker.Stop()
}

func (m *Model) recordHistory(metrics session.Metrics) {
	if m.history == nil {
		return
	}
	startedAt := m.session.StartedAt()
	endedAt := m.session.EndedAt()
	rec := model.SessionRecord{
		StartedAt:    startedAt,
		EndedAt:      endedAt,
		Words:        m.config.Words,
		Theme:        m.theme.Name,
		WordListPath: m.config.WordListPath,
		TargetLen:    m.session.Len(),
		Typed:        metrics.Typed,
		Errors:       metrics.Errors,
		DurationMs:   endedAt.Sub(startedAt).Milliseconds(),
		WPM:          metrics.WPM,
		RawWPM:       metrics.RawWPM,
		Accuracy:     metrics.Accuracy,
	}
	if _, err := m.history.InsertSession(context.Background(), rec); err != nil {
		slog.Warn("failed to save session", tint.Err(err))
	}
}

func (m *Model) loadFooterStats() {
	m.bestWPM = m.scores.Read()
	if m.history == nil {
		return
	}
	sessions, err := m.history.ListSessions(context.Background(), model.StatsConfig{Last: 1})
	if err != nil {
		slog.Warn("failed to load session history", tint.Err(err))
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
}

// Settings returns the current word count and theme name.
func (m *Model) Settings() (words int, theme string) {
	return m.config.Words, m.theme.Name
}
