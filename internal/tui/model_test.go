package tui

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quicktype/internal/config"
	"github.com/verte-zerg/quicktype/internal/generator"
	"github.com/verte-zerg/quicktype/internal/highscore"
	"github.com/verte-zerg/quicktype/internal/model"
	"github.com/verte-zerg/quicktype/internal/session"
	"github.com/verte-zerg/quicktype/internal/store"
	"github.com/verte-zerg/quicktype/internal/wordlist"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type testEnv struct {
	model  *Model
	clock  *fakeClock
	scores *highscore.Store
	cfg    model.Config
}

func newTestEnv(t *testing.T, history *store.Store) testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := model.Config{
		Words:        2,
		Theme:        "dark",
		WordListPath: "word_catalogue.txt",
		ConfigPath:   filepath.Join(dir, "config.toml"),
		TickInterval: 50 * time.Millisecond,
	}
	scores := highscore.New(filepath.Join(dir, "highscore.txt"))
	m := NewModel(cfg, wordlist.Catalogue{"cat", "dog"}, generator.NewWithSeed(1), scores, history, nil)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m.now = clock.Now
	return testEnv{model: m, clock: clock, scores: scores, cfg: cfg}
}

func runeKey(r rune) tea.KeyMsg {
	if r == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// deliverStartStop runs cmd, including batched and sequenced commands, and
// feeds any stopwatch start/stop messages back into the model.
func deliverStartStop(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case stopwatch.StartStopMsg:
		send(m, msg)
		return
	case tea.BatchMsg:
		for _, c := range msg {
			deliverStartStop(m, c)
		}
		return
	}
	// tea.Sequence wraps its commands in an unexported slice type.
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		return
	}
	for i := 0; i < v.Len(); i++ {
		if c, ok := v.Index(i).Interface().(tea.Cmd); ok {
			deliverStartStop(m, c)
		}
	}
}

func TestGameFlowRecordsHighScore(t *testing.T) {
	history, err := store.Open(filepath.Join(t.TempDir(), "quicktype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = history.Close()
	})
	env := newTestEnv(t, history)
	m := env.model

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame || m.session == nil {
		t.Fatalf("expected game screen with a session")
	}
	target := string(m.session.Target())
	if target != "cat dog" && target != "dog cat" {
		t.Fatalf("unexpected target %q", target)
	}

	for _, r := range target {
		send(m, runeKey(r))
		env.clock.Advance(time.Second)
	}
	if m.screen != screenResults {
		t.Fatalf("expected results screen, got %v", m.screen)
	}
	got := m.result
	if got.metrics.Accuracy != 100 || got.metrics.Typed != 7 || got.metrics.Errors != 0 {
		t.Fatalf("unexpected metrics: %+v", got.metrics)
	}
	// 7 chars over the 6 seconds between first and last keystroke.
	if want := (7.0 / 5.0) / 0.1; got.metrics.WPM < want-1e-9 || got.metrics.WPM > want+1e-9 {
		t.Fatalf("expected %v WPM, got %v", want, got.metrics.WPM)
	}
	if !got.score.NewRecord {
		t.Fatalf("expected a new record on first session")
	}
	if stored := env.scores.Read(); stored != got.metrics.WPM {
		t.Fatalf("expected stored best %v, got %v", got.metrics.WPM, stored)
	}
	if !strings.Contains(m.View(), "New personal best") {
		t.Fatalf("expected new record on results screen:\n%s", m.View())
	}

	sessions, err := history.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].TargetLen != 7 || sessions[0].DurationMs != 6000 {
		t.Fatalf("unexpected history: %+v", sessions)
	}

	send(m, runeKey('r'))
	if m.screen != screenGame || m.session.State() != session.Idle {
		t.Fatalf("expected restart into a fresh session")
	}
	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu || m.session != nil {
		t.Fatalf("expected esc to abandon to the menu")
	}
	footer := m.renderFooter()
	if !strings.Contains(footer, "Best 14.0 WPM") || !strings.Contains(footer, "Last 14.0 WPM") {
		t.Fatalf("unexpected footer: %q", footer)
	}
}

func TestSlowerSessionKeepsRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.scores.Write(500); err != nil {
		t.Fatalf("seed high score: %v", err)
	}
	m := env.model
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range string(m.session.Target()) {
		send(m, runeKey(r))
		env.clock.Advance(time.Second)
	}
	if m.result.score.NewRecord {
		t.Fatalf("expected no record for a slower session")
	}
	if env.scores.Read() != 500 {
		t.Fatalf("expected stored best to stay at 500, got %v", env.scores.Read())
	}
	if !strings.Contains(m.View(), "Personal best: 500.00 WPM") {
		t.Fatalf("expected previous best on results screen:\n%s", m.View())
	}
}

func TestStaleTickIsIgnored(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.model

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	send(m, runeKey(m.session.Target()[0]))
	staleID := m.ticker.ID()

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ticker.ID() == staleID {
		t.Fatalf("expected a fresh ticker for the new session")
	}

	env.clock.Advance(time.Minute)
	if cmd := send(m, stopwatch.TickMsg{ID: staleID}); cmd != nil {
		t.Fatalf("expected stale tick not to be rescheduled")
	}
	if m.session.State() != session.Idle || m.session.Metrics() != (session.Metrics{}) {
		t.Fatalf("expected new session untouched by stale tick: %+v", m.session.Metrics())
	}
}

func TestTickRefreshesLiveMetrics(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.model

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd := send(m, runeKey(m.session.Target()[0])); cmd == nil {
		t.Fatalf("expected first keystroke to start the ticker")
	}
	if cmd := send(m, runeKey(m.session.Target()[1])); cmd != nil {
		t.Fatalf("expected the ticker to start only once")
	}
	env.clock.Advance(30 * time.Second)
	send(m, stopwatch.TickMsg{ID: m.ticker.ID()})

	metrics := m.session.Metrics()
	if want := (2.0 / 5.0) / 0.5; metrics.WPM != want {
		t.Fatalf("expected %v WPM after tick, got %v", want, metrics.WPM)
	}
	if metrics.Elapsed != 30*time.Second {
		t.Fatalf("expected 30s elapsed, got %v", metrics.Elapsed)
	}
}

func TestBackspaceAtStartIsNoOp(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.model
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.session.State() != session.Idle || m.session.Cursor() != 0 {
		t.Fatalf("expected backspace before typing to be a no-op")
	}

	send(m, runeKey('x'))
	if m.session.Errors() != 1 {
		t.Fatalf("expected mistype to count as error")
	}
	send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.session.Errors() != 0 || m.session.Cursor() != 0 {
		t.Fatalf("expected backspace to undo the error, got cursor=%d errors=%d", m.session.Cursor(), m.session.Errors())
	}
}

func TestSettingsPersist(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.model

	send(m, tea.KeyMsg{Type: tea.KeyDown})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenSettings {
		t.Fatalf("expected settings screen")
	}
	send(m, tea.KeyMsg{Type: tea.KeyRight})
	send(m, tea.KeyMsg{Type: tea.KeyDown})
	send(m, tea.KeyMsg{Type: tea.KeyRight})

	words, theme := m.Settings()
	if words != 5 || theme != "Light" {
		t.Fatalf("expected 5 words and Light theme, got %d %s", words, theme)
	}
	cfg, err := config.LoadConfig(env.cfg.ConfigPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Words == nil || *cfg.Game.Words != 5 || cfg.Game.Theme == nil || *cfg.Game.Theme != "Light" {
		t.Fatalf("expected settings persisted, got %+v", cfg.Game)
	}

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("expected esc to return to the menu")
	}
	send(m, tea.KeyMsg{Type: tea.KeyUp})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := len(strings.Fields(string(m.session.Target()))); got != 2 {
		t.Fatalf("expected the sample capped at the catalogue size, got %d words", got)
	}
}

func TestCycleWordCount(t *testing.T) {
	cases := []struct {
		current, delta, want int
	}{
		{5, 1, 10},
		{50, 1, 5},
		{5, -1, 50},
		{2, 1, 5},
		{30, -1, 25},
		{100, 1, 5},
		{1, -1, 50},
	}
	for _, tc := range cases {
		if got := cycleWordCount(tc.current, tc.delta); got != tc.want {
			t.Fatalf("cycleWordCount(%d, %d) = %d, want %d", tc.current, tc.delta, got, tc.want)
		}
	}
}

func TestErrorScreenRequiresAcknowledge(t *testing.T) {
	dir := t.TempDir()
	loadErr := errors.New("word list not found or empty: open word_catalogue.txt: no such file or directory")
	m := NewModel(model.Config{Words: 5}, nil, generator.NewWithSeed(1), highscore.New(filepath.Join(dir, "hs.txt")), nil, loadErr)
	if m.screen != screenError {
		t.Fatalf("expected error screen")
	}
	view := m.View()
	if !strings.Contains(view, "FILE NOT FOUND") || !strings.Contains(view, "word_catalogue.txt") {
		t.Fatalf("expected error details in view:\n%s", view)
	}
	if cmd := send(m, runeKey('x')); cmd != nil {
		t.Fatalf("expected other keys to be ignored")
	}
	cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestPastedTargetLeavesTickerStopped(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.model
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	target := m.session.Target()

	cmd := send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: target, Paste: true})
	if m.screen != screenResults {
		t.Fatalf("expected paste of the full target to complete the session")
	}
	deliverStartStop(m, cmd)
	if m.ticker.Running() {
		t.Fatalf("expected ticker stopped after completion")
	}

	send(m, runeKey('m'))
	if m.screen != screenMenu || m.session != nil {
		t.Fatalf("expected menu without a lingering session")
	}
	if m.ticker.Running() {
		t.Fatalf("expected ticker stopped on the menu")
	}
}

func TestTickerStopsOnCompletion(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.model
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	target := m.session.Target()

	deliverStartStop(m, send(m, runeKey(target[0])))
	if !m.ticker.Running() {
		t.Fatalf("expected first keystroke to start the ticker")
	}
	deliverStartStop(m, send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: target[1:], Paste: true}))
	if m.screen != screenResults || m.ticker.Running() {
		t.Fatalf("expected results with the ticker stopped, running=%v", m.ticker.Running())
	}
}
