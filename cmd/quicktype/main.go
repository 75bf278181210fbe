// Package main provides the CLI entrypoint for quicktype.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/quicktype/internal/config"
	"github.com/verte-zerg/quicktype/internal/generator"
	"github.com/verte-zerg/quicktype/internal/highscore"
	"github.com/verte-zerg/quicktype/internal/logging"
	"github.com/verte-zerg/quicktype/internal/model"
	"github.com/verte-zerg/quicktype/internal/stats"
	"github.com/verte-zerg/quicktype/internal/statsui"
	"github.com/verte-zerg/quicktype/internal/store"
	"github.com/verte-zerg/quicktype/internal/tui"
	"github.com/verte-zerg/quicktype/internal/wordlist"
)

const (
	defaultWords       = 5
	defaultTheme       = "Dark"
	defaultTickMs      = 100
	defaultCurveWindow = 5
	defaultLogLevel    = "info"
)

var (
	configPath string
	logLevel   string

	playWords     int
	playTheme     string
	playWordList  string
	playHighScore string
	playTickMs    int

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTUI         bool

	bestReset bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quicktype",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.Flags().IntVar(&playWords, "words", defaultWords, "words per test")
	rootCmd.Flags().StringVar(&playTheme, "theme", defaultTheme, "colour theme ("+strings.Join(tui.ThemeNames(), ", ")+")")
	rootCmd.Flags().StringVar(&playWordList, "wordlist", config.DefaultWordListFile, "word list file, one word per line")
	rootCmd.Flags().StringVar(&playHighScore, "highscore", config.DefaultHighScorePath(), "personal best file")
	rootCmd.Flags().IntVar(&playTickMs, "tick-ms", defaultTickMs, "live metrics refresh interval in milliseconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBestCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "words", &playWords, fileCfg.Game.Words)
	applyStringConfig(cmd, "theme", &playTheme, fileCfg.Game.Theme)
	applyStringConfig(cmd, "wordlist", &playWordList, fileCfg.Game.WordList)
	applyStringConfig(cmd, "highscore", &playHighScore, fileCfg.Game.HighScore)
	applyIntConfig(cmd, "tick-ms", &playTickMs, fileCfg.Game.TickMs)

	cfg := model.Config{
		Words:         playWords,
		Theme:         playTheme,
		WordListPath:  playWordList,
		HighScorePath: playHighScore,
		ConfigPath:    configPath,
		TickInterval:  time.Duration(playTickMs) * time.Millisecond,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	closeLog, err := setupLogging(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	words, loadErr := wordlist.Load(cfg.WordListPath)
	if loadErr != nil {
		slog.Error("failed to load word list", "path", cfg.WordListPath, tint.Err(loadErr))
	}

	var history *store.Store
	if loadErr == nil {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			slog.Warn("session history disabled", tint.Err(err))
		} else {
			history = st
			defer func() {
				if cerr := st.Close(); cerr != nil {
					slog.Warn("failed to close db", tint.Err(cerr))
				}
			}()
		}
	}

	slog.Debug("starting game", "words", cfg.Words, "theme", cfg.Theme, "wordlist", cfg.WordListPath)
	m := tui.NewModel(cfg, words, generator.New(), highscore.New(cfg.HighScorePath), history, loadErr)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if loadErr != nil {
		return wordListLoadError(cfg.WordListPath, loadErr)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(configPath, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse history interactively")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupLogging("")
	if err != nil {
		return err
	}
	defer closeLog()

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Warn("failed to close db", tint.Err(cerr))
		}
	}()

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	best := highscore.New(resolveHighScorePath(cmd)).Read()
	if statsTUI {
		program := tea.NewProgram(statsui.NewModel(st, cfg, best), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}
	report, err := stats.BuildReport(context.Background(), st, cfg, best)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), cfg.CurveWindow, terminalWidth(cmd.OutOrStdout()))
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show or reset the personal best",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
	cmd.Flags().BoolVar(&bestReset, "reset", false, "clear the stored personal best")
	return cmd
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	scores := highscore.New(resolveHighScorePath(cmd))
	if bestReset {
		if err := scores.Reset(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Personal best cleared.")
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Personal best: %.2f WPM\n", scores.Read())
	return err
}

// resolveHighScorePath prefers the config file over the default location.
func resolveHighScorePath(cmd *cobra.Command) string {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "ignoring config: %v\n", err)
		return config.DefaultHighScorePath()
	}
	if fileCfg.Game.HighScore != nil && *fileCfg.Game.HighScore != "" {
		return *fileCfg.Game.HighScore
	}
	return config.DefaultHighScorePath()
}

// setupLogging installs the default slog logger. An empty path logs to
// stderr; otherwise logs go to the file so they do not corrupt the TUI.
func setupLogging(path string) (func(), error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging to stderr: %v\n", err)
		} else {
			w = f
			closeFn = func() { _ = f.Close() }
		}
	}
	slog.SetDefault(logging.New(w, level))
	return closeFn, nil
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# quicktype configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# words = %d                    # Words per test (settings offer 5, 10, 25, 50)
# theme = %q                # One of: %s
# wordlist = %q  # Word list, one word per line
# highscore = %q
# tick-ms = %d                 # Live metrics refresh interval
`,
		defaultWords,
		defaultTheme,
		strings.Join(tui.ThemeNames(), ", "),
		config.DefaultWordListFile,
		config.DefaultHighScorePath(),
		defaultTickMs,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if _, ok := tui.LookupTheme(cfg.Theme); !ok {
		return fmt.Errorf("--theme must be one of: %s", strings.Join(tui.ThemeNames(), ", "))
	}
	if strings.TrimSpace(cfg.WordListPath) == "" {
		return fmt.Errorf("--wordlist must not be empty")
	}
	if strings.TrimSpace(cfg.HighScorePath) == "" {
		return fmt.Errorf("--highscore must not be empty")
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	return nil
}

func wordListLoadError(path string, err error) error {
	return fmt.Errorf("failed to load word list: %w\nexpected word list at: %s\n%s",
		err, path, "Create it with one word per line, or point to one with --wordlist.")
}
