package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/quicktype/internal/config"
	"github.com/verte-zerg/quicktype/internal/model"
	"github.com/verte-zerg/quicktype/internal/wordlist"
)

func validConfig() model.Config {
	return model.Config{
		Words:         5,
		Theme:         "Dark",
		WordListPath:  "word_catalogue.txt",
		HighScorePath: "highscore.txt",
		TickInterval:  100 * time.Millisecond,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := map[string]func(*model.Config){
		"zero words":      func(c *model.Config) { c.Words = 0 },
		"unknown theme":   func(c *model.Config) { c.Theme = "neon" },
		"empty wordlist":  func(c *model.Config) { c.WordListPath = " " },
		"empty highscore": func(c *model.Config) { c.HighScorePath = "" },
		"zero tick":       func(c *model.Config) { c.TickInterval = 0 },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template: %v", err)
	}

	var uncommented []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		uncommented = append(uncommented, line)
	}
	cfg = config.FileConfig{}
	if _, err := toml.Decode(strings.Join(uncommented, "\n"), &cfg); err != nil {
		t.Fatalf("uncommented template: %v", err)
	}
	if cfg.Game.Words == nil || *cfg.Game.Words != defaultWords {
		t.Fatalf("expected words %d, got %v", defaultWords, cfg.Game.Words)
	}
	if cfg.Game.TickMs == nil || *cfg.Game.TickMs != defaultTickMs {
		t.Fatalf("expected tick-ms %d, got %v", defaultTickMs, cfg.Game.TickMs)
	}
}

func TestWordListLoadErrorKeepsCause(t *testing.T) {
	_, loadErr := wordlist.Load(filepath.Join(t.TempDir(), "missing.txt"))
	if loadErr == nil {
		t.Fatalf("expected load error")
	}
	err := wordListLoadError("missing.txt", loadErr)
	if !errors.Is(err, wordlist.ErrCatalogueLoad) {
		t.Fatalf("expected ErrCatalogueLoad in chain: %v", err)
	}
	if !strings.Contains(err.Error(), "expected word list at: missing.txt") || !strings.Contains(err.Error(), "--wordlist") {
		t.Fatalf("unexpected message: %v", err)
	}
}
