// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameConfig `toml:"game"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	Words     *int    `toml:"words,omitempty"`
	Theme     *string `toml:"theme,omitempty"`
	WordList  *string `toml:"wordlist,omitempty"`
	HighScore *string `toml:"highscore,omitempty"`
	TickMs    *int    `toml:"tick-ms,omitempty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, replacing the previous file atomically.
func SaveConfig(path string, cfg FileConfig) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// UpdateGameSettings rewrites the word count and theme, keeping other keys.
func UpdateGameSettings(path string, words int, theme string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	cfg.Game.Words = &words
	cfg.Game.Theme = &theme
	return SaveConfig(path, cfg)
}
