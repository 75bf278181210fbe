// Package highscore persists the personal best WPM in a plain text file.
package highscore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store reads and writes a single best-WPM value.
type Store struct {
	path string
}

// Result describes the outcome of submitting a session score.
type Result struct {
	Previous  float64
	Best      float64
	NewRecord bool
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the stored best, or 0 when the file is missing or unparsable.
func (s *Store) Read() float64 {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0
	}
	return v
}

// Write replaces the stored best with v.
func (s *Store) Write(v float64) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create high score dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "highscore-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp high score: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.WriteString(strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
		return fmt.Errorf("failed to write high score: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close high score: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write high score: %w", err)
	}
	return nil
}

// Submit records wpm if it strictly beats the stored best. NewRecord is set
// even when the write fails; the error is returned for the caller to report.
func (s *Store) Submit(wpm float64) (Result, error) {
	prev := s.Read()
	res := Result{Previous: prev, Best: prev}
	if wpm <= prev {
		return res, nil
	}
	res.Best = wpm
	res.NewRecord = true
	return res, s.Write(wpm)
}

// Reset removes the stored best. A missing file is not an error.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to reset high score: %w", err)
	}
	return nil
}
