// Package model defines shared data structures.
package model

import "time"

// Config defines game settings.
type Config struct {
	Words         int
	Theme         string
	WordListPath  string
	HighScorePath string
	ConfigPath    string
	TickInterval  time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a completed typing session.
type SessionRecord struct {
	ID           int64
	StartedAt    time.Time
	EndedAt      time.Time
	Words        int
	Theme        string
	WordListPath string
	TargetLen    int
	Typed        int
	Errors       int
	DurationMs   int64
	WPM          float64
	RawWPM       float64
	Accuracy     float64
}
