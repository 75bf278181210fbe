// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/quicktype/internal/model"
)

// CharsPerWord is the standard word length used by WPM.
const CharsPerWord = 5.0

const sparkChars = " .:-=+*#%@"

// WPM returns (chars/5) per elapsed minute. ok is false when elapsed is not
// strictly positive.
func WPM(chars int, elapsed time.Duration) (wpm float64, ok bool) {
	if elapsed <= 0 {
		return 0, false
	}
	return (float64(chars) / CharsPerWord) / elapsed.Minutes(), true
}

// Accuracy returns the percentage of typed positions that were correct, or 0
// when nothing was typed.
func Accuracy(typed, errors int) float64 {
	if typed <= 0 {
		return 0
	}
	return float64(typed-errors) / float64(typed) * 100
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregate results for sessions and the stored best.
func RenderSummary(w io.Writer, sessions []model.SessionRecord, personalBest float64) error {
	if len(sessions) == 0 {
		if _, err := fmt.Fprintln(w, "No sessions found."); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Personal best: %.2f WPM\n", personalBest)
		return err
	}
	var totalWPM, totalRaw, totalAcc float64
	bestWPM := 0.0
	for _, s := range sessions {
		totalWPM += s.WPM
		totalRaw += s.RawWPM
		totalAcc += s.Accuracy
		bestWPM = math.Max(bestWPM, s.WPM)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Raw WPM: %.2f", totalRaw/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Personal best: %.2f WPM", personalBest),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a moving-average WPM sparkline clipped to width columns.
func RenderTrend(w io.Writer, sessions []model.SessionRecord, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.WPM
	}
	wpms = MovingAverage(wpms, window)
	if width > 0 && len(wpms) > width {
		wpms = wpms[len(wpms)-width:]
	}
	if _, err := fmt.Fprintf(w, "WPM trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(wpms)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints one row per session, oldest first.
func RenderHistory(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	headers := []string{"Ended", "Words", "WPM", "Raw", "Accuracy", "Errors", "Time"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.Words),
			fmt.Sprintf("%.2f", s.WPM),
			fmt.Sprintf("%.2f", s.RawWPM),
			fmt.Sprintf("%.2f%%", s.Accuracy),
			fmt.Sprintf("%d", s.Errors),
			(time.Duration(s.DurationMs) * time.Millisecond).Round(100 * time.Millisecond).String(),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
