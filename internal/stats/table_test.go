package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Ended", "WPM", "Errors"}
	rows := [][]string{
		{"today", "97.50", "12"},
		{"yesterday", "8.00", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Ended       WPM Errors" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "today     97.50     12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "yesterday  8.00      3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}
