package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/quicktype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "quicktype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func record(endedAt time.Time, wpm float64) model.SessionRecord {
	return model.SessionRecord{
		StartedAt:    endedAt.Add(-20 * time.Second),
		EndedAt:      endedAt,
		Words:        5,
		Theme:        "dark",
		WordListPath: "word_catalogue.txt",
		TargetLen:    29,
		Typed:        29,
		Errors:       1,
		DurationMs:   20000,
		WPM:          wpm,
		RawWPM:       wpm + 3,
		Accuracy:     96.55,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := st.InsertSession(ctx, record(base.Add(time.Duration(i)*time.Hour), float64(40+i))); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if all[0].WPM != 40 || all[2].WPM != 42 {
		t.Fatalf("expected oldest first, got %+v", all)
	}
	if !all[0].EndedAt.Equal(base) {
		t.Fatalf("expected ended_at %v, got %v", base, all[0].EndedAt)
	}
	if all[0].Theme != "dark" || all[0].Errors != 1 || all[0].RawWPM != 43 {
		t.Fatalf("unexpected round trip: %+v", all[0])
	}
}

func TestListSessionsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if _, err := st.InsertSession(ctx, record(base.Add(time.Duration(i)*24*time.Hour), float64(50+i))); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	last, err := st.ListSessions(ctx, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(last) != 2 || last[0].WPM != 52 || last[1].WPM != 53 {
		t.Fatalf("expected the two most recent sessions, got %+v", last)
	}

	since := base.Add(36 * time.Hour)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(recent) != 2 || recent[0].WPM != 52 {
		t.Fatalf("expected sessions after %v, got %+v", since, recent)
	}
}
