package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/quicktype/internal/model"
	"github.com/verte-zerg/quicktype/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions     []model.SessionRecord
	PersonalBest float64
}

// BuildReport loads sessions matching cfg.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, personalBest float64) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions:     sessions,
		PersonalBest: personalBest,
	}, nil
}

// Render writes the summary, trend and history sections.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderSummary(w, r.Sessions, r.PersonalBest); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Sessions, window, width); err != nil {
		return err
	}
	return RenderHistory(w, r.Sessions)
}
