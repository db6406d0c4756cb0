// Package briefing assembles the analytics outputs into one summary object
// for venue staff.
package briefing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venuepulse/engine/internal/clock"
	"github.com/venuepulse/engine/internal/predict"
	"github.com/venuepulse/engine/internal/reconcile"
	"github.com/venuepulse/engine/internal/score"
)

// Context carries optional external color for the briefing. Values are
// opaque: they are passed through without validation.
type Context struct {
	Weather  string
	Calendar []string
}

// Briefing is the composed operational summary.
type Briefing struct {
	ID          string
	GeneratedAt time.Time
	Window      clock.Window
	Score       *score.Result
	Occupancy   reconcile.Totals
	Forecast    *predict.PeakForecast
	Alerts      []predict.Alert
	Scenarios   []predict.Estimate
	Weather     string
	Calendar    []string
	Headline    string
}

// Compose builds a Briefing from the engine outputs. Every field degrades
// independently: a missing score or forecast leaves the rest intact.
func Compose(now time.Time, w clock.Window, liveScore *score.Result, occ reconcile.Totals,
	forecast *predict.PeakForecast, alerts []predict.Alert, scenarios []predict.Estimate, ctx Context) Briefing {
	return Briefing{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Window:      w,
		Score:       liveScore,
		Occupancy:   occ,
		Forecast:    forecast,
		Alerts:      alerts,
		Scenarios:   scenarios,
		Weather:     ctx.Weather,
		Calendar:    ctx.Calendar,
		Headline:    headline(liveScore, occ, forecast, alerts),
	}
}

func headline(liveScore *score.Result, occ reconcile.Totals, forecast *predict.PeakForecast, alerts []predict.Alert) string {
	scorePart := "score --"
	if liveScore != nil {
		scorePart = fmt.Sprintf("score %d", liveScore.Composite)
	}

	h := fmt.Sprintf("%s, %d in", scorePart, occ.Current)
	if forecast != nil {
		h += fmt.Sprintf(", peak expected around %02d:00", forecast.PeakHour)
	}

	warnings := 0
	for _, a := range alerts {
		if a.Kind == predict.AlertWarning {
			warnings++
		}
	}
	if warnings > 0 {
		h += fmt.Sprintf(" (%d warning(s))", warnings)
	}
	return h
}
