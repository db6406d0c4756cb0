package predict

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venuepulse/engine/internal/baseline"
	"github.com/venuepulse/engine/internal/reading"
	"github.com/venuepulse/engine/internal/score"
)

// AlertKind classifies a deviation.
type AlertKind string

const (
	AlertWarning     AlertKind = "warning"
	AlertOpportunity AlertKind = "opportunity"
)

// Alert flags a live metric that strays from the hour's historical norm.
type Alert struct {
	ID           string
	Kind         AlertKind
	Metric       string
	DeviationPct float64
	Baseline     float64
	Current      float64
	Timestamp    time.Time
	Message      string
}

// TrendConfig holds the deviation thresholds. Percentages are signed:
// occupancy below baseline by more than OccupancyLowPct is a warning,
// above by more than OccupancyHighPct an opportunity, score below
// ScoreLowPct a warning.
type TrendConfig struct {
	// MinSamples guards against noisy baselines: buckets with fewer
	// historical samples emit no alerts at all.
	MinSamples       int
	OccupancyLowPct  float64
	OccupancyHighPct float64
	ScoreLowPct      float64
}

// DefaultTrendConfig returns the stock thresholds.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		MinSamples:       5,
		OccupancyLowPct:  30,
		OccupancyHighPct: 30,
		ScoreLowPct:      20,
	}
}

// DetectDeviations compares the current reading against the baseline
// bucket for its local hour. Returns nil when the bucket is missing or too
// thin to trust.
func DetectDeviations(b baseline.Baseline, current reading.Reading, liveScore *score.Result, loc *time.Location, cfg TrendConfig) []Alert {
	hour := current.Timestamp.In(loc).Hour()
	prof, ok := b.Hours[hour]
	if !ok || prof.Samples < cfg.MinSamples {
		return nil
	}

	var alerts []Alert

	if occ, ok := current.CurrentOccupancy(); ok && prof.AvgOccupancy > 0 {
		pct := (float64(occ) - prof.AvgOccupancy) / prof.AvgOccupancy * 100
		switch {
		case pct <= -cfg.OccupancyLowPct:
			alerts = append(alerts, newAlert(AlertWarning, "occupancy", pct, prof.AvgOccupancy, float64(occ), current.Timestamp,
				fmt.Sprintf("occupancy %.0f%% below the usual for %02d:00", -pct, hour)))
		case pct >= cfg.OccupancyHighPct:
			alerts = append(alerts, newAlert(AlertOpportunity, "occupancy", pct, prof.AvgOccupancy, float64(occ), current.Timestamp,
				fmt.Sprintf("occupancy %.0f%% above the usual for %02d:00", pct, hour)))
		}
	}

	if liveScore != nil && prof.AvgScore > 0 {
		cur := float64(liveScore.Composite)
		pct := (cur - prof.AvgScore) / prof.AvgScore * 100
		if pct <= -cfg.ScoreLowPct {
			alerts = append(alerts, newAlert(AlertWarning, "score", pct, prof.AvgScore, cur, current.Timestamp,
				fmt.Sprintf("ambience score %.0f%% below the usual for %02d:00", -pct, hour)))
		}
	}

	return alerts
}

func newAlert(kind AlertKind, metric string, pct, base, cur float64, ts time.Time, msg string) Alert {
	return Alert{
		ID:           uuid.NewString(),
		Kind:         kind,
		Metric:       metric,
		DeviationPct: pct,
		Baseline:     base,
		Current:      cur,
		Timestamp:    ts,
		Message:      msg,
	}
}
