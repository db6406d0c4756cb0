// Package predict derives forward-looking guidance from a baseline and the
// live reading: the expected peak hour, deviation alerts against the
// historical norm, and counterfactual what-if estimates. Every function is
// a pure computation over its inputs; nothing is cached between calls.
package predict

import (
	"time"

	"github.com/venuepulse/engine/internal/baseline"
	"github.com/venuepulse/engine/internal/reading"
)

// Confidence expresses how much history backs a prediction.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Sample-count cut-points for the confidence tiers. Tuning parameters,
// not part of the contract.
const (
	mediumSamples = 50
	highSamples   = 200
)

func confidenceForSamples(n int) Confidence {
	switch {
	case n >= highSamples:
		return ConfidenceHigh
	case n >= mediumSamples:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// PeakForecast is the expected busiest hour for a weekday.
type PeakForecast struct {
	Weekday           time.Weekday
	PeakHour          int
	ExpectedOccupancy float64
	Confidence        Confidence
	// VsLastWeekPct is the signed percentage difference against the same
	// weekday's peak in the prior 7 days, when that data exists.
	VsLastWeekPct *float64
	GeneratedAt   time.Time
}

// Peak forecasts the busiest hour for the given weekday. The peak hour and
// its expected occupancy come from the whole history's hour buckets; the
// last-week comparison uses only readings of the same weekday inside
// [now-7d, now).
func Peak(b baseline.Baseline, history []reading.Reading, weekday time.Weekday, now time.Time, loc *time.Location) *PeakForecast {
	hour := b.PeakHour()
	if hour < 0 {
		return nil
	}

	f := &PeakForecast{
		Weekday:           weekday,
		PeakHour:          hour,
		ExpectedOccupancy: b.Hours[hour].AvgOccupancy,
		Confidence:        confidenceForSamples(b.Samples),
		GeneratedAt:       now,
	}

	if last := lastWeekPeak(history, weekday, now, loc); last > 0 {
		pct := (f.ExpectedOccupancy - last) / last * 100
		f.VsLastWeekPct = &pct
	}
	return f
}

// lastWeekPeak returns the highest observed occupancy among same-weekday
// readings in the prior 7-day window, or 0 when there are none.
func lastWeekPeak(history []reading.Reading, weekday time.Weekday, now time.Time, loc *time.Location) float64 {
	since := now.Add(-7 * 24 * time.Hour)
	peak := 0.0
	for _, r := range history {
		if r.Timestamp.Before(since) || !r.Timestamp.Before(now) {
			continue
		}
		if r.Timestamp.In(loc).Weekday() != weekday {
			continue
		}
		if occ, ok := r.CurrentOccupancy(); ok && float64(occ) > peak {
			peak = float64(occ)
		}
	}
	return peak
}
