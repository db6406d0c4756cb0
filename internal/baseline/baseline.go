// Package baseline folds a reading history into per-hour and per-weekday
// statistical profiles. A baseline is rebuilt from scratch on every call;
// there is no incremental state to go stale.
package baseline

import (
	"time"

	"github.com/venuepulse/engine/internal/reading"
	"github.com/venuepulse/engine/internal/score"
)

// HourProfile is the historical average for one local hour of day.
type HourProfile struct {
	AvgScore     float64
	AvgOccupancy float64
	AvgSound     float64
	AvgLight     float64
	Samples      int
}

// DayProfile is the historical average for one weekday.
type DayProfile struct {
	AvgScore     float64
	AvgOccupancy float64
	// PeakHour is the busiest hour across the whole history, not just
	// this weekday. Sparse single-weekday data made per-day peaks too
	// noisy to act on, so every weekday shares the global peak.
	PeakHour int
	Samples  int
}

// Conditions captures the raw factor values of one notable reading.
type Conditions struct {
	Timestamp   time.Time
	Score       int
	SoundLevel  *float64
	LightLevel  *float64
	Temperature *float64
	Humidity    *float64
}

// Baseline is the complete historical profile for a venue.
type Baseline struct {
	Hours map[int]HourProfile
	Days  map[time.Weekday]DayProfile
	// Best and Worst are the single readings with the highest score and
	// the lowest non-zero score ever observed; ties keep the first seen.
	Best    *Conditions
	Worst   *Conditions
	Samples int
}

// PeakHour returns the hour bucket with the highest average occupancy,
// scanning ascending so ties resolve to the earliest hour. Returns -1 when
// no bucket has occupancy data.
func (b Baseline) PeakHour() int {
	peak, best := -1, -1.0
	for h := 0; h < 24; h++ {
		p, ok := b.Hours[h]
		if !ok || p.Samples == 0 {
			continue
		}
		if p.AvgOccupancy > best {
			best = p.AvgOccupancy
			peak = h
		}
	}
	return peak
}

// Builder scores and buckets historical readings.
type Builder struct {
	Scorer   score.Config
	Location *time.Location
}

// bucket accumulates running sums for one hour or weekday slot.
type bucket struct {
	scoreSum, scoreN float64
	occSum, occN     float64
	soundSum, soundN float64
	lightSum, lightN float64
	samples          int
}

// Build folds the history into a Baseline in a single pass over the
// time-sorted readings. The input slice is not modified.
func (b Builder) Build(history []reading.Reading) Baseline {
	loc := b.Location
	if loc == nil {
		loc = time.UTC
	}
	sorted := reading.Sorted(history)

	hours := make(map[int]*bucket)
	days := make(map[time.Weekday]*bucket)
	out := Baseline{
		Hours: make(map[int]HourProfile),
		Days:  make(map[time.Weekday]DayProfile),
	}

	for _, r := range sorted {
		local := r.Timestamp.In(loc)
		hb := getBucket(hours, local.Hour())
		db := getBucket(days, local.Weekday())
		hb.samples++
		db.samples++
		out.Samples++

		if res := b.Scorer.Score(r, loc); res != nil {
			s := float64(res.Composite)
			hb.scoreSum += s
			hb.scoreN++
			db.scoreSum += s
			db.scoreN++

			if out.Best == nil || res.Composite > out.Best.Score {
				out.Best = conditionsOf(r, res.Composite)
			}
			if res.Composite > 0 && (out.Worst == nil || res.Composite < out.Worst.Score) {
				out.Worst = conditionsOf(r, res.Composite)
			}
		}
		if occ, ok := r.CurrentOccupancy(); ok {
			hb.occSum += float64(occ)
			hb.occN++
			db.occSum += float64(occ)
			db.occN++
		}
		if r.SoundLevel != nil {
			hb.soundSum += *r.SoundLevel
			hb.soundN++
		}
		if r.LightLevel != nil {
			hb.lightSum += *r.LightLevel
			hb.lightN++
		}
	}

	for h, hb := range hours {
		out.Hours[h] = HourProfile{
			AvgScore:     avg(hb.scoreSum, hb.scoreN),
			AvgOccupancy: avg(hb.occSum, hb.occN),
			AvgSound:     avg(hb.soundSum, hb.soundN),
			AvgLight:     avg(hb.lightSum, hb.lightN),
			Samples:      hb.samples,
		}
	}

	peak := out.PeakHour()
	for d, db := range days {
		out.Days[d] = DayProfile{
			AvgScore:     avg(db.scoreSum, db.scoreN),
			AvgOccupancy: avg(db.occSum, db.occN),
			PeakHour:     peak,
			Samples:      db.samples,
		}
	}

	return out
}

func getBucket[K comparable](m map[K]*bucket, k K) *bucket {
	if b, ok := m[k]; ok {
		return b
	}
	b := &bucket{}
	m[k] = b
	return b
}

func conditionsOf(r reading.Reading, composite int) *Conditions {
	return &Conditions{
		Timestamp:   r.Timestamp,
		Score:       composite,
		SoundLevel:  r.SoundLevel,
		LightLevel:  r.LightLevel,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
	}
}

func avg(sum, n float64) float64 {
	if n == 0 {
		return 0
	}
	return sum / n
}
