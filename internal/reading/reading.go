// Package reading defines the telemetry reading model shared by the
// analytics packages. Readings are immutable value types produced by an
// ingest source; consumers must not assume input ordering and should use
// SortByTime before any order-sensitive computation.
package reading

import (
	"sort"
	"time"
)

// Occupancy holds the people-counter state reported by a device. Entries
// and exits are cumulative since the device booted; they only decrease
// when the counter resets.
type Occupancy struct {
	CumulativeEntries int
	CumulativeExits   int
	// Current is the independently reported live occupancy, if the
	// device provides one. Nil when not reported.
	Current *int
}

// Reading is a single telemetry sample from a venue sensor. All factor
// values are optional; a nil pointer means the sensor did not report.
type Reading struct {
	Timestamp   time.Time
	SoundLevel  *float64 // decibels
	LightLevel  *float64 // lux
	Temperature *float64 // degrees Fahrenheit, indoor
	Humidity    *float64 // relative humidity percent
	Occupancy   *Occupancy
}

// HasOccupancy reports whether the reading carries usable counter data.
// Negative cumulative counters are treated as malformed and excluded.
func (r Reading) HasOccupancy() bool {
	if r.Occupancy == nil {
		return false
	}
	return r.Occupancy.CumulativeEntries >= 0 && r.Occupancy.CumulativeExits >= 0
}

// CurrentOccupancy returns the live occupancy count, or 0 and false when
// the reading does not report one.
func (r Reading) CurrentOccupancy() (int, bool) {
	if r.Occupancy == nil || r.Occupancy.Current == nil {
		return 0, false
	}
	n := *r.Occupancy.Current
	if n < 0 {
		n = 0
	}
	return n, true
}

// SortByTime sorts readings ascending by timestamp in place. The sort is
// stable so that duplicate timestamps keep their first-seen order.
func SortByTime(rs []Reading) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Timestamp.Before(rs[j].Timestamp)
	})
}

// Sorted returns a sorted copy, leaving the input untouched.
func Sorted(rs []Reading) []Reading {
	out := make([]Reading, len(rs))
	copy(out, rs)
	SortByTime(out)
	return out
}

// Float returns a pointer to v. Convenience for building readings.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v. Convenience for building readings.
func Int(v int) *int { return &v }
