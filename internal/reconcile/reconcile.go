// Package reconcile recovers true per-window entry/exit totals from the
// cumulative, reset-prone people counters the devices report.
//
// Known limitation: a drop in a cumulative counter is treated as a device
// reset and the post-reset value is counted from zero. The same drop would
// be produced by late delivery of an older, smaller value, and the two
// cases cannot be told apart here. Callers must keep delivery approximately
// monotonic per device, or disable the heuristic via Reconciler.IsReset.
package reconcile

import (
	"github.com/venuepulse/engine/internal/clock"
	"github.com/venuepulse/engine/internal/reading"
)

// Totals is the reconciled occupancy activity for one window. All fields
// are non-negative. Derived on every call, never stored.
type Totals struct {
	Entries int
	Exits   int
	Current int
}

// ResetFunc decides whether a counter pair represents a device reset.
type ResetFunc func(prev, curr int) bool

// DetectReset is the default heuristic: any decrease is a reset.
func DetectReset(prev, curr int) bool { return curr < prev }

// Reconciler computes window totals. The zero value uses DetectReset;
// deployments with ordering guarantees can plug in their own predicate
// (for example one that never fires).
type Reconciler struct {
	IsReset ResetFunc
}

// WindowTotals reconciles the readings falling inside w. Input order is
// not trusted; readings without occupancy data (or with malformed negative
// counters) are ignored.
func (rc Reconciler) WindowTotals(rs []reading.Reading, w clock.Window) Totals {
	isReset := rc.IsReset
	if isReset == nil {
		isReset = DetectReset
	}

	var inWindow []reading.Reading
	for _, r := range rs {
		if r.HasOccupancy() && w.Contains(r.Timestamp) {
			inWindow = append(inWindow, r)
		}
	}
	reading.SortByTime(inWindow)

	switch len(inWindow) {
	case 0:
		return Totals{}
	case 1:
		// No delta possible from a single sample.
		cur, _ := inWindow[0].CurrentOccupancy()
		return Totals{Current: cur}
	}

	var t Totals
	for i := 1; i < len(inWindow); i++ {
		prev := inWindow[i-1].Occupancy
		curr := inWindow[i].Occupancy
		t.Entries += counterDelta(prev.CumulativeEntries, curr.CumulativeEntries, isReset)
		t.Exits += counterDelta(prev.CumulativeExits, curr.CumulativeExits, isReset)
	}

	t.Current, _ = inWindow[len(inWindow)-1].CurrentOccupancy()
	return t
}

// counterDelta attributes the movement between two cumulative samples.
// After a reset the post-reset value is a fresh count from zero.
func counterDelta(prev, curr int, isReset ResetFunc) int {
	if isReset(prev, curr) {
		return curr
	}
	d := curr - prev
	if d < 0 {
		// Predicate declined to call this a reset; never go negative.
		return 0
	}
	return d
}

// WindowTotals reconciles with the default reset heuristic.
func WindowTotals(rs []reading.Reading, w clock.Window) Totals {
	return Reconciler{}.WindowTotals(rs, w)
}
