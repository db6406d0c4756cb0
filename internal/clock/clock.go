// Package clock computes operating-day boundaries. A venue's accounting day
// does not roll over at midnight but at a fixed local hour (typically 03:00),
// so a 1 AM crowd still belongs to the previous day's numbers.
//
// Boundaries are always derived from local wall-clock fields in the venue's
// timezone, never by adding 24h to a previous boundary, so days across a DST
// transition come out 23 or 25 hours long instead of drifting.
package clock

import "time"

// DefaultRolloverHour is when one operating day ends and the next begins.
const DefaultRolloverHour = 3

// Window is one operating day as a half-open interval [Start, End).
// End of window n equals Start of window n+1.
type Window struct {
	Start time.Time
	End   time.Time
	// Label is the local calendar date the operating day started on.
	Label string
}

// Contains reports whether t falls inside the window. Start is inclusive,
// End exclusive: an instant exactly at the rollover hour belongs to the
// window that starts there.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayStart returns the start of the operating day containing ref: the most
// recent occurrence of rolloverHour local time at or before ref. When the
// local hour is earlier than the rollover hour, the operating day began on
// the previous calendar date.
func DayStart(ref time.Time, loc *time.Location, rolloverHour int) time.Time {
	local := ref.In(loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, rolloverHour, 0, 0, 0, loc)
	if local.Before(start) {
		start = time.Date(y, m, d-1, rolloverHour, 0, 0, 0, loc)
	}
	return start
}

// CurrentWindow returns the operating day containing ref.
func CurrentWindow(ref time.Time, loc *time.Location, rolloverHour int) Window {
	start := DayStart(ref, loc, rolloverHour)
	return windowAt(start, loc, rolloverHour)
}

// Next returns the operating day immediately following w.
func Next(w Window, loc *time.Location, rolloverHour int) Window {
	return windowAt(w.End.In(loc), loc, rolloverHour)
}

// Windows enumerates the operating days covering [start, end). The first
// window is the one containing start (it may begin before start); windows
// are contiguous, non-overlapping, and ascending. Returns nil when end is
// not after start.
func Windows(start, end time.Time, loc *time.Location, rolloverHour int) []Window {
	if !end.After(start) {
		return nil
	}
	var out []Window
	w := CurrentWindow(start, loc, rolloverHour)
	for w.Start.Before(end) {
		out = append(out, w)
		w = Next(w, loc, rolloverHour)
	}
	return out
}

func windowAt(start time.Time, loc *time.Location, rolloverHour int) Window {
	local := start.In(loc)
	y, m, d := local.Date()
	end := time.Date(y, m, d+1, rolloverHour, 0, 0, 0, loc)
	return Window{
		Start: local,
		End:   end,
		Label: local.Format("2006-01-02"),
	}
}
