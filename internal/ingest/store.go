package ingest

import (
	"sync"
	"time"

	"github.com/venuepulse/engine/internal/reading"
)

// History is a fixed-capacity FIFO of readings behind an RWMutex. Once
// full, new readings overwrite the oldest — the engine only ever wants a
// bounded recent window, so nothing older is worth keeping.
type History struct {
	mu       sync.RWMutex
	buf      []reading.Reading
	capacity int
	head     int // next write position
	count    int
}

// NewHistory creates a History holding at most capacity readings.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{
		buf:      make([]reading.Reading, capacity),
		capacity: capacity,
	}
}

// Add appends a reading, evicting the oldest when full.
func (h *History) Add(r reading.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf[h.head] = r
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// Readings returns the stored readings in insertion order, oldest first.
// The result is a copy; callers may sort and slice it freely.
func (h *History) Readings() []reading.Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return nil
	}
	out := make([]reading.Reading, h.count)
	start := (h.head - h.count + h.capacity) % h.capacity
	for i := 0; i < h.count; i++ {
		out[i] = h.buf[(start+i)%h.capacity]
	}
	return out
}

// Since returns a copy of the stored readings with timestamps at or after
// the cutoff, oldest first.
func (h *History) Since(cutoff time.Time) []reading.Reading {
	all := h.Readings()
	out := all[:0]
	for _, r := range all {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Latest returns the most recently added reading.
func (h *History) Latest() (reading.Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return reading.Reading{}, false
	}
	last := (h.head - 1 + h.capacity) % h.capacity
	return h.buf[last], true
}

// Len returns the number of stored readings.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
