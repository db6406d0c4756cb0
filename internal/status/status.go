// Package status provides a thread-safe status tracker for the pulse-engine
// daemon. Ingest goroutines write to it; HTTP handlers read from it.
package status

import (
	"sync"
	"time"
)

// Config contains daemon configuration for display.
type Config struct {
	VenueID      string
	Timezone     string
	RolloverHour int
	Capacity     int
	Broker       string
	Topic        string
	HTTPAddr     string
	HistoryCap   int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Ingested        int
	Rejected        int
	LastReading     time.Time
	BrokerConnected bool
	StartTime       time.Time
	Now             time.Time
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordReading counts one accepted reading and stamps its arrival time.
func (t *Tracker) RecordReading(at time.Time) {
	t.mu.Lock()
	t.snap.Ingested++
	t.snap.LastReading = at
	t.mu.Unlock()
}

// RecordRejected counts one dropped malformed message.
func (t *Tracker) RecordRejected() {
	t.mu.Lock()
	t.snap.Rejected++
	t.mu.Unlock()
}

// SetBrokerConnected sets the broker connection status.
func (t *Tracker) SetBrokerConnected(connected bool) {
	t.mu.Lock()
	t.snap.BrokerConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
