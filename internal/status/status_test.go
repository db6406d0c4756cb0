package status

import (
	"sync"
	"testing"
	"time"
)

func TestTrackerCounts(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{VenueID: "parlaylp", Broker: "tcp://broker:1883"})

	at := start.Add(time.Minute)
	tr.RecordReading(at)
	tr.RecordReading(at.Add(15 * time.Second))
	tr.RecordRejected()
	tr.SetBrokerConnected(true)

	snap := tr.Snapshot()
	if snap.Ingested != 2 {
		t.Errorf("Ingested = %d", snap.Ingested)
	}
	if snap.Rejected != 1 {
		t.Errorf("Rejected = %d", snap.Rejected)
	}
	if !snap.LastReading.Equal(at.Add(15 * time.Second)) {
		t.Errorf("LastReading = %v", snap.LastReading)
	}
	if !snap.BrokerConnected {
		t.Error("BrokerConnected should be true")
	}
	if snap.Config.VenueID != "parlaylp" {
		t.Errorf("config lost: %+v", snap.Config)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	snap := tr.Snapshot()
	snap.Ingested = 99

	if tr.Snapshot().Ingested != 0 {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}

func TestUptime(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("Uptime = %v", snap.Uptime())
	}
}

func TestTrackerConcurrentWriters(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				tr.RecordReading(time.Now())
				tr.RecordRejected()
				tr.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := tr.Snapshot()
	if snap.Ingested != 400 || snap.Rejected != 400 {
		t.Errorf("counts = %d/%d, want 400/400", snap.Ingested, snap.Rejected)
	}
}
