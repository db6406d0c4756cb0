package ingest

import (
	"errors"
	"testing"

	"github.com/venuepulse/engine/internal/reading"
)

func TestTopicForVenue(t *testing.T) {
	if got := TopicForVenue("parlaylp"); got != "pulse/sensors/parlaylp" {
		t.Errorf("topic = %q", got)
	}
}

func TestFakeSourceDelivery(t *testing.T) {
	f := NewFakeSource()
	var got []reading.Envelope
	if err := f.Subscribe(func(env reading.Envelope) { got = append(got, env) }, nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	f.Emit(reading.Envelope{VenueID: "parlaylp"})
	if len(got) != 1 || got[0].VenueID != "parlaylp" {
		t.Errorf("delivered = %+v", got)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed || f.IsConnected() {
		t.Error("Close should mark the source closed and disconnected")
	}
}

func TestDispatchDropsMalformed(t *testing.T) {
	f := NewFakeSource()
	var delivered int
	var errs []error
	err := f.Subscribe(
		func(reading.Envelope) { delivered++ },
		func(err error) { errs = append(errs, err) },
	)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	f.EmitRaw([]byte(`{"timestamp": "2026-03-01T21:00:00Z", "sensors": {"sound_level": 70}}`))
	f.EmitRaw([]byte(`{"timestamp": "not a time"}`))
	f.EmitRaw([]byte(`{"timestamp": "2026-03-01T21:05:00Z"}`))

	if delivered != 2 {
		t.Errorf("delivered = %d, want 2", delivered)
	}
	if len(errs) != 1 || !errors.Is(errs[0], reading.ErrMalformed) {
		t.Errorf("errors = %v, want one ErrMalformed", errs)
	}
}

func TestFakeSourceSubscribeError(t *testing.T) {
	f := NewFakeSource()
	f.SubscribeError = errors.New("broker down")
	if err := f.Subscribe(func(reading.Envelope) {}, nil); err == nil {
		t.Error("expected Subscribe to fail")
	}
}
