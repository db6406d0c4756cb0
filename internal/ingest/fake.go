package ingest

import "github.com/venuepulse/engine/internal/reading"

// FakeSource delivers hand-crafted messages for test assertions.
type FakeSource struct {
	// SubscribeError, if set, is returned by Subscribe.
	SubscribeError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	handler MessageHandler
	onError ErrorHandler
}

// NewFakeSource creates a FakeSource for testing.
func NewFakeSource() *FakeSource {
	return &FakeSource{Connected: true}
}

// Subscribe records the handlers for later Emit calls.
func (f *FakeSource) Subscribe(h MessageHandler, onError ErrorHandler) error {
	if f.SubscribeError != nil {
		return f.SubscribeError
	}
	f.handler = h
	f.onError = onError
	return nil
}

// Emit delivers an already decoded envelope to the subscriber.
func (f *FakeSource) Emit(env reading.Envelope) {
	if f.handler != nil {
		f.handler(env)
	}
}

// EmitRaw runs a raw payload through the same decode path the real
// sources use.
func (f *FakeSource) EmitRaw(data []byte) {
	if f.handler != nil {
		dispatch(data, f.handler, f.onError)
	}
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	f.Connected = false
	return nil
}

// IsConnected reports the fake connection state.
func (f *FakeSource) IsConnected() bool {
	return f.Connected
}
