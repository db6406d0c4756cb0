// Package ingest receives venue telemetry from a broker and materializes
// it into a bounded in-memory history. The analytics packages never touch
// a broker; they see only reading slices handed out by History.
package ingest

import (
	"log"

	"github.com/venuepulse/engine/internal/reading"
)

// MessageHandler receives each successfully decoded telemetry message.
type MessageHandler func(env reading.Envelope)

// ErrorHandler receives decode and transport errors. May be nil.
type ErrorHandler func(err error)

// Source delivers telemetry messages from a broker.
type Source interface {
	// Subscribe starts delivery. Malformed payloads are reported to
	// onError and dropped; they never reach the handler.
	Subscribe(h MessageHandler, onError ErrorHandler) error

	// Close stops delivery and releases the broker connection.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// dispatch decodes one raw payload and routes it. Shared by all sources so
// a single malformed message is dropped identically everywhere.
func dispatch(data []byte, h MessageHandler, onError ErrorHandler) {
	env, err := reading.Decode(data)
	if err != nil {
		if onError != nil {
			onError(err)
		} else {
			log.Printf("ingest: dropping message: %v", err)
		}
		return
	}
	h(env)
}
