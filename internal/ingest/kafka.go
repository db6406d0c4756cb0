package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSource reads venue telemetry from a Kafka topic, for deployments
// that bridge device MQTT traffic into Kafka instead of exposing the
// broker directly.
type KafkaSource struct {
	reader  *kafka.Reader
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
}

// NewKafkaSource prepares a consumer for the given brokers and topic.
// GroupID may be empty for a standalone consumer.
func NewKafkaSource(brokers []string, topic, groupID string) *KafkaSource {
	return &KafkaSource{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		}),
		done: make(chan struct{}),
	}
}

// Subscribe starts a consume loop in a goroutine. Transport errors are
// reported to onError and the loop keeps going until Close.
func (s *KafkaSource) Subscribe(h MessageHandler, onError ErrorHandler) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running.Store(true)

	go func() {
		defer close(s.done)
		defer s.running.Store(false)
		for {
			msg, err := s.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if onError != nil {
					onError(err)
				}
				continue
			}
			dispatch(msg.Value, h, onError)
		}
	}()
	return nil
}

// Close stops the consume loop and closes the reader.
func (s *KafkaSource) Close() error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	return s.reader.Close()
}

// IsConnected reports whether the consume loop is running.
func (s *KafkaSource) IsConnected() bool {
	return s.running.Load()
}
