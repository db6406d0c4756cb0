package ingest

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSource subscribes to the venue's sensor topic on an MQTT broker.
// The Raspberry Pi publishers use `pulse/sensors/<venue>`.
type MQTTSource struct {
	client paho.Client
	topic  string
}

// TopicForVenue returns the sensor topic the publishers use for a venue.
func TopicForVenue(venueID string) string {
	return "pulse/sensors/" + venueID
}

// NewMQTTSource connects to the broker and prepares a subscription on the
// given topic.
func NewMQTTSource(broker, clientID, topic string) (*MQTTSource, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &MQTTSource{client: client, topic: topic}, nil
}

// Subscribe registers the handler for incoming sensor messages at QoS 1.
func (s *MQTTSource) Subscribe(h MessageHandler, onError ErrorHandler) error {
	token := s.client.Subscribe(s.topic, 1, func(_ paho.Client, msg paho.Message) {
		dispatch(msg.Payload(), h, onError)
	})
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("subscribe timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.topic, err)
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (s *MQTTSource) Close() error {
	s.client.Disconnect(250)
	return nil
}

// IsConnected reports the broker connection state.
func (s *MQTTSource) IsConnected() bool {
	return s.client.IsConnected()
}
