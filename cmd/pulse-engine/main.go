// Command pulse-engine ingests venue sensor telemetry from a broker and
// serves ambience analytics over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/venuepulse/engine/internal/config"
	"github.com/venuepulse/engine/internal/ingest"
	"github.com/venuepulse/engine/internal/reading"
	"github.com/venuepulse/engine/internal/status"
	"github.com/venuepulse/engine/internal/web"
)

// publishInterval is how often the Raspberry Pi publishers send a sample.
// Used to size the history ring from the configured day window.
const publishInterval = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to venue YAML config (empty for defaults)")
	source := flag.String("source", "mqtt", `Telemetry source: "mqtt" or "kafka"`)
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	topic := flag.String("topic", "", "MQTT topic (empty derives pulse/sensors/<venue>)")
	kafkaBrokers := flag.String("kafka-brokers", "localhost:9092", "Comma-separated Kafka brokers")
	kafkaTopic := flag.String("kafka-topic", "pulse.sensors", "Kafka topic")
	kafkaGroup := flag.String("kafka-group", "pulse-engine", "Kafka consumer group")
	httpAddr := flag.String("http", ":8080", "HTTP API address")

	flag.Parse()

	if err := run(*configPath, *source, *broker, *topic, *kafkaBrokers, *kafkaTopic, *kafkaGroup, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(configPath, sourceKind, broker, topic, kafkaBrokers, kafkaTopic, kafkaGroup, httpAddr string) error {
	venue := config.Default()
	if configPath != "" {
		v, err := config.Load(configPath)
		if err != nil {
			return err
		}
		venue = v
	}
	loc, err := venue.Location()
	if err != nil {
		return fmt.Errorf("resolve timezone: %w", err)
	}

	topic = resolveTopic(topic, venue.VenueID)
	capacity := historyCapacity(venue.HistoryDays)
	history := ingest.NewHistory(capacity)

	tracker := status.NewTracker(time.Now(), status.Config{
		VenueID:      venue.VenueID,
		Timezone:     venue.Timezone,
		RolloverHour: venue.RolloverHour,
		Capacity:     venue.Capacity,
		Broker:       brokerLabel(sourceKind, broker, kafkaBrokers),
		Topic:        topicLabel(sourceKind, topic, kafkaTopic),
		HTTPAddr:     httpAddr,
		HistoryCap:   capacity,
	})

	src, connStatus, err := buildSource(sourceKind, broker, topic, kafkaBrokers, kafkaTopic, kafkaGroup, venue.VenueID)
	if err != nil {
		return err
	}
	defer src.Close()

	err = src.Subscribe(
		func(env reading.Envelope) {
			history.Add(env.Reading)
			tracker.RecordReading(env.Reading.Timestamp)
		},
		func(err error) {
			tracker.RecordRejected()
			log.Printf("ingest: %v", err)
		},
	)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	tracker.SetBrokerConnected(connStatus.IsConnected())

	srv := web.New(httpAddr, venue, loc, history, tracker)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	defer srv.Shutdown(context.Background())
	log.Printf("started: venue=%s source=%s http=%s history=%d tz=%s rollover=%02d:00",
		venue.VenueID, sourceKind, httpAddr, capacity, venue.Timezone, venue.RolloverHour)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Refresh the broker connection flag until shutdown.
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case s := <-sigCh:
			log.Printf("received %v, shutting down", s)
			return nil
		case <-ticker.C:
			tracker.SetBrokerConnected(connStatus.IsConnected())
		}
	}
}

// buildSource wires the requested telemetry source.
func buildSource(kind, broker, topic, kafkaBrokers, kafkaTopic, kafkaGroup, venueID string) (ingest.Source, ingest.ConnectionStatus, error) {
	switch kind {
	case "mqtt":
		src, err := ingest.NewMQTTSource(broker, "pulse-engine-"+venueID, topic)
		if err != nil {
			return nil, nil, fmt.Errorf("init mqtt: %w", err)
		}
		return src, src, nil
	case "kafka":
		src := ingest.NewKafkaSource(splitBrokers(kafkaBrokers), kafkaTopic, kafkaGroup)
		return src, src, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q", kind)
	}
}

// resolveTopic derives the MQTT topic from the venue when none is given.
func resolveTopic(topic, venueID string) string {
	if topic != "" {
		return topic
	}
	return ingest.TopicForVenue(venueID)
}

// historyCapacity sizes the ring for the configured day window at the
// publishers' sample rate.
func historyCapacity(days int) int {
	perDay := int(24 * time.Hour / publishInterval)
	return days * perDay
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func brokerLabel(kind, broker, kafkaBrokers string) string {
	if kind == "kafka" {
		return kafkaBrokers
	}
	return broker
}

func topicLabel(kind, topic, kafkaTopic string) string {
	if kind == "kafka" {
		return kafkaTopic
	}
	return topic
}
