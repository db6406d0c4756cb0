package reading

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// The wire format matches the Raspberry Pi publishers: a JSON envelope with
// venue/device identity, a sensors block, and an optional occupancy block.

// Envelope is a decoded telemetry message including device identity.
type Envelope struct {
	VenueID  string
	DeviceID string
	Reading  Reading
}

type wirePayload struct {
	VenueID   string         `json:"venue_id"`
	DeviceID  string         `json:"device_id"`
	Timestamp string         `json:"timestamp"`
	Sensors   *wireSensors   `json:"sensors"`
	Occupancy *wireOccupancy `json:"occupancy"`
}

type wireSensors struct {
	SoundLevel  *float64 `json:"sound_level"`
	LightLevel  *float64 `json:"light_level"`
	IndoorTemp  *float64 `json:"indoor_temperature"`
	OutdoorTemp *float64 `json:"outdoor_temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
}

type wireOccupancy struct {
	Current  *int `json:"current"`
	Entries  *int `json:"entries"`
	Exits    *int `json:"exits"`
	Capacity *int `json:"capacity"`
}

// ErrMalformed is returned when a payload cannot be turned into a valid
// Reading. A malformed message is dropped by the ingest layer; it must
// never reach the analytics packages.
var ErrMalformed = errors.New("malformed telemetry payload")

// timestamp formats seen from the publishers: RFC3339 with and without a
// zone suffix (datetime.isoformat() omits the zone).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrMalformed, s)
}

// Decode parses a publisher payload into an Envelope. It rejects payloads
// with unparseable timestamps or negative cumulative counters so that one
// bad message cannot corrupt window aggregates downstream.
func Decode(data []byte) (Envelope, error) {
	var wp wirePayload
	if err := json.Unmarshal(data, &wp); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if wp.Timestamp == "" {
		return Envelope{}, fmt.Errorf("%w: missing timestamp", ErrMalformed)
	}
	ts, err := parseTimestamp(wp.Timestamp)
	if err != nil {
		return Envelope{}, err
	}

	r := Reading{Timestamp: ts}
	if wp.Sensors != nil {
		r.SoundLevel = wp.Sensors.SoundLevel
		r.LightLevel = wp.Sensors.LightLevel
		r.Temperature = wp.Sensors.IndoorTemp
		r.Humidity = wp.Sensors.Humidity
	}
	if wp.Occupancy != nil {
		occ := &Occupancy{Current: wp.Occupancy.Current}
		if wp.Occupancy.Entries != nil {
			occ.CumulativeEntries = *wp.Occupancy.Entries
		}
		if wp.Occupancy.Exits != nil {
			occ.CumulativeExits = *wp.Occupancy.Exits
		}
		if occ.CumulativeEntries < 0 || occ.CumulativeExits < 0 {
			return Envelope{}, fmt.Errorf("%w: negative cumulative counter", ErrMalformed)
		}
		r.Occupancy = occ
	}

	return Envelope{VenueID: wp.VenueID, DeviceID: wp.DeviceID, Reading: r}, nil
}
