// Package config loads per-venue settings: identity, timezone, operating-day
// rollover, capacity, and the bounded history window the engine works over.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/venuepulse/engine/internal/clock"
)

// Venue is the deployment configuration for one venue.
type Venue struct {
	VenueID      string `yaml:"venue_id"`
	Timezone     string `yaml:"timezone"`
	RolloverHour int    `yaml:"rollover_hour"`
	Capacity     int    `yaml:"capacity"`
	// HistoryDays bounds the in-memory reading window. The engine's cost
	// is linear in history size, so this is the knob that keeps each
	// recomputation cheap.
	HistoryDays int `yaml:"history_days"`
}

// Default returns the stock configuration used when no file is given.
func Default() Venue {
	return Venue{
		VenueID:      "default",
		Timezone:     "America/New_York",
		RolloverHour: clock.DefaultRolloverHour,
		Capacity:     400,
		HistoryDays:  28,
	}
}

// Load reads a YAML venue config. Missing fields fall back to Default
// values; the result is validated before it is returned.
func Load(path string) (Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Venue{}, fmt.Errorf("read config: %w", err)
	}

	v := Default()
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Venue{}, fmt.Errorf("parse config: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Venue{}, err
	}
	return v, nil
}

// Validate checks the configuration for values the engine cannot work with.
func (v Venue) Validate() error {
	if v.RolloverHour < 0 || v.RolloverHour > 23 {
		return fmt.Errorf("rollover_hour %d out of range 0-23", v.RolloverHour)
	}
	if v.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive, got %d", v.HistoryDays)
	}
	if _, err := time.LoadLocation(v.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", v.Timezone, err)
	}
	return nil
}

// Location resolves the venue's IANA timezone.
func (v Venue) Location() (*time.Location, error) {
	return time.LoadLocation(v.Timezone)
}
