// Package score turns raw sensor readings into 0-100 ambience scores.
// Each factor is judged against a time-of-day-dependent optimal band and
// the sub-scores are combined into one weighted composite.
package score

import (
	"math"
	"time"

	"github.com/venuepulse/engine/internal/reading"
)

// Factor identifies one scored environmental dimension.
type Factor string

const (
	FactorSound       Factor = "sound"
	FactorLight       Factor = "light"
	FactorTemperature Factor = "temperature"
	FactorHumidity    Factor = "humidity"
)

// Band is an inclusive optimal range for a factor. Values inside the band
// score a full 100.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the band, boundaries included.
func (b Band) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// SlotBand assigns a band to a local-hour range [FromHour, ToHour).
// A slot may wrap past midnight (FromHour > ToHour).
type SlotBand struct {
	FromHour int
	ToHour   int
	Band     Band
}

func (s SlotBand) covers(hour int) bool {
	if s.FromHour <= s.ToHour {
		return hour >= s.FromHour && hour < s.ToHour
	}
	return hour >= s.FromHour || hour < s.ToHour
}

// Config is the immutable scoring table for one venue: factor weights,
// penalty rates, and per-time-slot optimal bands. Build one per venue and
// pass it around; never mutate it after construction.
type Config struct {
	// Weights must sum to 1.0 across all configured factors. Absent
	// factors are renormalized out at scoring time.
	Weights map[Factor]float64
	// Penalty is the score drop per unit of distance outside the band,
	// chosen per factor scale so comparable relative deviations cost
	// comparable points.
	Penalty map[Factor]float64
	// Bands holds the time-slot bands per factor. The last slot covering
	// the hour wins; a single slot covering 0-24 makes a factor
	// time-independent.
	Bands map[Factor][]SlotBand
}

// DefaultConfig returns the stock scoring table. Sound and light dominate
// the composite; the evening slots expect a louder, dimmer room than the
// daytime ones.
func DefaultConfig() Config {
	return Config{
		Weights: map[Factor]float64{
			FactorSound:       0.35,
			FactorLight:       0.25,
			FactorTemperature: 0.25,
			FactorHumidity:    0.15,
		},
		Penalty: map[Factor]float64{
			FactorSound:       5,    // points per dB
			FactorLight:       0.25, // points per lux
			FactorTemperature: 6,    // points per °F
			FactorHumidity:    2.5,  // points per %RH
		},
		Bands: map[Factor][]SlotBand{
			FactorSound: {
				{FromHour: 11, ToHour: 19, Band: Band{Min: 60, Max: 75}},
				{FromHour: 19, ToHour: 3, Band: Band{Min: 72, Max: 82}},
				{FromHour: 3, ToHour: 11, Band: Band{Min: 40, Max: 65}},
			},
			FactorLight: {
				{FromHour: 11, ToHour: 19, Band: Band{Min: 250, Max: 500}},
				{FromHour: 19, ToHour: 3, Band: Band{Min: 80, Max: 250}},
				{FromHour: 3, ToHour: 11, Band: Band{Min: 150, Max: 600}},
			},
			FactorTemperature: {
				{FromHour: 0, ToHour: 24, Band: Band{Min: 68, Max: 74}},
			},
			FactorHumidity: {
				{FromHour: 0, ToHour: 24, Band: Band{Min: 35, Max: 55}},
			},
		},
	}
}

// BandFor returns the optimal band for a factor at the given local hour.
func (c Config) BandFor(f Factor, hour int) (Band, bool) {
	slots, ok := c.Bands[f]
	if !ok {
		return Band{}, false
	}
	for _, s := range slots {
		if s.covers(hour) {
			return s.Band, true
		}
	}
	return Band{}, false
}

// FactorScore scores a single raw value against the factor's band for the
// given local hour: 100 inside the band, a linear penalty on the distance
// to the nearer bound outside it, floored at 0.
func (c Config) FactorScore(f Factor, value float64, hour int) int {
	band, ok := c.BandFor(f, hour)
	if !ok {
		return 0
	}
	if band.Contains(value) {
		return 100
	}
	var dist float64
	if value < band.Min {
		dist = band.Min - value
	} else {
		dist = value - band.Max
	}
	s := 100 - dist*c.Penalty[f]
	if s < 0 {
		s = 0
	}
	return int(math.Round(s))
}

// Result is a composite ambience score with its per-factor breakdown.
type Result struct {
	Composite int
	Factors   map[Factor]int
}

// Score computes the weighted composite for a reading. The local hour is
// taken from the reading's timestamp in loc. Factors the reading does not
// carry are excluded and the remaining weights renormalized to 1.0, so a
// missing sensor never drags the composite down. Returns nil when the
// reading carries no scorable factor at all.
func (c Config) Score(r reading.Reading, loc *time.Location) *Result {
	hour := r.Timestamp.In(loc).Hour()

	// Fixed accumulation order keeps the float sum bit-identical run to run.
	values := []struct {
		factor Factor
		value  *float64
	}{
		{FactorSound, r.SoundLevel},
		{FactorLight, r.LightLevel},
		{FactorTemperature, r.Temperature},
		{FactorHumidity, r.Humidity},
	}

	factors := make(map[Factor]int)
	var weightSum, weighted float64
	for _, fv := range values {
		f, v := fv.factor, fv.value
		if v == nil {
			continue
		}
		w, ok := c.Weights[f]
		if !ok || w <= 0 {
			continue
		}
		s := c.FactorScore(f, *v, hour)
		factors[f] = s
		weighted += float64(s) * w
		weightSum += w
	}

	if weightSum == 0 {
		return nil
	}

	composite := int(math.Round(weighted / weightSum))
	if composite < 0 {
		composite = 0
	}
	if composite > 100 {
		composite = 100
	}
	return &Result{Composite: composite, Factors: factors}
}
