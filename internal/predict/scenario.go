package predict

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venuepulse/engine/internal/baseline"
	"github.com/venuepulse/engine/internal/reading"
	"github.com/venuepulse/engine/internal/score"
)

// Estimate is the predicted score impact of one proposed adjustment,
// derived from readings whose conditions already match the proposal.
type Estimate struct {
	ID     string
	Title  string
	Factor score.Factor
	// PredictedDelta is the expected composite-score change, in points.
	PredictedDelta float64
	// Confidence grows with the number of matching historical samples,
	// from 0 up to a cap of 1.
	Confidence      float64
	MatchingSamples int
}

// fullConfidenceSamples is how many matching samples earn confidence 1.0.
const fullConfidenceSamples = 20

func scenarioConfidence(n int) float64 {
	if n >= fullConfidenceSamples {
		return 1
	}
	return float64(n) / fullConfidenceSamples
}

// Simulate estimates the score impact of bringing each out-of-band factor
// of the current reading into its optimal band, by averaging the composite
// scores of historical readings where that factor already sat in the band.
// A fallback estimate against the best conditions ever observed is always
// included when the baseline has one.
func Simulate(history []reading.Reading, b baseline.Baseline, current reading.Reading, cfg score.Config, loc *time.Location) []Estimate {
	liveScore := cfg.Score(current, loc)
	var out []Estimate
	if liveScore == nil {
		return bestObservedFallback(b, nil, out)
	}
	cur := float64(liveScore.Composite)
	hour := current.Timestamp.In(loc).Hour()

	for _, f := range []score.Factor{score.FactorSound, score.FactorLight, score.FactorTemperature, score.FactorHumidity} {
		v := factorValue(current, f)
		if v == nil {
			continue
		}
		band, ok := cfg.BandFor(f, hour)
		if !ok || band.Contains(*v) {
			continue
		}

		sum, n := 0.0, 0
		for _, r := range history {
			hv := factorValue(r, f)
			if hv == nil || !band.Contains(*hv) {
				continue
			}
			if res := cfg.Score(r, loc); res != nil {
				sum += float64(res.Composite)
				n++
			}
		}
		if n == 0 {
			continue
		}

		out = append(out, Estimate{
			ID:              uuid.NewString(),
			Title:           fmt.Sprintf("bring %s into %g-%g", f, band.Min, band.Max),
			Factor:          f,
			PredictedDelta:  sum/float64(n) - cur,
			Confidence:      scenarioConfidence(n),
			MatchingSamples: n,
		})
	}

	return bestObservedFallback(b, &cur, out)
}

// bestObservedFallback appends the always-available estimate against the
// single best historically observed score.
func bestObservedFallback(b baseline.Baseline, cur *float64, out []Estimate) []Estimate {
	if b.Best == nil || cur == nil {
		return out
	}
	return append(out, Estimate{
		ID:              uuid.NewString(),
		Title:           "match best observed conditions",
		PredictedDelta:  float64(b.Best.Score) - *cur,
		Confidence:      scenarioConfidence(1),
		MatchingSamples: 1,
	})
}

func factorValue(r reading.Reading, f score.Factor) *float64 {
	switch f {
	case score.FactorSound:
		return r.SoundLevel
	case score.FactorLight:
		return r.LightLevel
	case score.FactorTemperature:
		return r.Temperature
	case score.FactorHumidity:
		return r.Humidity
	}
	return nil
}
