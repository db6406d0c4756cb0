package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/venuepulse/engine/internal/baseline"
	"github.com/venuepulse/engine/internal/reading"
	"github.com/venuepulse/engine/internal/score"
)

func testLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func occAt(ts time.Time, current int) reading.Reading {
	return reading.Reading{
		Timestamp: ts,
		Occupancy: &reading.Occupancy{Current: reading.Int(current)},
	}
}

func TestConfidenceTiers(t *testing.T) {
	require.Equal(t, ConfidenceLow, confidenceForSamples(0))
	require.Equal(t, ConfidenceLow, confidenceForSamples(49))
	require.Equal(t, ConfidenceMedium, confidenceForSamples(50))
	require.Equal(t, ConfidenceMedium, confidenceForSamples(199))
	require.Equal(t, ConfidenceHigh, confidenceForSamples(200))
}

func TestPeakUsesGlobalBusiestHour(t *testing.T) {
	loc := testLoc(t)
	b := baseline.Baseline{
		Hours: map[int]baseline.HourProfile{
			20: {AvgOccupancy: 60, Samples: 10},
			22: {AvgOccupancy: 150, Samples: 10},
			23: {AvgOccupancy: 120, Samples: 10},
		},
		Samples: 30,
	}
	now := time.Date(2026, 3, 6, 12, 0, 0, 0, loc)

	f := Peak(b, nil, time.Friday, now, loc)
	require.NotNil(t, f)
	require.Equal(t, 22, f.PeakHour)
	require.InDelta(t, 150.0, f.ExpectedOccupancy, 0.001)
	require.Equal(t, ConfidenceLow, f.Confidence)
	require.Nil(t, f.VsLastWeekPct, "no history means no last-week comparison")
}

func TestPeakVsLastWeek(t *testing.T) {
	loc := testLoc(t)
	b := baseline.Baseline{
		Hours:   map[int]baseline.HourProfile{22: {AvgOccupancy: 120, Samples: 60}},
		Samples: 60,
	}
	now := time.Date(2026, 3, 13, 12, 0, 0, 0, loc) // a Friday

	history := []reading.Reading{
		// Prior Friday, peaked at 100.
		occAt(time.Date(2026, 3, 6, 22, 0, 0, 0, loc), 100),
		occAt(time.Date(2026, 3, 6, 23, 0, 0, 0, loc), 80),
		// A Saturday inside the window must not count.
		occAt(time.Date(2026, 3, 7, 22, 0, 0, 0, loc), 500),
		// A Friday outside the 7-day window must not count.
		occAt(time.Date(2026, 2, 27, 22, 0, 0, 0, loc), 500),
	}

	f := Peak(b, history, time.Friday, now, loc)
	require.NotNil(t, f)
	require.NotNil(t, f.VsLastWeekPct)
	require.InDelta(t, 20.0, *f.VsLastWeekPct, 0.001, "(120-100)/100")
}

func TestPeakNilWithoutOccupancyHistory(t *testing.T) {
	loc := testLoc(t)
	b := baseline.Baseline{Hours: map[int]baseline.HourProfile{}}
	require.Nil(t, Peak(b, nil, time.Friday, time.Now(), loc))
}

func trendBaseline() baseline.Baseline {
	return baseline.Baseline{
		Hours: map[int]baseline.HourProfile{
			21: {AvgScore: 80, AvgOccupancy: 100, Samples: 10},
		},
		Samples: 10,
	}
}

func TestDetectDeviationsOccupancyWarning(t *testing.T) {
	loc := testLoc(t)
	ts := time.Date(2026, 3, 6, 21, 30, 0, 0, loc)
	cur := occAt(ts, 50) // 50% below a baseline of 100

	alerts := DetectDeviations(trendBaseline(), cur, nil, loc, DefaultTrendConfig())
	require.Len(t, alerts, 1)
	a := alerts[0]
	require.Equal(t, AlertWarning, a.Kind)
	require.Equal(t, "occupancy", a.Metric)
	require.InDelta(t, -50.0, a.DeviationPct, 0.001)
	require.InDelta(t, 100.0, a.Baseline, 0.001)
	require.InDelta(t, 50.0, a.Current, 0.001)
	require.True(t, a.Timestamp.Equal(ts))
	require.NotEmpty(t, a.ID)
}

func TestDetectDeviationsOccupancyOpportunity(t *testing.T) {
	loc := testLoc(t)
	cur := occAt(time.Date(2026, 3, 6, 21, 30, 0, 0, loc), 170)

	alerts := DetectDeviations(trendBaseline(), cur, nil, loc, DefaultTrendConfig())
	require.Len(t, alerts, 1)
	require.Equal(t, AlertOpportunity, alerts[0].Kind)
	require.InDelta(t, 70.0, alerts[0].DeviationPct, 0.001)
}

func TestDetectDeviationsScoreWarning(t *testing.T) {
	loc := testLoc(t)
	cur := reading.Reading{Timestamp: time.Date(2026, 3, 6, 21, 30, 0, 0, loc)}
	live := &score.Result{Composite: 40} // 50% below a baseline of 80

	alerts := DetectDeviations(trendBaseline(), cur, live, loc, DefaultTrendConfig())
	require.Len(t, alerts, 1)
	require.Equal(t, AlertWarning, alerts[0].Kind)
	require.Equal(t, "score", alerts[0].Metric)
	require.InDelta(t, -50.0, alerts[0].DeviationPct, 0.001)
}

func TestDetectDeviationsWithinThresholds(t *testing.T) {
	loc := testLoc(t)
	cur := occAt(time.Date(2026, 3, 6, 21, 30, 0, 0, loc), 90)
	live := &score.Result{Composite: 75}

	alerts := DetectDeviations(trendBaseline(), cur, live, loc, DefaultTrendConfig())
	require.Empty(t, alerts)
}

func TestDetectDeviationsThinBucketSuppressed(t *testing.T) {
	loc := testLoc(t)
	b := baseline.Baseline{
		Hours: map[int]baseline.HourProfile{
			21: {AvgScore: 80, AvgOccupancy: 100, Samples: 2},
		},
	}
	cur := occAt(time.Date(2026, 3, 6, 21, 30, 0, 0, loc), 10)

	alerts := DetectDeviations(b, cur, nil, loc, DefaultTrendConfig())
	require.Empty(t, alerts, "buckets under MinSamples must stay silent")
}

func TestDetectDeviationsMissingBucket(t *testing.T) {
	loc := testLoc(t)
	cur := occAt(time.Date(2026, 3, 6, 4, 0, 0, 0, loc), 10)
	require.Empty(t, DetectDeviations(trendBaseline(), cur, nil, loc, DefaultTrendConfig()))
}

func TestScenarioConfidenceMonotonic(t *testing.T) {
	prev := -1.0
	for n := 0; n <= 30; n++ {
		c := scenarioConfidence(n)
		require.GreaterOrEqual(t, c, prev, "confidence must not decrease with samples")
		require.LessOrEqual(t, c, 1.0)
		prev = c
	}
	require.Equal(t, 1.0, scenarioConfidence(fullConfidenceSamples))
}

func TestSimulateOutOfBandFactor(t *testing.T) {
	loc := testLoc(t)
	cfg := score.DefaultConfig()
	ts := time.Date(2026, 3, 6, 21, 0, 0, 0, loc)

	// Current: sound way over the evening band, so composite is low.
	current := reading.Reading{Timestamp: ts, SoundLevel: reading.Float(95)}

	// History: several readings with in-band sound and perfect scores.
	var history []reading.Reading
	for d := 1; d <= 10; d++ {
		history = append(history, reading.Reading{
			Timestamp:  time.Date(2026, 2, d, 21, 0, 0, 0, loc),
			SoundLevel: reading.Float(76),
		})
	}
	b := baseline.Builder{Scorer: cfg, Location: loc}.Build(history)

	ests := Simulate(history, b, current, cfg, loc)
	require.NotEmpty(t, ests)

	var sound *Estimate
	for i := range ests {
		if ests[i].Factor == score.FactorSound {
			sound = &ests[i]
		}
	}
	require.NotNil(t, sound, "expected a sound scenario")
	require.Equal(t, 10, sound.MatchingSamples)
	// Current composite is 35 (13 dB over), matches average 100.
	require.InDelta(t, 65.0, sound.PredictedDelta, 0.001)
	require.InDelta(t, 0.5, sound.Confidence, 0.001)
}

func TestSimulateSkipsInBandFactors(t *testing.T) {
	loc := testLoc(t)
	cfg := score.DefaultConfig()
	ts := time.Date(2026, 3, 6, 21, 0, 0, 0, loc)
	current := reading.Reading{Timestamp: ts, SoundLevel: reading.Float(76)}

	history := []reading.Reading{
		{Timestamp: ts.Add(-24 * time.Hour), SoundLevel: reading.Float(74)},
	}
	b := baseline.Builder{Scorer: cfg, Location: loc}.Build(history)

	ests := Simulate(history, b, current, cfg, loc)
	for _, e := range ests {
		require.NotEqual(t, score.FactorSound, e.Factor, "in-band factor needs no scenario")
	}
}

func TestSimulateBestObservedFallback(t *testing.T) {
	loc := testLoc(t)
	cfg := score.DefaultConfig()
	ts := time.Date(2026, 3, 6, 21, 0, 0, 0, loc)
	current := reading.Reading{Timestamp: ts, SoundLevel: reading.Float(95)} // composite 35

	history := []reading.Reading{
		{Timestamp: ts.Add(-48 * time.Hour), SoundLevel: reading.Float(76)}, // composite 100
	}
	b := baseline.Builder{Scorer: cfg, Location: loc}.Build(history)

	ests := Simulate(history, b, current, cfg, loc)
	require.NotEmpty(t, ests)
	last := ests[len(ests)-1]
	require.Equal(t, "match best observed conditions", last.Title)
	require.InDelta(t, 65.0, last.PredictedDelta, 0.001)
}

func TestSimulateNoScoreableCurrent(t *testing.T) {
	loc := testLoc(t)
	cfg := score.DefaultConfig()
	current := reading.Reading{Timestamp: time.Date(2026, 3, 6, 21, 0, 0, 0, loc)}
	b := baseline.Baseline{Best: &baseline.Conditions{Score: 100}}

	ests := Simulate(nil, b, current, cfg, loc)
	require.Empty(t, ests, "nothing to estimate against without a live score")
}
