package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/venuepulse/engine/internal/baseline"
	"github.com/venuepulse/engine/internal/briefing"
	"github.com/venuepulse/engine/internal/clock"
	"github.com/venuepulse/engine/internal/config"
	"github.com/venuepulse/engine/internal/predict"
	"github.com/venuepulse/engine/internal/reconcile"
	"github.com/venuepulse/engine/internal/score"
	"github.com/venuepulse/engine/internal/status"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// ScoreJSON is the live composite score. Composite is null when no factor
// is available so the dashboard can render "--".
type ScoreJSON struct {
	Composite *int           `json:"composite"`
	Factors   map[string]int `json:"factors,omitempty"`
	AsOf      *string        `json:"as_of,omitempty"`
}

func scoreView(res *score.Result, asOf *time.Time) ScoreJSON {
	v := ScoreJSON{}
	if asOf != nil {
		s := asOf.UTC().Format(time.RFC3339)
		v.AsOf = &s
	}
	if res == nil {
		return v
	}
	c := res.Composite
	v.Composite = &c
	v.Factors = make(map[string]int, len(res.Factors))
	for f, s := range res.Factors {
		v.Factors[string(f)] = s
	}
	return v
}

// OccupancyJSON is the reconciled activity for one operating day.
type OccupancyJSON struct {
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	WindowLabel string `json:"window_label"`
	Entries     int    `json:"entries"`
	Exits       int    `json:"exits"`
	Current     int    `json:"current"`
	Capacity    int    `json:"capacity,omitempty"`
}

func occupancyView(w clock.Window, t reconcile.Totals, capacity int) OccupancyJSON {
	return OccupancyJSON{
		WindowStart: w.Start.UTC().Format(time.RFC3339),
		WindowEnd:   w.End.UTC().Format(time.RFC3339),
		WindowLabel: w.Label,
		Entries:     t.Entries,
		Exits:       t.Exits,
		Current:     t.Current,
		Capacity:    capacity,
	}
}

// HourProfileJSON is one hour-of-day baseline bucket.
type HourProfileJSON struct {
	Hour         int     `json:"hour"`
	AvgScore     float64 `json:"avg_score"`
	AvgOccupancy float64 `json:"avg_occupancy"`
	AvgSound     float64 `json:"avg_sound_level"`
	AvgLight     float64 `json:"avg_light_level"`
	Samples      int     `json:"samples"`
}

// DayProfileJSON is one day-of-week baseline bucket.
type DayProfileJSON struct {
	Weekday      string  `json:"weekday"`
	AvgScore     float64 `json:"avg_score"`
	AvgOccupancy float64 `json:"avg_occupancy"`
	PeakHour     int     `json:"peak_hour"`
	Samples      int     `json:"samples"`
}

// ConditionsJSON is a notable best/worst factor combination.
type ConditionsJSON struct {
	Timestamp   string   `json:"timestamp"`
	Score       int      `json:"score"`
	SoundLevel  *float64 `json:"sound_level,omitempty"`
	LightLevel  *float64 `json:"light_level,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// BaselineJSON is the full historical profile.
type BaselineJSON struct {
	Hours   []HourProfileJSON `json:"hours"`
	Days    []DayProfileJSON  `json:"days"`
	Best    *ConditionsJSON   `json:"best_conditions,omitempty"`
	Worst   *ConditionsJSON   `json:"worst_conditions,omitempty"`
	Samples int               `json:"samples"`
}

func baselineView(b baseline.Baseline) BaselineJSON {
	v := BaselineJSON{Samples: b.Samples}
	for h := 0; h < 24; h++ {
		p, ok := b.Hours[h]
		if !ok {
			continue
		}
		v.Hours = append(v.Hours, HourProfileJSON{
			Hour:         h,
			AvgScore:     p.AvgScore,
			AvgOccupancy: p.AvgOccupancy,
			AvgSound:     p.AvgSound,
			AvgLight:     p.AvgLight,
			Samples:      p.Samples,
		})
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		p, ok := b.Days[d]
		if !ok {
			continue
		}
		v.Days = append(v.Days, DayProfileJSON{
			Weekday:      d.String(),
			AvgScore:     p.AvgScore,
			AvgOccupancy: p.AvgOccupancy,
			PeakHour:     p.PeakHour,
			Samples:      p.Samples,
		})
	}
	v.Best = conditionsView(b.Best)
	v.Worst = conditionsView(b.Worst)
	return v
}

func conditionsView(c *baseline.Conditions) *ConditionsJSON {
	if c == nil {
		return nil
	}
	return &ConditionsJSON{
		Timestamp:   c.Timestamp.UTC().Format(time.RFC3339),
		Score:       c.Score,
		SoundLevel:  c.SoundLevel,
		LightLevel:  c.LightLevel,
		Temperature: c.Temperature,
		Humidity:    c.Humidity,
	}
}

// ForecastJSON is the expected peak. Null-bodied when there is no
// occupancy history yet.
type ForecastJSON struct {
	Weekday           string   `json:"weekday,omitempty"`
	PeakHour          *int     `json:"peak_hour"`
	ExpectedOccupancy *float64 `json:"expected_occupancy,omitempty"`
	Confidence        string   `json:"confidence,omitempty"`
	VsLastWeekPct     *float64 `json:"vs_last_week_pct,omitempty"`
	GeneratedAt       string   `json:"generated_at,omitempty"`
}

func forecastView(f *predict.PeakForecast) ForecastJSON {
	if f == nil {
		return ForecastJSON{}
	}
	hour := f.PeakHour
	occ := f.ExpectedOccupancy
	return ForecastJSON{
		Weekday:           f.Weekday.String(),
		PeakHour:          &hour,
		ExpectedOccupancy: &occ,
		Confidence:        string(f.Confidence),
		VsLastWeekPct:     f.VsLastWeekPct,
		GeneratedAt:       f.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// AlertJSON is one deviation alert.
type AlertJSON struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	Metric       string  `json:"metric"`
	DeviationPct float64 `json:"deviation_pct"`
	Baseline     float64 `json:"baseline"`
	Current      float64 `json:"current"`
	Timestamp    string  `json:"timestamp"`
	Message      string  `json:"message"`
}

func alertsView(alerts []predict.Alert) []AlertJSON {
	out := make([]AlertJSON, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertJSON{
			ID:           a.ID,
			Kind:         string(a.Kind),
			Metric:       a.Metric,
			DeviationPct: a.DeviationPct,
			Baseline:     a.Baseline,
			Current:      a.Current,
			Timestamp:    a.Timestamp.UTC().Format(time.RFC3339),
			Message:      a.Message,
		})
	}
	return out
}

// EstimateJSON is one what-if estimate.
type EstimateJSON struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Factor          string  `json:"factor,omitempty"`
	PredictedDelta  float64 `json:"predicted_delta"`
	Confidence      float64 `json:"confidence"`
	MatchingSamples int     `json:"matching_samples"`
}

func scenariosView(ests []predict.Estimate) []EstimateJSON {
	out := make([]EstimateJSON, 0, len(ests))
	for _, e := range ests {
		out = append(out, EstimateJSON{
			ID:              e.ID,
			Title:           e.Title,
			Factor:          string(e.Factor),
			PredictedDelta:  e.PredictedDelta,
			Confidence:      e.Confidence,
			MatchingSamples: e.MatchingSamples,
		})
	}
	return out
}

// BriefingJSON is the composed operational summary.
type BriefingJSON struct {
	ID          string         `json:"id"`
	VenueID     string         `json:"venue_id"`
	GeneratedAt string         `json:"generated_at"`
	Window      OccupancyJSON  `json:"occupancy"`
	Score       ScoreJSON      `json:"score"`
	Forecast    ForecastJSON   `json:"forecast"`
	Alerts      []AlertJSON    `json:"alerts"`
	Scenarios   []EstimateJSON `json:"scenarios"`
	Weather     string         `json:"weather,omitempty"`
	Calendar    []string       `json:"calendar,omitempty"`
	Headline    string         `json:"headline"`
}

func briefingView(b briefing.Briefing, venue config.Venue) BriefingJSON {
	return BriefingJSON{
		ID:          b.ID,
		VenueID:     venue.VenueID,
		GeneratedAt: b.GeneratedAt.UTC().Format(time.RFC3339),
		Window:      occupancyView(b.Window, b.Occupancy, venue.Capacity),
		Score:       scoreView(b.Score, nil),
		Forecast:    forecastView(b.Forecast),
		Alerts:      alertsView(b.Alerts),
		Scenarios:   scenariosView(b.Scenarios),
		Weather:     b.Weather,
		Calendar:    b.Calendar,
		Headline:    b.Headline,
	}
}

// StatusJSON is the daemon status envelope.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	VenueID       string     `json:"venue_id"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Broker        BrokerJSON `json:"broker"`
	Ingested      int        `json:"readings_ingested"`
	Rejected      int        `json:"readings_rejected"`
	LastReading   string     `json:"last_reading,omitempty"`
	HistoryLen    int        `json:"history_len"`
	Config        ConfigJSON `json:"config"`
}

// BrokerJSON reports broker connection state.
type BrokerJSON struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address"`
	Topic     string `json:"topic"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Timezone     string `json:"timezone"`
	RolloverHour int    `json:"rollover_hour"`
	Capacity     int    `json:"capacity"`
	HTTPAddr     string `json:"http_addr"`
	HistoryCap   int    `json:"history_cap"`
}

func statusView(snap status.Snapshot, historyLen int) StatusJSON {
	inner := StatusInner{
		VenueID:       snap.Config.VenueID,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Broker: BrokerJSON{
			Connected: snap.BrokerConnected,
			Address:   snap.Config.Broker,
			Topic:     snap.Config.Topic,
		},
		Ingested:   snap.Ingested,
		Rejected:   snap.Rejected,
		HistoryLen: historyLen,
		Config: ConfigJSON{
			Timezone:     snap.Config.Timezone,
			RolloverHour: snap.Config.RolloverHour,
			Capacity:     snap.Config.Capacity,
			HTTPAddr:     snap.Config.HTTPAddr,
			HistoryCap:   snap.Config.HistoryCap,
		},
	}
	if !snap.LastReading.IsZero() {
		inner.LastReading = snap.LastReading.UTC().Format(time.RFC3339)
	}
	return StatusJSON{Status: inner}
}
