// Package web serves the engine's outputs as JSON for the dashboard. Every
// endpoint recomputes its answer from the current history snapshot; the
// engine itself holds no state between requests.
package web

import (
	"context"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/venuepulse/engine/internal/baseline"
	"github.com/venuepulse/engine/internal/briefing"
	"github.com/venuepulse/engine/internal/clock"
	"github.com/venuepulse/engine/internal/config"
	"github.com/venuepulse/engine/internal/ingest"
	"github.com/venuepulse/engine/internal/predict"
	"github.com/venuepulse/engine/internal/reading"
	"github.com/venuepulse/engine/internal/reconcile"
	"github.com/venuepulse/engine/internal/score"
	"github.com/venuepulse/engine/internal/status"
)

// Server exposes the analytics API over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	history    *ingest.History
	venue      config.Venue
	loc        *time.Location
	scorer     score.Config
	trend      predict.TrendConfig
	reconciler reconcile.Reconciler

	// now is injectable for tests.
	now func() time.Time
}

// New creates a Server reading state from the given history and tracker.
func New(addr string, venue config.Venue, loc *time.Location, history *ingest.History, tracker *status.Tracker) *Server {
	s := &Server{
		tracker: tracker,
		history: history,
		venue:   venue,
		loc:     loc,
		scorer:  score.DefaultConfig(),
		trend:   predict.DefaultTrendConfig(),
		now:     time.Now,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/score", s.handleScore).Methods(http.MethodGet)
	api.HandleFunc("/occupancy", s.handleOccupancy).Methods(http.MethodGet)
	api.HandleFunc("/baseline", s.handleBaseline).Methods(http.MethodGet)
	api.HandleFunc("/forecast", s.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/alerts", s.handleAlerts).Methods(http.MethodGet)
	api.HandleFunc("/scenarios", s.handleScenarios).Methods(http.MethodGet)
	api.HandleFunc("/briefing", s.handleBriefing).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: handlers.LoggingHandler(os.Stdout, r),
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the configured HTTP handler. Useful for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) buildBaseline(rs []reading.Reading) baseline.Baseline {
	return baseline.Builder{Scorer: s.scorer, Location: s.loc}.Build(rs)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.history.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, scoreView(nil, nil))
		return
	}
	res := s.scorer.Score(latest, s.loc)
	writeJSON(w, http.StatusOK, scoreView(res, &latest.Timestamp))
}

func (s *Server) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	window := clock.CurrentWindow(now, s.loc, s.venue.RolloverHour)
	totals := s.reconciler.WindowTotals(s.history.Readings(), window)
	writeJSON(w, http.StatusOK, occupancyView(window, totals, s.venue.Capacity))
}

func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	b := s.buildBaseline(s.history.Readings())
	writeJSON(w, http.StatusOK, baselineView(b))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	rs := s.history.Readings()
	b := s.buildBaseline(rs)
	f := predict.Peak(b, rs, now.In(s.loc).Weekday(), now, s.loc)
	writeJSON(w, http.StatusOK, forecastView(f))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	rs := s.history.Readings()
	b := s.buildBaseline(rs)

	var alerts []predict.Alert
	if latest, ok := s.history.Latest(); ok {
		live := s.scorer.Score(latest, s.loc)
		alerts = predict.DetectDeviations(b, latest, live, s.loc, s.trend)
	}
	writeJSON(w, http.StatusOK, alertsView(alerts))
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	rs := s.history.Readings()
	b := s.buildBaseline(rs)

	var ests []predict.Estimate
	if latest, ok := s.history.Latest(); ok {
		ests = predict.Simulate(rs, b, latest, s.scorer, s.loc)
	}
	writeJSON(w, http.StatusOK, scenariosView(ests))
}

func (s *Server) handleBriefing(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	rs := s.history.Readings()
	b := s.buildBaseline(rs)
	window := clock.CurrentWindow(now, s.loc, s.venue.RolloverHour)
	totals := s.reconciler.WindowTotals(rs, window)

	var live *score.Result
	var alerts []predict.Alert
	var ests []predict.Estimate
	if latest, ok := s.history.Latest(); ok {
		live = s.scorer.Score(latest, s.loc)
		alerts = predict.DetectDeviations(b, latest, live, s.loc, s.trend)
		ests = predict.Simulate(rs, b, latest, s.scorer, s.loc)
	}
	forecast := predict.Peak(b, rs, now.In(s.loc).Weekday(), now, s.loc)

	ctx := briefing.Context{Weather: r.URL.Query().Get("weather")}
	if cal := r.URL.Query().Get("calendar"); cal != "" {
		ctx.Calendar = strings.Split(cal, ",")
	}

	brief := briefing.Compose(now, window, live, totals, forecast, alerts, ests, ctx)
	writeJSON(w, http.StatusOK, briefingView(brief, s.venue))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusView(s.tracker.Snapshot(), s.history.Len()))
}
