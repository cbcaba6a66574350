// Package server exposes simulations over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edp1096/toy-buck/internal/logging"
	"github.com/edp1096/toy-buck/internal/metrics"
	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/edp1096/toy-buck/pkg/config"
	"github.com/edp1096/toy-buck/pkg/plot"
	"github.com/edp1096/toy-buck/pkg/simulator"
)

const (
	maxBodyBytes      = 1 << 20
	defaultMaxSamples = 2_000_000
	chartPoints       = 5000
)

type Server struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	MaxSamples int
}

// NewHandler routes:
//
//	POST /simulate    report as JSON
//	POST /trajectory  samples as CSV
//	POST /chart       interactive HTML waveforms
//	GET  /healthz
//	GET  /metrics
//
// Request bodies are YAML or JSON run documents, or a netlist sent as text/plain.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	if s.MaxSamples == 0 {
		s.MaxSamples = defaultMaxSamples
	}

	r := chi.NewRouter()
	r.Post("/simulate", s.Simulate)
	r.Post("/trajectory", s.Trajectory)
	r.Post("/chart", s.Chart)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "ok\n")
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	return r
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) (*simulator.Result, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusRequestEntityTooLarge)
		s.Logger.Warn("request body rejected", "path", r.URL.Path, "error", err)
		return nil, false
	}

	var run config.Run
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		run, err = config.FromNetlist(string(body))
	} else {
		run, err = config.FromYAML(body)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid circuit: %v", err), http.StatusBadRequest)
		s.Logger.Warn("invalid circuit", "path", r.URL.Path, "error", err)
		return nil, false
	}
	if run.Name == "" {
		run.Name = "request"
	}

	res, err := simulator.Simulate(r.Context(), run, simulator.Options{
		Logger:     s.Logger,
		Metrics:    s.Metrics,
		MaxSamples: s.MaxSamples,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, circuit.ErrInvalidConfiguration) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Simulation error: %v", err), status)
		s.Logger.Error("simulation failed", "path", r.URL.Path, "error", err)
		return nil, false
	}
	return res, true
}

// Simulate handles POST /simulate.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res.Report); err != nil {
		s.Logger.Error("simulate response encode failed", "error", err)
	}
}

// Trajectory handles POST /trajectory.
func (s *Server) Trajectory(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	if err := res.Transient.Trajectory().WriteCSV(w, res.Transient.Header()); err != nil {
		s.Logger.Error("trajectory response failed", "error", err)
	}
}

// Chart handles POST /chart.
func (s *Server) Chart(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html")
	err := plot.WriteHTML(w, res.Transient.Trajectory(), plot.Options{Title: res.Run.Name, MaxPoints: chartPoints})
	if err != nil {
		s.Logger.Error("chart response failed", "error", err)
	}
}
