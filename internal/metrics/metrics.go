package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edp1096/toy-buck/pkg/analysis"
	"github.com/edp1096/toy-buck/pkg/circuit"
)

// Metrics is a private registry with the simulator's collectors.
type Metrics struct {
	Registry *prometheus.Registry

	steps     *prometheus.CounterVec
	runs      *prometheus.CounterVec
	finalVOut *prometheus.GaugeVec
	errorPct  *prometheus.GaugeVec
	runTime   prometheus.Histogram

	modeSteps map[circuit.Mode]prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buck_steps_total",
				Help: "Integration steps by conduction mode",
			},
			[]string{"mode"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buck_runs_total",
				Help: "Simulation runs by outcome",
			},
			[]string{"outcome"},
		),
		finalVOut: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "buck_final_vout_volts",
				Help: "Output voltage at the end of the last run",
			},
			[]string{"circuit"},
		),
		errorPct: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "buck_vout_error_percent",
				Help: "Deviation of the final output voltage from Vin*D",
			},
			[]string{"circuit"},
		),
		runTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "buck_run_duration_seconds",
				Help:    "Wall time of one transient run",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
	}
	m.Registry.MustRegister(m.steps, m.runs, m.finalVOut, m.errorPct, m.runTime)

	m.modeSteps = make(map[circuit.Mode]prometheus.Counter, len(circuit.Modes))
	for _, mode := range circuit.Modes {
		m.modeSteps[mode] = m.steps.WithLabelValues(mode.String())
	}
	return m
}

// Observer counts steps per mode.
func (m *Metrics) Observer() analysis.Observer {
	return analysis.ObserverFunc(func(_ float64, _ circuit.State, d circuit.Decision) {
		m.modeSteps[d.Mode].Inc()
	})
}

func (m *Metrics) RecordRun(name string, vout, errPct float64, elapsed time.Duration) {
	m.runs.WithLabelValues("ok").Inc()
	m.finalVOut.WithLabelValues(name).Set(vout)
	m.errorPct.WithLabelValues(name).Set(errPct)
	m.runTime.Observe(elapsed.Seconds())
}

func (m *Metrics) RecordFailure() {
	m.runs.WithLabelValues("error").Inc()
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
