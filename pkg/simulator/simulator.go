// Package simulator wires a loaded run through the transient, the averaged
// operating point and the report.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edp1096/toy-buck/internal/logging"
	"github.com/edp1096/toy-buck/internal/metrics"
	"github.com/edp1096/toy-buck/pkg/analysis"
	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/edp1096/toy-buck/pkg/config"
	"github.com/edp1096/toy-buck/pkg/report"
	"github.com/edp1096/toy-buck/pkg/util"
)

type Options struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics // optional
	MaxSamples int              // 0 is unlimited
	Observers  []analysis.Observer
}

type Result struct {
	Run       config.Run
	Circuit   *circuit.Circuit
	Transient *analysis.Transient
	Averaged  float64
	Report    *report.Report
	Elapsed   time.Duration
}

func Simulate(ctx context.Context, run config.Run, o Options) (*Result, error) {
	res, err := simulate(ctx, run, o)
	if err != nil && o.Metrics != nil {
		o.Metrics.RecordFailure()
	}
	return res, err
}

func simulate(ctx context.Context, run config.Run, o Options) (*Result, error) {
	logger := o.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ckt, err := circuit.New(run.Name, run.Parameters, run.Names)
	if err != nil {
		return nil, err
	}

	p := run.Parameters
	if o.MaxSamples > 0 {
		n, ok := util.StepCount(p.Duration, p.StepSize())
		if !ok {
			return nil, &circuit.ConfigError{Field: "duration", Value: p.Duration, Reason: "too many samples"}
		}
		if n > o.MaxSamples {
			return nil, &circuit.ConfigError{
				Field:  "duration",
				Value:  p.Duration,
				Reason: fmt.Sprintf("needs %d samples, limit is %d", n, o.MaxSamples),
			}
		}
	}

	observers := o.Observers
	if o.Metrics != nil {
		observers = append(observers[:len(observers):len(observers)], o.Metrics.Observer())
	}

	start := time.Now()
	tr := analysis.NewTransient(logger, observers...)
	if err := tr.Setup(ckt); err != nil {
		return nil, err
	}
	if err := tr.Execute(); err != nil {
		return nil, fmt.Errorf("transient: %w", err)
	}
	elapsed := time.Since(start)

	op := analysis.NewOP(logger)
	if err := op.Setup(ckt); err != nil {
		return nil, err
	}
	if err := op.Execute(); err != nil {
		return nil, fmt.Errorf("operating point: %w", err)
	}

	rep := report.New(run.Name, tr).WithAveraged(op.Output())
	if o.Metrics != nil {
		o.Metrics.RecordRun(run.Name, rep.Final.VOut, rep.ErrorPercent, elapsed)
	}

	logger.Info("simulation finished",
		"circuit", run.Name,
		"steps", rep.Steps,
		"vout", rep.Final.VOut,
		"ideal", rep.Ideal,
		"error_pct", rep.ErrorPercent,
		"elapsed", elapsed,
	)

	return &Result{
		Run:       run,
		Circuit:   ckt,
		Transient: tr,
		Averaged:  op.Output(),
		Report:    rep,
		Elapsed:   elapsed,
	}, nil
}

// Sweep runs the transient over a range of duty cycles.
func Sweep(ctx context.Context, run config.Run, from, to, step float64, logger *slog.Logger) (*analysis.DutySweep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ckt, err := circuit.New(run.Name, run.Parameters, run.Names)
	if err != nil {
		return nil, err
	}

	ds, err := analysis.NewDutySweep(from, to, step, logger)
	if err != nil {
		return nil, err
	}
	if err := ds.Setup(ckt); err != nil {
		return nil, err
	}
	if err := ds.Execute(); err != nil {
		return nil, fmt.Errorf("duty sweep: %w", err)
	}
	return ds, nil
}
