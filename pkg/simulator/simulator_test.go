package simulator

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-buck/internal/metrics"
	"github.com/edp1096/toy-buck/pkg/analysis"
	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/edp1096/toy-buck/pkg/config"
)

func shortRun() config.Run {
	run := config.Reference()
	run.Parameters.Duration = 1e-3
	return run
}

func TestSimulate(t *testing.T) {
	m := metrics.New()
	steps := 0
	obs := analysis.ObserverFunc(func(float64, circuit.State, circuit.Decision) { steps++ })

	res, err := Simulate(context.Background(), shortRun(), Options{Metrics: m, Observers: []analysis.Observer{obs}})
	require.NoError(t, err)

	assert.Equal(t, 4000, steps)
	assert.Equal(t, 4000, res.Report.Steps)
	assert.InEpsilon(t, 8.2052137, res.Report.Final.VOut, 1e-3)
	require.NotNil(t, res.Report.Averaged)
	assert.InDelta(t, 4.38*50/50.13, *res.Report.Averaged, 1e-9)
	count, err := testutil.GatherAndCount(m.Registry, "buck_final_vout_volts")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSimulateRejects(t *testing.T) {
	m := metrics.New()

	run := shortRun()
	run.Parameters.Duty = 2
	_, err := Simulate(context.Background(), run, Options{Metrics: m})
	assert.ErrorIs(t, err, circuit.ErrInvalidConfiguration)

	_, err = Simulate(context.Background(), shortRun(), Options{MaxSamples: 100})
	assert.ErrorIs(t, err, circuit.ErrInvalidConfiguration)

	huge := shortRun()
	huge.Parameters.Duration = 1e300
	for _, limit := range []int{0, 2_000_000} {
		_, err = Simulate(context.Background(), huge, Options{Metrics: m, MaxSamples: limit})
		assert.ErrorIs(t, err, circuit.ErrInvalidConfiguration, "limit=%d", limit)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Simulate(ctx, shortRun(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep(t *testing.T) {
	run := shortRun()
	run.Parameters.Duration = 3e-4

	ds, err := Sweep(context.Background(), run, 0.3, 0.5, 0.1, nil)
	require.NoError(t, err)
	assert.Len(t, ds.Points(), 3)

	_, err = Sweep(context.Background(), run, 0.5, 0.3, 0.1, nil)
	assert.Error(t, err)
}
