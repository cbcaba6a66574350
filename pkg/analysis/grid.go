package analysis

import (
	"fmt"
	"iter"

	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/edp1096/toy-buck/pkg/util"
)

// TimeGrid is the uniform sample set t_k = k*dt over [0, duration).
type TimeGrid struct {
	step  float64
	count int
}

func NewTimeGrid(duration, period float64, substeps int) (*TimeGrid, error) {
	if !util.IsFinite(duration) || duration <= 0 {
		return nil, fmt.Errorf("time grid: %w", &circuit.ConfigError{Field: "duration", Value: duration, Reason: "must be positive and finite"})
	}
	if !util.IsFinite(period) || period <= 0 {
		return nil, fmt.Errorf("time grid: %w", &circuit.ConfigError{Field: "period", Value: period, Reason: "must be positive and finite"})
	}
	if substeps < 1 {
		return nil, fmt.Errorf("time grid: %w", &circuit.ConfigError{Field: "substeps", Value: float64(substeps), Reason: "must be at least 1"})
	}

	dt := period / float64(substeps)
	if dt <= 0 {
		return nil, fmt.Errorf("time grid: %w", &circuit.ConfigError{Field: "step", Value: dt, Reason: "underflows to zero"})
	}

	count, ok := util.StepCount(duration, dt)
	if !ok {
		return nil, fmt.Errorf("time grid: %w", &circuit.ConfigError{Field: "duration", Value: duration, Reason: "too many samples"})
	}

	return &TimeGrid{step: dt, count: count}, nil
}

func (g *TimeGrid) Len() int {
	return g.count
}

func (g *TimeGrid) Step() float64 {
	return g.step
}

func (g *TimeGrid) At(k int) float64 {
	return float64(k) * g.step
}

// All yields (k, t_k) from k = 0 on every call.
func (g *TimeGrid) All() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for k := range g.count {
			if !yield(k, g.At(k)) {
				return
			}
		}
	}
}
