// Package report summarizes a finished run against the ideal Vin*D output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/edp1096/toy-buck/pkg/analysis"
	"github.com/edp1096/toy-buck/pkg/circuit"
)

type Final struct {
	VOut float64 `json:"vout"`
	IL   float64 `json:"il"`
	VSw  float64 `json:"vsw"`
}

// Ripple is the min/max over the last switching period.
type Ripple struct {
	VOutMin float64 `json:"vout_min"`
	VOutMax float64 `json:"vout_max"`
	ILMin   float64 `json:"il_min"`
	ILMax   float64 `json:"il_max"`
}

// Switching is the gate drive timing.
type Switching struct {
	Frequency float64 `json:"frequency"`
	OnTime    float64 `json:"on_time"`
}

type Report struct {
	Name         string             `json:"name"`
	Parameters   circuit.Parameters `json:"parameters"`
	Steps        int                `json:"steps"`
	StepSize     float64            `json:"step_size"`
	Switching    Switching          `json:"switching"`
	Final        Final              `json:"final"`
	Ideal        float64            `json:"ideal"`
	ErrorPercent float64            `json:"error_percent"`
	Averaged     *float64           `json:"averaged,omitempty"`
	Ripple       Ripple             `json:"ripple"`
	Modes        map[string]int     `json:"modes"`
}

func New(name string, tr *analysis.Transient) *Report {
	final := tr.Final()
	drive := tr.Circuit.Drive

	r := &Report{
		Name:         name,
		Parameters:   tr.Circuit.Parameters(),
		Steps:        final.Index,
		StepSize:     tr.Grid().Step(),
		Switching:    Switching{Frequency: drive.Frequency(), OnTime: drive.OnTime()},
		Final:        Final{VOut: final.VOut, IL: final.IL, VSw: final.VSw},
		Ideal:        tr.Predicted(),
		ErrorPercent: ErrorPercent(final.VOut, tr.Predicted()),
		Ripple:       ripple(tr.Trajectory(), drive.Period),
		Modes:        make(map[string]int, len(circuit.Modes)),
	}
	for m, n := range tr.ModeCounts() {
		r.Modes[m.String()] = n
	}
	return r
}

// WithAveraged adds the averaged-model output for comparison.
func (r *Report) WithAveraged(v float64) *Report {
	r.Averaged = &v
	return r
}

// ErrorPercent is |v - ideal| / ideal in percent, or 0 when ideal is 0.
func ErrorPercent(v, ideal float64) float64 {
	if ideal == 0 {
		return 0
	}
	return math.Abs((v-ideal)/ideal) * 100
}

func ripple(tj *analysis.Trajectory, period float64) Ripple {
	if tj == nil || tj.Len() == 0 {
		return Ripple{}
	}

	last := tj.Time[tj.Len()-1]
	tail := tj.Since(last - period)

	rp := Ripple{
		VOutMin: math.Inf(1), VOutMax: math.Inf(-1),
		ILMin: math.Inf(1), ILMax: math.Inf(-1),
	}
	for i := range tail.Time {
		rp.VOutMin = math.Min(rp.VOutMin, tail.VOut[i])
		rp.VOutMax = math.Max(rp.VOutMax, tail.VOut[i])
		rp.ILMin = math.Min(rp.ILMin, tail.IL[i])
		rp.ILMax = math.Max(rp.ILMax, tail.IL[i])
	}
	return rp
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
