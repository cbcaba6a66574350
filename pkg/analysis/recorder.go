package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/edp1096/toy-buck/pkg/circuit"
)

// Trajectory holds one sample per grid point. All series have equal length.
// VSw[k] is the switch node voltage as it stands after step k; it is never
// rewritten by step k+1, so it can differ from plots that overwrite the
// previous sample with the next step's resolved value.
type Trajectory struct {
	Time []float64
	PWM  []float64
	IL   []float64
	VSw  []float64
	VOut []float64
}

func NewTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Time: make([]float64, 0, capacity),
		PWM:  make([]float64, 0, capacity),
		IL:   make([]float64, 0, capacity),
		VSw:  make([]float64, 0, capacity),
		VOut: make([]float64, 0, capacity),
	}
}

func (tj *Trajectory) Append(t, pwm float64, s circuit.State) {
	tj.Time = append(tj.Time, t)
	tj.PWM = append(tj.PWM, pwm)
	tj.IL = append(tj.IL, s.IL)
	tj.VSw = append(tj.VSw, s.VSw)
	tj.VOut = append(tj.VOut, s.VOut)
}

func (tj *Trajectory) Len() int {
	return len(tj.Time)
}

// Since returns the samples at or after t0. The slices share storage with tj.
func (tj *Trajectory) Since(t0 float64) *Trajectory {
	i := 0
	for i < len(tj.Time) && tj.Time[i] < t0 {
		i++
	}
	return &Trajectory{
		Time: tj.Time[i:],
		PWM:  tj.PWM[i:],
		IL:   tj.IL[i:],
		VSw:  tj.VSw[i:],
		VOut: tj.VOut[i:],
	}
}

// WriteCSV writes a header row and one row per sample.
func (tj *Trajectory) WriteCSV(w io.Writer, header []string) error {
	if len(header) != 5 {
		return fmt.Errorf("csv header needs 5 columns, got %d", len(header))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	row := make([]string, 5)
	for i := range tj.Time {
		row[0], row[1], row[2], row[3], row[4] = f(tj.Time[i]), f(tj.PWM[i]), f(tj.IL[i]), f(tj.VSw[i]), f(tj.VOut[i])
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
