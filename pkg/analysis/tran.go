package analysis

import (
	"fmt"
	"log/slog"

	"github.com/edp1096/toy-buck/pkg/circuit"
)

// Longer runs grow the trajectory by append.
const maxPrealloc = 1 << 22

// Observer sees every step after it is integrated.
type Observer interface {
	OnStep(t float64, s circuit.State, d circuit.Decision)
}

type ObserverFunc func(t float64, s circuit.State, d circuit.Decision)

func (f ObserverFunc) OnStep(t float64, s circuit.State, d circuit.Decision) { f(t, s, d) }

// Transient runs the fixed-step switching simulation from the zero state.
type Transient struct {
	BaseAnalysis
	grid       *TimeGrid
	state      circuit.State
	trajectory *Trajectory
	counts     map[circuit.Mode]int
	observers  []Observer
}

func NewTransient(logger *slog.Logger, observers ...Observer) *Transient {
	return &Transient{
		BaseAnalysis: *NewBaseAnalysis(logger),
		observers:    observers,
	}
}

func (tr *Transient) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	p := ckt.Parameters()
	if err := p.Validate(); err != nil {
		return fmt.Errorf("transient setup: %w", err)
	}

	grid, err := NewTimeGrid(p.Duration, p.Period(), p.Substeps)
	if err != nil {
		return fmt.Errorf("transient setup: %w", err)
	}

	tr.Circuit = ckt
	tr.grid = grid
	return nil
}

func (tr *Transient) Execute() error {
	if tr.Circuit == nil || tr.grid == nil {
		return fmt.Errorf("circuit not set")
	}

	ckt := tr.Circuit
	tr.state = circuit.State{}
	tr.trajectory = NewTrajectory(min(tr.grid.Len(), maxPrealloc))
	tr.counts = make(map[circuit.Mode]int, len(circuit.Modes))
	tr.results = nil

	tr.logger.Debug("transient start",
		"circuit", ckt.Name(),
		"samples", tr.grid.Len(),
		"step", tr.grid.Step(),
	)

	for k, t := range tr.grid.All() {
		if k == 0 {
			tr.trajectory.Append(t, ckt.Drive.Level(t), tr.state)
			continue
		}

		var d circuit.Decision
		tr.state, d = ckt.Step(t, tr.state)
		tr.counts[d.Mode]++
		tr.trajectory.Append(t, ckt.Drive.Level(t), tr.state)

		for _, o := range tr.observers {
			o.OnStep(t, tr.state, d)
		}
	}

	tr.logger.Debug("transient done",
		"circuit", ckt.Name(),
		"steps", tr.state.Index,
		"vout", tr.state.VOut,
		"il", tr.state.IL,
	)
	return nil
}

// GetResults keys the trajectory the way the simulator names probes.
func (tr *Transient) GetResults() map[string][]float64 {
	if tr.trajectory == nil {
		return map[string][]float64{}
	}
	if tr.results == nil {
		n := tr.Circuit.Names()
		tr.results = map[string][]float64{
			"TIME": tr.trajectory.Time,
			"PWM":  tr.trajectory.PWM,
			fmt.Sprintf("I(%s)", n.Inductor):   tr.trajectory.IL,
			fmt.Sprintf("V(%s)", n.SwitchNode): tr.trajectory.VSw,
			fmt.Sprintf("V(%s)", n.OutputNode): tr.trajectory.VOut,
		}
	}
	return tr.results
}

// Header is the CSV header matching the result keys.
func (tr *Transient) Header() []string {
	n := tr.Circuit.Names()
	return []string{"TIME", "PWM", fmt.Sprintf("I(%s)", n.Inductor), fmt.Sprintf("V(%s)", n.SwitchNode), fmt.Sprintf("V(%s)", n.OutputNode)}
}

func (tr *Transient) Final() circuit.State {
	return tr.state
}

// Predicted is the ideal output Vin*D.
func (tr *Transient) Predicted() float64 {
	return tr.Circuit.Parameters().Ideal()
}

func (tr *Transient) Trajectory() *Trajectory {
	return tr.trajectory
}

func (tr *Transient) Grid() *TimeGrid {
	return tr.grid
}

// ModeCounts is how many steps each conduction mode was active.
func (tr *Transient) ModeCounts() map[circuit.Mode]int {
	out := make(map[circuit.Mode]int, len(circuit.Modes))
	for _, m := range circuit.Modes {
		out[m] = tr.counts[m]
	}
	return out
}
