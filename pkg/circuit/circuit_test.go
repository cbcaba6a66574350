package circuit

import (
	"errors"
	"math"
	"testing"

	"github.com/edp1096/toy-buck/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reference() Parameters {
	return Parameters{
		Vin:          12,
		Duty:         0.4,
		Fsw:          10e3,
		Inductance:   200e-6,
		Capacitance:  47e-6,
		Load:         50,
		DiodeVf:      0.7,
		InductorRs:   0.05,
		DiodeRon:     0.1,
		SwitchRon:    0.05,
		CapacitorESR: 0.05,
		Duration:     5e-3,
		Substeps:     400,
	}
}

func newReference(t *testing.T) *Circuit {
	t.Helper()
	c, err := New("buck", reference(), Names{})
	require.NoError(t, err)
	return c
}

func TestParametersDerived(t *testing.T) {
	p := reference()
	assert.InDelta(t, 1e-4, p.Period(), 1e-18)
	assert.InDelta(t, 2.5e-7, p.StepSize(), 1e-20)
	assert.InDelta(t, 4.8, p.Ideal(), 1e-12)
}

func TestValidateCollectsEveryField(t *testing.T) {
	p := reference()
	p.Duty = 1
	p.Inductance = 0
	p.CapacitorESR = -0.1
	p.Vin = math.NaN()
	p.Substeps = 0

	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ce *ConfigError
		require.True(t, errors.As(e, &ce))
		fields = append(fields, ce.Field)
	}
	assert.ElementsMatch(t, []string{"vin", "duty", "inductance", "capacitor_esr", "substeps"}, fields)
}

func TestValidateAcceptsZeroParasitics(t *testing.T) {
	p := reference()
	p.DiodeVf, p.InductorRs, p.DiodeRon, p.SwitchRon, p.CapacitorESR = 0, 0, 0, 0, 0
	assert.NoError(t, p.Validate())
}

func TestNewRejectsInvalid(t *testing.T) {
	p := reference()
	p.Duty = 0
	_, err := New("buck", p, Names{})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestDefaultNames(t *testing.T) {
	c, err := New("buck", reference(), Names{Inductor: "Lmain"})
	require.NoError(t, err)
	assert.Equal(t, "Lmain", c.Names().Inductor)
	assert.Equal(t, "out", c.Names().OutputNode)
	assert.Len(t, c.GetDevices(), 6)
	assert.Equal(t, 12.0, c.Vin())
}

func TestResolveSwitchOn(t *testing.T) {
	c := newReference(t)

	d := c.Resolve(true, State{IL: 2, VOut: 3, VSw: 9})
	assert.Equal(t, ModeSwitchOn, d.Mode)
	assert.InDelta(t, 0.1, d.VSw, 1e-12)
	assert.InDelta(t, (12-0.1)-2*0.05, d.VL, 1e-12)
	assert.Zero(t, d.IRect)
}

func TestResolveRectifierUsesPreviousStep(t *testing.T) {
	c := newReference(t)

	d := c.Resolve(false, State{IL: 2, VOut: 3, VSw: 3.71})
	assert.Equal(t, ModeRectifierConducting, d.Mode)
	assert.InDelta(t, 3+0.7+2*0.1, d.VSw, 1e-12)
	assert.InDelta(t, (12-3.9)-2*0.05, d.VL, 1e-12)
	assert.Equal(t, 2.0, d.IRect)

	// Exactly at threshold the rectifier stays blocked.
	vout := 3.0
	d = c.Resolve(false, State{IL: 2, VOut: vout, VSw: vout + c.Rectifier.Vf})
	assert.Equal(t, ModeBothBlocked, d.Mode)
}

func TestResolveBlockedHoldsSwitchNode(t *testing.T) {
	c := newReference(t)

	d := c.Resolve(false, State{IL: 1, VOut: 5, VSw: 0.2})
	assert.Equal(t, ModeBothBlocked, d.Mode)
	assert.Equal(t, 0.2, d.VSw)
	assert.InDelta(t, (12-0.2)-0.05, d.VL, 1e-12)
	assert.Zero(t, d.IRect)
}

func TestResolveIsPure(t *testing.T) {
	c := newReference(t)
	prev := State{Index: 7, IL: 1.5, VOut: 2, VSw: 4}

	first := c.Resolve(false, prev)
	for range 3 {
		assert.Equal(t, first, c.Resolve(false, prev))
	}
	assert.Equal(t, State{Index: 7, IL: 1.5, VOut: 2, VSw: 4}, prev)
}

func TestAdvance(t *testing.T) {
	c := newReference(t)
	dt := c.Parameters().StepSize()

	prev := State{Index: 3, IL: 2, VOut: 5, VSw: 0.1}
	d := c.Resolve(true, prev)
	next := c.Advance(prev, d, dt)

	il := 2 + d.VL/200e-6*dt
	ic := 0 - 5.0/50
	assert.Equal(t, 4, next.Index)
	assert.InDelta(t, il, next.IL, 1e-12)
	assert.InDelta(t, 5+ic/47e-6*dt+ic*0.05, next.VOut, 1e-12)
	assert.InDelta(t, il*0.05, next.VSw, 1e-12, "switch node follows the new current")
}

func TestAdvanceCarriesDecisionVoltageWhenOff(t *testing.T) {
	c := newReference(t)
	prev := State{IL: 2, VOut: 3, VSw: 4}

	d := c.Resolve(false, prev)
	require.Equal(t, ModeRectifierConducting, d.Mode)
	next := c.Advance(prev, d, 1e-7)
	assert.Equal(t, d.VSw, next.VSw)
}

func TestAdvanceFloorsInductorCurrent(t *testing.T) {
	c := newReference(t)
	prev := State{IL: 1e-3, VOut: 30, VSw: 40}

	d := Decision{Mode: ModeRectifierConducting, IRect: prev.IL, VL: -1000, VSw: 40}
	next := c.Advance(prev, d, 1e-5)
	assert.Zero(t, next.IL)
}

func TestAdvanceWithoutESR(t *testing.T) {
	p := reference()
	p.CapacitorESR = 0
	c, err := New("buck", p, Names{})
	require.NoError(t, err)

	dt := p.StepSize()
	s := State{}
	for k := 1; k < 2000; k++ {
		d := c.Resolve(c.Drive.Command(float64(k)*dt), s)
		ic := d.IRect - s.VOut/p.Load
		ideal := c.Capacitor.Integrate(s.VOut, ic, dt)
		s = c.Advance(s, d, dt)
		require.Equal(t, ideal, s.VOut, "step %d", k)
	}
}

func TestStepMatchesResolveAdvance(t *testing.T) {
	c := newReference(t)
	prev := State{Index: 1, IL: 0.3, VOut: 0.2, VSw: 0.01}
	tk := 50 * c.Parameters().StepSize()

	next, d := c.Step(tk, prev)
	want := c.Resolve(c.Switch.On(tk), prev)
	assert.Equal(t, want, d)
	assert.Equal(t, c.Advance(prev, want, c.Parameters().StepSize()), next)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "SWITCH_ON", ModeSwitchOn.String())
	assert.Equal(t, "RECTIFIER_CONDUCTING", ModeRectifierConducting.String())
	assert.Equal(t, "BOTH_BLOCKED", ModeBothBlocked.String())
	assert.Equal(t, "UNKNOWN", Mode(9).String())
}

type stampRecorder struct {
	elements map[[2]int]float64
	rhs      map[int]float64
}

func (s *stampRecorder) AddElement(i, j int, v float64) { s.elements[[2]int{i, j}] += v }
func (s *stampRecorder) AddRHS(i int, v float64)        { s.rhs[i] += v }

func TestAveragedNetwork(t *testing.T) {
	c := newReference(t)
	nw := c.Averaged()

	assert.Equal(t, 3, nw.Size())
	assert.Contains(t, nw.GetNodeMap(), "out")
	assert.Equal(t, 3, nw.GetBranchMap()["V1"])

	m := &stampRecorder{elements: map[[2]int]float64{}, rhs: map[int]float64{}}
	require.NoError(t, nw.Stamp(m, &device.CircuitStatus{}))
	assert.InDelta(t, 0.4*12-0.6*0.7, m.rhs[3], 1e-12)
}

func TestAveragedNetworkWithoutLosses(t *testing.T) {
	p := reference()
	p.InductorRs, p.DiodeRon, p.SwitchRon = 0, 0, 0
	c, err := New("buck", p, Names{})
	require.NoError(t, err)

	nw := c.Averaged()
	assert.Equal(t, 2, nw.Size())
	assert.Equal(t, map[string]int{"out": 1}, nw.GetNodeMap())
}
