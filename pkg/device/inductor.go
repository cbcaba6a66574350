package device

import (
	"github.com/edp1096/toy-buck/pkg/util"
)

type Inductor struct {
	BaseDevice
	Rs float64 // Series resistance
}

func NewInductor(name string, nodeNames []string, value, rs float64) *Inductor {
	return &Inductor{
		BaseDevice: *NewBaseDevice(name, value, nodeNames),
		Rs:         rs,
	}
}

func (l *Inductor) GetType() string { return "L" }

// DrivingVoltage is the voltage left across the ideal inductance once the
// series resistance drop is taken out of v1 - v2.
func (l *Inductor) DrivingVoltage(v1, v2, current float64) float64 {
	return (v1 - v2) - current*l.Rs
}

// NextCurrent integrates vL over dt. Current never reverses: it is floored at zero.
func (l *Inductor) NextCurrent(current, vL, dt float64) float64 {
	next := util.ForwardEuler(current, vL/l.Value, dt)
	if next < 0 {
		next = 0
	}
	return next
}
