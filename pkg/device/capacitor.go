package device

import (
	"github.com/edp1096/toy-buck/pkg/util"
)

type Capacitor struct {
	BaseDevice
	ESR float64 // Equivalent series resistance
}

func NewCapacitor(name string, nodeNames []string, value, esr float64) *Capacitor {
	return &Capacitor{
		BaseDevice: *NewBaseDevice(name, value, nodeNames),
		ESR:        esr,
	}
}

func (c *Capacitor) GetType() string { return "C" }

// Integrate is the lossless capacitor voltage after carrying current for dt.
func (c *Capacitor) Integrate(voltage, current, dt float64) float64 {
	return util.ForwardEuler(voltage, current/c.Value, dt)
}

// TerminalVoltage adds the ESR drop to the ideal capacitor voltage.
func (c *Capacitor) TerminalVoltage(ideal, current float64) float64 {
	return ideal + current*c.ESR
}
