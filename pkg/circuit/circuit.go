package circuit

import (
	"fmt"

	"github.com/edp1096/toy-buck/pkg/device"
)

// Circuit is a step-down converter: source, PWM driven switch, free-wheeling
// rectifier, series inductor, output capacitor with ESR, and resistive load.
type Circuit struct {
	name   string
	params Parameters
	names  Names

	Source    *device.VoltageSource
	Drive     *device.PWM
	Switch    *device.Switch
	Rectifier *device.Rectifier
	Inductor  *device.Inductor
	Capacitor *device.Capacitor
	Load      *device.Resistor

	devices []device.Device
}

func New(name string, p Parameters, names Names) (*Circuit, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("circuit %s: %w", name, err)
	}

	n := names.withDefaults()
	c := &Circuit{name: name, params: p, names: n}

	c.Source = device.NewDCVoltageSource(n.Source, []string{n.InputNode, "0"}, p.Vin)
	c.Drive = device.NewPWM(n.Switch, p.Fsw, p.Duty)
	c.Switch = device.NewSwitch(n.Switch, []string{n.SwitchNode, "0"}, p.SwitchRon, c.Drive)
	c.Rectifier = device.NewRectifier(n.Rectifier, []string{n.SwitchNode, n.OutputNode})
	c.Rectifier.SetModelParameters(map[string]float64{"vf": p.DiodeVf, "ron": p.DiodeRon})
	c.Inductor = device.NewInductor(n.Inductor, []string{n.InputNode, n.SwitchNode}, p.Inductance, p.InductorRs)
	c.Capacitor = device.NewCapacitor(n.Capacitor, []string{n.OutputNode, "0"}, p.Capacitance, p.CapacitorESR)
	c.Load = device.NewResistor(n.Load, []string{n.OutputNode, "0"}, p.Load)

	c.devices = []device.Device{c.Source, c.Switch, c.Rectifier, c.Inductor, c.Capacitor, c.Load}
	return c, nil
}

func (c *Circuit) Name() string {
	return c.name
}

func (c *Circuit) Parameters() Parameters {
	return c.params
}

func (c *Circuit) Names() Names {
	return c.names
}

func (c *Circuit) GetDevices() []device.Device {
	return c.devices
}

// Vin is the source voltage.
func (c *Circuit) Vin() float64 {
	return c.Source.GetVoltage(0)
}
