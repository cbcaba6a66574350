package device

import "fmt"

// Rectifier is the free-wheeling diode: a forward threshold plus a linear on
// resistance. Below threshold it is an open circuit.
type Rectifier struct {
	BaseDevice
	Vf  float64 // Forward voltage
	Ron float64 // On resistance
}

func NewRectifier(name string, nodeNames []string) *Rectifier {
	if len(nodeNames) != 2 {
		panic(fmt.Sprintf("diode %s: requires exactly 2 nodes", name))
	}

	d := &Rectifier{BaseDevice: *NewBaseDevice(name, 0, nodeNames)}
	d.setDefaultParameters()
	return d
}

func (d *Rectifier) GetType() string { return "D" }

func (d *Rectifier) GetValue() float64 { return d.Vf }

func (d *Rectifier) setDefaultParameters() {
	d.Vf = 0.7
	d.Ron = 0.0
}

func (d *Rectifier) SetModelParameters(params map[string]float64) {
	if v, ok := params["vf"]; ok {
		d.Vf = v
	}
	if v, ok := params["ron"]; ok {
		d.Ron = v
	}
}

// Conducts reports whether the anode sits more than Vf above the cathode.
func (d *Rectifier) Conducts(va, vk float64) bool {
	return va > vk+d.Vf
}

// NodeVoltage is the anode potential while the diode carries current into cathode voltage vk.
func (d *Rectifier) NodeVoltage(vk, current float64) float64 {
	return vk + d.Vf + current*d.Ron
}
