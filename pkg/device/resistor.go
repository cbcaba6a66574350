package device

import (
	"fmt"

	"github.com/edp1096/toy-buck/pkg/matrix"
)

type Resistor struct {
	BaseDevice
}

var _ Stamper = (*Resistor)(nil)

func NewResistor(name string, nodeNames []string, value float64) *Resistor {
	return &Resistor{BaseDevice: *NewBaseDevice(name, value, nodeNames)}
}

func (r *Resistor) GetType() string { return "R" }

// Current through the resistor for a voltage v across it.
func (r *Resistor) Current(v float64) float64 {
	return v / r.Value
}

func (r *Resistor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(r.Nodes) != 2 {
		return fmt.Errorf("resistor %s: requires exactly 2 nodes", r.Name)
	}
	if r.Value <= 0 {
		return fmt.Errorf("resistor %s: non-positive resistance %g", r.Name, r.Value)
	}

	n1, n2 := r.Nodes[0], r.Nodes[1]
	g := 1.0 / r.Value // Conductance. G = 1/R

	if n1 != 0 {
		matrix.AddElement(n1, n1, g)
		if n2 != 0 {
			matrix.AddElement(n1, n2, -g)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			matrix.AddElement(n2, n1, -g)
		}
		matrix.AddElement(n2, n2, g)
	}

	return nil
}
