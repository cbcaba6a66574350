package device

import (
	"fmt"

	"github.com/edp1096/toy-buck/pkg/matrix"
)

// VoltageSource is an ideal DC source.
type VoltageSource struct {
	BaseDevice
	branchIdx int // Branch index for MNA
}

var (
	_ Stamper      = (*VoltageSource)(nil)
	_ BranchDevice = (*VoltageSource)(nil)
)

func NewDCVoltageSource(name string, nodeNames []string, value float64) *VoltageSource {
	return &VoltageSource{BaseDevice: *NewBaseDevice(name, value, nodeNames)}
}

func (v *VoltageSource) GetType() string { return "V" }

func (v *VoltageSource) GetVoltage(t float64) float64 { return v.Value }

func (v *VoltageSource) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(v.Nodes) != 2 {
		return fmt.Errorf("voltage source %s: requires exactly 2 nodes", v.Name)
	}
	if v.branchIdx <= 0 {
		return fmt.Errorf("voltage source %s: branch index not assigned", v.Name)
	}

	n1, n2 := v.Nodes[0], v.Nodes[1]
	bIdx := v.branchIdx

	// v1 - v2 = V
	if n1 != 0 {
		matrix.AddElement(bIdx, n1, 1) // v1 coefficient
		matrix.AddElement(n1, bIdx, 1) // n1 current
	}
	if n2 != 0 {
		matrix.AddElement(bIdx, n2, -1) // -v2 coefficient
		matrix.AddElement(n2, bIdx, -1) // n2 current
	}

	matrix.AddRHS(bIdx, v.GetVoltage(status.Time))
	return nil
}

func (v *VoltageSource) BranchIndex() int {
	return v.branchIdx
}

func (v *VoltageSource) SetBranchIndex(idx int) {
	v.branchIdx = idx
}
