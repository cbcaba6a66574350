package device

import (
	"github.com/edp1096/toy-buck/pkg/matrix"
)

type Device interface {
	GetName() string
	GetType() string
	GetNodeNames() []string
	GetNodes() []int
	GetValue() float64
	SetNodes(nodes []int)
}

// Stamper is implemented by devices that take part in a linear MNA solve.
type Stamper interface {
	Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error
}

// BranchDevice owns an extra MNA row for its branch current.
type BranchDevice interface {
	BranchIndex() int
	SetBranchIndex(idx int)
}

type BaseDevice struct {
	Name      string
	Nodes     []int
	Value     float64
	NodeNames []string
}

type ModelParam struct {
	Type   string
	Name   string
	Params map[string]float64
}

// CircuitStatus is what a source may depend on while stamping.
type CircuitStatus struct {
	Time float64
}

func (d *BaseDevice) GetName() string {
	return d.Name
}

func (d *BaseDevice) GetNodes() []int {
	return d.Nodes
}

func (d *BaseDevice) GetNodeNames() []string {
	return d.NodeNames
}

func (d *BaseDevice) GetValue() float64 {
	return d.Value
}

func (d *BaseDevice) SetNodes(nodes []int) {
	d.Nodes = nodes
}

func NewBaseDevice(name string, value float64, nodeNames []string) *BaseDevice {
	return &BaseDevice{
		Name:      name,
		Value:     value,
		NodeNames: nodeNames,
		Nodes:     make([]int, len(nodeNames)),
	}
}
