package circuit

import (
	"fmt"

	"github.com/edp1096/toy-buck/pkg/device"
	"github.com/edp1096/toy-buck/pkg/matrix"
)

// Network is a linear DC netlist ready to be stamped into an MNA matrix.
type Network struct {
	nodeMap   map[string]int
	branchMap map[string]int
	devices   []device.Device
}

func NewNetwork(devices ...device.Device) *Network {
	nw := &Network{
		nodeMap:   make(map[string]int),
		branchMap: make(map[string]int),
		devices:   devices,
	}
	nw.assignNodeBranchMaps()
	return nw
}

func (nw *Network) assignNodeBranchMaps() {
	for _, dev := range nw.devices {
		for _, nodeName := range dev.GetNodeNames() {
			if nodeName == "0" || nodeName == "gnd" {
				continue
			}
			if _, exists := nw.nodeMap[nodeName]; !exists {
				nw.nodeMap[nodeName] = len(nw.nodeMap) + 1
			}
		}
	}

	branchStart := len(nw.nodeMap) + 1
	for _, dev := range nw.devices {
		if b, ok := dev.(device.BranchDevice); ok {
			nw.branchMap[dev.GetName()] = branchStart
			b.SetBranchIndex(branchStart)
			branchStart++
		}
	}

	for _, dev := range nw.devices {
		names := dev.GetNodeNames()
		nodes := make([]int, len(names))
		for i, nodeName := range names {
			nodes[i] = nw.nodeMap[nodeName] // ground is absent and maps to 0
		}
		dev.SetNodes(nodes)
	}
}

func (nw *Network) Size() int {
	return len(nw.nodeMap) + len(nw.branchMap)
}

func (nw *Network) GetNodeMap() map[string]int {
	return nw.nodeMap
}

func (nw *Network) GetBranchMap() map[string]int {
	return nw.branchMap
}

func (nw *Network) Stamp(mat matrix.DeviceMatrix, status *device.CircuitStatus) error {
	for _, dev := range nw.devices {
		s, ok := dev.(device.Stamper)
		if !ok {
			return fmt.Errorf("device %s: no DC model", dev.GetName())
		}
		if err := s.Stamp(mat, status); err != nil {
			return fmt.Errorf("stamping device %s: %w", dev.GetName(), err)
		}
	}
	return nil
}

// Solution maps a 1-based MNA solution to V(node) and I(device) keys.
func (nw *Network) Solution(x []float64) map[string]float64 {
	solution := make(map[string]float64)

	for name, idx := range nw.nodeMap {
		solution[fmt.Sprintf("V(%s)", name)] = x[idx]
	}

	// Branch current of voltage source flows out of the positive terminal
	for name, idx := range nw.branchMap {
		solution[fmt.Sprintf("I(%s)", name)] = -x[idx]
	}

	for _, dev := range nw.devices {
		if r, ok := dev.(*device.Resistor); ok {
			nodes := r.GetNodes()
			v1, v2 := 0.0, 0.0
			if nodes[0] > 0 {
				v1 = x[nodes[0]]
			}
			if nodes[1] > 0 {
				v2 = x[nodes[1]]
			}
			solution[fmt.Sprintf("I(%s)", r.GetName())] = r.Current(v1 - v2)
		}
	}

	return solution
}

// Averaged is the continuous-conduction averaged equivalent of the converter:
// a source D*Vin - (1-D)*Vf behind R_L + D*Rds_on + (1-D)*Rd_on, feeding the load.
// The output node keeps its name so results line up with the transient keys.
func (c *Circuit) Averaged() *Network {
	n := c.names
	d := c.Drive.Duty

	e := d*c.Vin() - (1-d)*c.Rectifier.Vf
	req := c.Inductor.Rs + d*c.Switch.Ron() + (1-d)*c.Rectifier.Ron

	load := device.NewResistor(n.Load, []string{n.OutputNode, "0"}, c.Load.GetValue())
	if req <= 0 {
		src := device.NewDCVoltageSource(n.Source, []string{n.OutputNode, "0"}, e)
		return NewNetwork(src, load)
	}

	src := device.NewDCVoltageSource(n.Source, []string{n.SwitchNode, "0"}, e)
	series := device.NewResistor(n.Inductor, []string{n.SwitchNode, n.OutputNode}, req)
	return NewNetwork(src, series, load)
}
