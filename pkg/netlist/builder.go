package netlist

import (
	"fmt"
	"strings"

	"github.com/edp1096/toy-buck/internal/consts"
	"github.com/edp1096/toy-buck/pkg/circuit"
)

func isGround(node string) bool {
	return node == "0" || strings.EqualFold(node, "gnd")
}

// BuildParameters maps a parsed netlist onto the converter topology:
//
//	V  in  0
//	L  in  sw
//	S  sw  0
//	D  sw  out
//	C  out 0
//	R  out 0
//
// A missing .tran falls back to the reference duration and substeps.
func BuildParameters(data *NetlistData) (circuit.Parameters, circuit.Names, error) {
	var p circuit.Parameters
	var names circuit.Names

	byType := make(map[string]Element)
	for _, elem := range data.Elements {
		if prev, dup := byType[elem.Type]; dup {
			return p, names, fmt.Errorf("%s and %s: only one %s element is supported", prev.Name, elem.Name, elem.Type)
		}
		byType[elem.Type] = elem
	}
	for _, typ := range []string{"V", "L", "S", "D", "C", "R"} {
		if _, ok := byType[typ]; !ok {
			return p, names, fmt.Errorf("missing %s element", typ)
		}
	}

	v, l, s, d, c, r := byType["V"], byType["L"], byType["S"], byType["D"], byType["C"], byType["R"]

	// Node roles come from the switch and the rectifier.
	sw := s.Nodes[0]
	if isGround(sw) || !isGround(s.Nodes[1]) {
		return p, names, fmt.Errorf("switch %s: must connect the switch node to ground", s.Name)
	}
	if d.Nodes[0] != sw {
		return p, names, fmt.Errorf("diode %s: anode must be the switch node %s", d.Name, sw)
	}
	out := d.Nodes[1]
	if isGround(out) || out == sw {
		return p, names, fmt.Errorf("diode %s: cathode must be a distinct output node", d.Name)
	}

	var in string
	switch {
	case l.Nodes[1] == sw:
		in = l.Nodes[0]
	case l.Nodes[0] == sw:
		in = l.Nodes[1]
	default:
		return p, names, fmt.Errorf("inductor %s: must connect to the switch node %s", l.Name, sw)
	}
	if isGround(in) || in == out {
		return p, names, fmt.Errorf("inductor %s: other terminal must be the input node", l.Name)
	}
	if v.Nodes[0] != in || !isGround(v.Nodes[1]) {
		return p, names, fmt.Errorf("voltage source %s: must drive input node %s against ground", v.Name, in)
	}
	for _, e := range []Element{c, r} {
		if !(e.Nodes[0] == out && isGround(e.Nodes[1])) && !(e.Nodes[1] == out && isGround(e.Nodes[0])) {
			return p, names, fmt.Errorf("%s: must connect output node %s to ground", e.Name, out)
		}
	}

	var err error
	param := func(e Element, key string, def float64) float64 {
		raw, ok := e.Params[key]
		if !ok || err != nil {
			return def
		}
		var value float64
		value, err = ParseValue(raw)
		if err != nil {
			err = fmt.Errorf("%s %s: %w", e.Name, key, err)
		}
		return value
	}

	p.Vin = v.Value
	p.Inductance = l.Value
	p.InductorRs = param(l, "rs", 0)
	p.Fsw = param(s, "fsw", 0)
	p.Duty = param(s, "duty", 0)
	p.SwitchRon = param(s, "ron", 0)
	p.Capacitance = c.Value
	p.CapacitorESR = param(c, "esr", 0)
	p.Load = r.Value
	if err != nil {
		return p, names, err
	}

	model, ok := data.Models[d.Params["model"]]
	if !ok {
		return p, names, fmt.Errorf("diode %s: undefined model %s", d.Name, d.Params["model"])
	}
	p.DiodeVf = model.Params["vf"]
	p.DiodeRon = model.Params["ron"]

	p.Duration = consts.TSIM
	p.Substeps = consts.SUBSTEPS
	if data.TranParam.TStop > 0 {
		p.Duration = data.TranParam.TStop
	}
	if data.TranParam.Substeps != 0 {
		p.Substeps = data.TranParam.Substeps
	}

	names = circuit.Names{
		Source:     v.Name,
		Switch:     s.Name,
		Rectifier:  d.Name,
		Inductor:   l.Name,
		Capacitor:  c.Name,
		Load:       r.Name,
		InputNode:  in,
		SwitchNode: sw,
		OutputNode: out,
	}

	if err := p.Validate(); err != nil {
		return p, names, fmt.Errorf("netlist %q: %w", data.Title, err)
	}
	return p, names, nil
}
