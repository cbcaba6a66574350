package circuit

// Resolve picks the conduction mode for a step from the commanded switch
// state and the previous state only. The rectifier test uses the previous
// step's switch node and output voltages.
func (c *Circuit) Resolve(on bool, prev State) Decision {
	var d Decision

	switch {
	case on:
		d.Mode = ModeSwitchOn
		d.VSw = c.Switch.NodeVoltage(prev.IL)
	case c.Rectifier.Conducts(prev.VSw, prev.VOut):
		d.Mode = ModeRectifierConducting
		d.VSw = c.Rectifier.NodeVoltage(prev.VOut, prev.IL)
		d.IRect = prev.IL
	default:
		// Switch node floats: hold the last value.
		d.Mode = ModeBothBlocked
		d.VSw = prev.VSw
	}

	d.VL = c.Inductor.DrivingVoltage(c.Vin(), d.VSw, prev.IL)
	return d
}
