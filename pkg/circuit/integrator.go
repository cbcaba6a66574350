package circuit

// Advance integrates one forward Euler step of length dt.
func (c *Circuit) Advance(prev State, d Decision, dt float64) State {
	il := c.Inductor.NextCurrent(prev.IL, d.VL, dt)

	ic := d.IRect - c.Load.Current(prev.VOut)
	ideal := c.Capacitor.Integrate(prev.VOut, ic, dt)

	next := State{
		Index: prev.Index + 1,
		IL:    il,
		VOut:  c.Capacitor.TerminalVoltage(ideal, ic),
		VSw:   d.VSw,
	}
	if d.Mode == ModeSwitchOn {
		next.VSw = c.Switch.NodeVoltage(il)
	}

	return next
}

// Step advances prev to the sample at time t.
func (c *Circuit) Step(t float64, prev State) (State, Decision) {
	d := c.Resolve(c.Switch.On(t), prev)
	return c.Advance(prev, d, c.params.StepSize()), d
}
