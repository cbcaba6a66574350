package circuit

// Mode is the conduction path active during one step.
type Mode int

const (
	ModeSwitchOn Mode = iota
	ModeRectifierConducting
	ModeBothBlocked
)

func (m Mode) String() string {
	switch m {
	case ModeSwitchOn:
		return "SWITCH_ON"
	case ModeRectifierConducting:
		return "RECTIFIER_CONDUCTING"
	case ModeBothBlocked:
		return "BOTH_BLOCKED"
	}
	return "UNKNOWN"
}

// Modes lists every Mode in declaration order.
var Modes = []Mode{ModeSwitchOn, ModeRectifierConducting, ModeBothBlocked}

// State is the converter state after Index steps. The zero value is the initial state.
type State struct {
	Index int
	IL    float64 // Inductor current
	VOut  float64 // Output voltage
	VSw   float64 // Switch node voltage
}

// Decision is the outcome of resolving one step.
type Decision struct {
	Mode  Mode
	IRect float64 // Rectifier current
	VL    float64 // Voltage across the ideal inductance
	VSw   float64
}
