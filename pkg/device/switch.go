package device

// Switch is the controlled switch, a linear resistance when driven on.
type Switch struct {
	BaseDevice
	Drive *PWM
}

func NewSwitch(name string, nodeNames []string, ron float64, drive *PWM) *Switch {
	return &Switch{
		BaseDevice: *NewBaseDevice(name, ron, nodeNames),
		Drive:      drive,
	}
}

func (s *Switch) GetType() string { return "S" }

func (s *Switch) Ron() float64 { return s.Value }

// On reports whether the drive commands the switch closed at time t.
func (s *Switch) On(t float64) bool {
	return s.Drive.Command(t)
}

// NodeVoltage is the drop across the conducting switch.
func (s *Switch) NodeVoltage(current float64) float64 {
	return current * s.Value
}
