package device

import "math"

// PWM is the fixed duty cycle gate drive of the controlled switch.
// It holds no state: Command depends only on t mod Period.
type PWM struct {
	Name   string
	Period float64
	Duty   float64
}

func NewPWM(name string, frequency, duty float64) *PWM {
	return &PWM{
		Name:   name,
		Period: 1 / frequency,
		Duty:   duty,
	}
}

// Command is true while the switch is driven on. t mod T == D*T is off.
func (p *PWM) Command(t float64) bool {
	phase := math.Mod(t, p.Period)
	if phase < 0 {
		phase += p.Period
	}
	return phase < p.Duty*p.Period
}

// Level is Command as 1 or 0.
func (p *PWM) Level(t float64) float64 {
	if p.Command(t) {
		return 1
	}
	return 0
}

func (p *PWM) Frequency() float64 {
	return 1 / p.Period
}

// OnTime is the conducting interval of one period.
func (p *PWM) OnTime() float64 {
	return p.Duty * p.Period
}
