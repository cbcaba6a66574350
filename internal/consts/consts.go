package consts

// Reference design. 12 V in, 40 % duty at 10 kHz.
const (
	VIN      = 12.0   // Input voltage (V)
	DUTY     = 0.4    // Duty cycle
	FSW      = 10e3   // Switching frequency (Hz)
	L        = 200e-6 // Inductance (H)
	C        = 47e-6  // Capacitance (F)
	RLOAD    = 50.0   // Load resistance (ohm)
	VD       = 0.7    // Rectifier forward voltage (V)
	RL       = 0.05   // Inductor series resistance (ohm)
	RD_ON    = 0.1    // Rectifier on resistance (ohm)
	RDS_ON   = 0.05   // Switch on resistance (ohm)
	R_ESR    = 0.05   // Capacitor ESR (ohm)
	TSIM     = 5e-3   // Simulated time (s)
	SUBSTEPS = 400    // Steps per switching period
)
