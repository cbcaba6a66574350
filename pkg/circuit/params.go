package circuit

import (
	"errors"
	"fmt"

	"github.com/edp1096/toy-buck/pkg/util"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError names the parameter that failed validation.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s = %g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Parameters describe the converter and the run. Values are SI units.
type Parameters struct {
	Vin          float64 `json:"vin"`
	Duty         float64 `json:"duty"`
	Fsw          float64 `json:"fsw"`
	Inductance   float64 `json:"inductance"`
	Capacitance  float64 `json:"capacitance"`
	Load         float64 `json:"load"`
	DiodeVf      float64 `json:"diode_vf"`
	InductorRs   float64 `json:"inductor_rs"`
	DiodeRon     float64 `json:"diode_ron"`
	SwitchRon    float64 `json:"switch_ron"`
	CapacitorESR float64 `json:"capacitor_esr"`
	Duration     float64 `json:"duration"`
	Substeps     int     `json:"substeps"`
}

func (p Parameters) Period() float64 {
	return 1 / p.Fsw
}

func (p Parameters) StepSize() float64 {
	return p.Period() / float64(p.Substeps)
}

// Ideal is the lossless steady-state output, Vin*D.
func (p Parameters) Ideal() float64 {
	return p.Vin * p.Duty
}

// Validate reports every violated field at once.
func (p Parameters) Validate() error {
	var errs []error

	positive := func(field string, v float64) {
		if !util.IsFinite(v) || v <= 0 {
			errs = append(errs, &ConfigError{Field: field, Value: v, Reason: "must be positive and finite"})
		}
	}
	nonNegative := func(field string, v float64) {
		if !util.IsFinite(v) || v < 0 {
			errs = append(errs, &ConfigError{Field: field, Value: v, Reason: "must be non-negative and finite"})
		}
	}

	if !util.IsFinite(p.Vin) {
		errs = append(errs, &ConfigError{Field: "vin", Value: p.Vin, Reason: "must be finite"})
	}
	if !util.IsFinite(p.Duty) || p.Duty <= 0 || p.Duty >= 1 {
		errs = append(errs, &ConfigError{Field: "duty", Value: p.Duty, Reason: "must be in (0, 1)"})
	}
	positive("fsw", p.Fsw)
	positive("inductance", p.Inductance)
	positive("capacitance", p.Capacitance)
	positive("load", p.Load)
	positive("duration", p.Duration)
	nonNegative("diode_vf", p.DiodeVf)
	nonNegative("inductor_rs", p.InductorRs)
	nonNegative("diode_ron", p.DiodeRon)
	nonNegative("switch_ron", p.SwitchRon)
	nonNegative("capacitor_esr", p.CapacitorESR)
	if p.Substeps < 1 {
		errs = append(errs, &ConfigError{Field: "substeps", Value: float64(p.Substeps), Reason: "must be at least 1"})
	}

	return errors.Join(errs...)
}

// Names are the element and node names used for result keys.
type Names struct {
	Source     string
	Switch     string
	Rectifier  string
	Inductor   string
	Capacitor  string
	Load       string
	InputNode  string
	SwitchNode string
	OutputNode string
}

func DefaultNames() Names {
	return Names{
		Source:     "V1",
		Switch:     "S1",
		Rectifier:  "D1",
		Inductor:   "L1",
		Capacitor:  "C1",
		Load:       "RL",
		InputNode:  "in",
		SwitchNode: "sw",
		OutputNode: "out",
	}
}

// withDefaults fills empty names.
func (n Names) withDefaults() Names {
	d := DefaultNames()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&n.Source, d.Source)
	fill(&n.Switch, d.Switch)
	fill(&n.Rectifier, d.Rectifier)
	fill(&n.Inductor, d.Inductor)
	fill(&n.Capacitor, d.Capacitor)
	fill(&n.Load, d.Load)
	fill(&n.InputNode, d.InputNode)
	fill(&n.SwitchNode, d.SwitchNode)
	fill(&n.OutputNode, d.OutputNode)
	return n
}
