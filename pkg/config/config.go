// Package config loads converter runs from netlists or YAML/JSON documents.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/edp1096/toy-buck/internal/consts"
	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/edp1096/toy-buck/pkg/netlist"
)

// Run is everything needed to build and simulate one converter.
type Run struct {
	Name       string
	Parameters circuit.Parameters
	Names      circuit.Names
}

type circuitSection struct {
	Vin          float64 `mapstructure:"vin"`
	Duty         float64 `mapstructure:"duty"`
	Fsw          float64 `mapstructure:"fsw"`
	Inductance   float64 `mapstructure:"inductance"`
	Capacitance  float64 `mapstructure:"capacitance"`
	Load         float64 `mapstructure:"load"`
	DiodeVf      float64 `mapstructure:"diode_vf"`
	InductorRs   float64 `mapstructure:"inductor_rs"`
	DiodeRon     float64 `mapstructure:"diode_ron"`
	SwitchRon    float64 `mapstructure:"switch_ron"`
	CapacitorESR float64 `mapstructure:"capacitor_esr"`
}

type simulationSection struct {
	Duration float64 `mapstructure:"duration"`
	Substeps int     `mapstructure:"substeps"`
}

type namesSection struct {
	Source     string `mapstructure:"source"`
	Switch     string `mapstructure:"switch"`
	Rectifier  string `mapstructure:"rectifier"`
	Inductor   string `mapstructure:"inductor"`
	Capacitor  string `mapstructure:"capacitor"`
	Load       string `mapstructure:"load"`
	InputNode  string `mapstructure:"input_node"`
	SwitchNode string `mapstructure:"switch_node"`
	OutputNode string `mapstructure:"output_node"`
}

type document struct {
	Name       string            `mapstructure:"name"`
	Circuit    circuitSection    `mapstructure:"circuit"`
	Simulation simulationSection `mapstructure:"simulation"`
	Names      namesSection      `mapstructure:"names"`
}

// Reference is the documented reference design.
func Reference() Run {
	return Run{
		Name: "reference",
		Parameters: circuit.Parameters{
			Vin:          consts.VIN,
			Duty:         consts.DUTY,
			Fsw:          consts.FSW,
			Inductance:   consts.L,
			Capacitance:  consts.C,
			Load:         consts.RLOAD,
			DiodeVf:      consts.VD,
			InductorRs:   consts.RL,
			DiodeRon:     consts.RD_ON,
			SwitchRon:    consts.RDS_ON,
			CapacitorESR: consts.R_ESR,
			Duration:     consts.TSIM,
			Substeps:     consts.SUBSTEPS,
		},
		Names: circuit.DefaultNames(),
	}
}

// Load reads a netlist (.cir, .net, .sp) or a YAML/JSON document (.yaml, .yml, .json).
func Load(path string) (Run, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Run{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var run Run
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cir", ".net", ".sp":
		run, err = FromNetlist(string(raw))
	case ".yaml", ".yml", ".json":
		run, err = FromYAML(raw)
	default:
		return Run{}, fmt.Errorf("%s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return Run{}, fmt.Errorf("%s: %w", path, err)
	}

	if run.Name == "" {
		run.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return run, nil
}

func FromNetlist(src string) (Run, error) {
	data, err := netlist.Parse(src)
	if err != nil {
		return Run{}, fmt.Errorf("parsing netlist: %w", err)
	}

	p, names, err := netlist.BuildParameters(data)
	if err != nil {
		return Run{}, err
	}
	return Run{Name: data.Title, Parameters: p, Names: names}, nil
}

// FromYAML decodes a document. Keys left out keep their reference value.
// JSON is accepted as YAML.
func FromYAML(raw []byte) (Run, error) {
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return Run{}, fmt.Errorf("parsing document: %w", err)
	}

	ref := Reference()
	doc := document{
		Circuit: circuitSection{
			Vin:          ref.Parameters.Vin,
			Duty:         ref.Parameters.Duty,
			Fsw:          ref.Parameters.Fsw,
			Inductance:   ref.Parameters.Inductance,
			Capacitance:  ref.Parameters.Capacitance,
			Load:         ref.Parameters.Load,
			DiodeVf:      ref.Parameters.DiodeVf,
			InductorRs:   ref.Parameters.InductorRs,
			DiodeRon:     ref.Parameters.DiodeRon,
			SwitchRon:    ref.Parameters.SwitchRon,
			CapacitorESR: ref.Parameters.CapacitorESR,
		},
		Simulation: simulationSection{
			Duration: ref.Parameters.Duration,
			Substeps: ref.Parameters.Substeps,
		},
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  siValueHook,
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return Run{}, err
	}
	if err := decoder.Decode(values); err != nil {
		return Run{}, fmt.Errorf("decoding document: %w", err)
	}

	c, s, n := doc.Circuit, doc.Simulation, doc.Names
	run := Run{
		Name: doc.Name,
		Parameters: circuit.Parameters{
			Vin:          c.Vin,
			Duty:         c.Duty,
			Fsw:          c.Fsw,
			Inductance:   c.Inductance,
			Capacitance:  c.Capacitance,
			Load:         c.Load,
			DiodeVf:      c.DiodeVf,
			InductorRs:   c.InductorRs,
			DiodeRon:     c.DiodeRon,
			SwitchRon:    c.SwitchRon,
			CapacitorESR: c.CapacitorESR,
			Duration:     s.Duration,
			Substeps:     s.Substeps,
		},
		Names: circuit.Names{
			Source:     n.Source,
			Switch:     n.Switch,
			Rectifier:  n.Rectifier,
			Inductor:   n.Inductor,
			Capacitor:  n.Capacitor,
			Load:       n.Load,
			InputNode:  n.InputNode,
			SwitchNode: n.SwitchNode,
			OutputNode: n.OutputNode,
		},
	}

	if err := run.Parameters.Validate(); err != nil {
		return Run{}, err
	}
	return run, nil
}

// siValueHook lets numeric fields be written as "200u" or "10kHz".
func siValueHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)

	switch to.Kind() {
	case reflect.Float64:
		v, err := netlist.ParseValue(s)
		if err != nil {
			return nil, err
		}
		return v, nil
	case reflect.Int:
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return v, nil
	}
	return data, nil
}
