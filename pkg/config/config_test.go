package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReference(t *testing.T) {
	ref := Reference()
	require.NoError(t, ref.Parameters.Validate())
	assert.Equal(t, 12.0, ref.Parameters.Vin)
	assert.Equal(t, 400, ref.Parameters.Substeps)
	assert.Equal(t, "out", ref.Names.OutputNode)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "light.yaml", `
name: light load
circuit:
  vin: 24
  duty: 0.25
  fsw: 20kHz
  inductance: 100u
  load: "100"
simulation:
  duration: 2m
  substeps: 200
names:
  output_node: vo
`)

	run, err := Load(path)
	require.NoError(t, err)

	p := run.Parameters
	assert.Equal(t, "light load", run.Name)
	assert.Equal(t, 24.0, p.Vin)
	assert.Equal(t, 0.25, p.Duty)
	assert.InDelta(t, 20e3, p.Fsw, 1e-9)
	assert.InDelta(t, 100e-6, p.Inductance, 1e-15)
	assert.Equal(t, 100.0, p.Load)
	assert.InDelta(t, 2e-3, p.Duration, 1e-15)
	assert.Equal(t, 200, p.Substeps)
	assert.Equal(t, "vo", run.Names.OutputNode)

	// Untouched keys keep the reference design.
	assert.Equal(t, Reference().Parameters.Capacitance, p.Capacitance)
	assert.Equal(t, Reference().Parameters.CapacitorESR, p.CapacitorESR)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "esr-off.json", `{"circuit": {"capacitor_esr": 0}, "simulation": {"substeps": "800"}}`)

	run, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "esr-off", run.Name)
	assert.Zero(t, run.Parameters.CapacitorESR)
	assert.Equal(t, 800, run.Parameters.Substeps)
}

func TestLoadNetlist(t *testing.T) {
	path := writeFile(t, "buck.cir", `* Buck
V1 in 0 DC 12
L1 in sw 200u rs=0.05
S1 sw 0 PWM(10k 0.4) ron=0.05
D1 sw out DMOD
C1 out 0 47u esr=0.05
RL out 0 50
.model DMOD D(vf=0.7 ron=0.1)
.tran 5m
`)

	run, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Buck", run.Name)
	assert.Equal(t, Reference().Parameters, run.Parameters)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "circuit:\n  duty: 1.5\n"))
	assert.ErrorIs(t, err, circuit.ErrInvalidConfiguration)

	_, err = Load(writeFile(t, "typo.yaml", "circuit:\n  dutty: 0.5\n"))
	assert.ErrorContains(t, err, "dutty")

	_, err = Load(writeFile(t, "units.yaml", "circuit:\n  inductance: lots\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "circuit.txt", "x"))
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadShippedExamples(t *testing.T) {
	ref, err := Load("../../examples/netlists/reference.cir")
	require.NoError(t, err)
	assert.Equal(t, Reference().Parameters, ref.Parameters)
	assert.Equal(t, "Buck reference design", ref.Name)

	ideal, err := Load("../../examples/netlists/ideal.cir")
	require.NoError(t, err)
	assert.Zero(t, ideal.Parameters.DiodeVf)
	assert.Zero(t, ideal.Parameters.CapacitorESR)
	assert.Equal(t, 400, ideal.Parameters.Substeps)

	light, err := Load("../../examples/netlists/light-load.yaml")
	require.NoError(t, err)
	assert.Equal(t, "light-load", light.Name)
	assert.Equal(t, 500.0, light.Parameters.Load)
	assert.Equal(t, 20e-3, light.Parameters.Duration)
	assert.Equal(t, 12.0, light.Parameters.Vin)
}
