package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/edp1096/toy-buck/pkg/analysis"
	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortRun(t *testing.T) *analysis.Transient {
	t.Helper()
	p := circuit.Parameters{
		Vin: 12, Duty: 0.4, Fsw: 10e3, Inductance: 200e-6, Capacitance: 47e-6, Load: 50,
		DiodeVf: 0.7, InductorRs: 0.05, DiodeRon: 0.1, SwitchRon: 0.05, CapacitorESR: 0.05,
		Duration: 1e-3, Substeps: 400,
	}
	ckt, err := circuit.New("buck", p, circuit.Names{})
	require.NoError(t, err)

	tr := analysis.NewTransient(nil)
	require.NoError(t, tr.Setup(ckt))
	require.NoError(t, tr.Execute())
	return tr
}

func TestErrorPercent(t *testing.T) {
	assert.InDelta(t, 10.0, ErrorPercent(4.32, 4.8), 1e-9)
	assert.InDelta(t, 10.0, ErrorPercent(5.28, 4.8), 1e-9)
	assert.Zero(t, ErrorPercent(3, 0))
}

func TestNewReport(t *testing.T) {
	tr := shortRun(t)
	r := New("buck", tr)

	assert.Equal(t, 4000, r.Steps)
	assert.Equal(t, tr.Final().VOut, r.Final.VOut)
	assert.InDelta(t, 4.8, r.Ideal, 1e-12)
	assert.InDelta(t, ErrorPercent(tr.Final().VOut, 4.8), r.ErrorPercent, 1e-12)
	assert.Equal(t, 4000, r.Modes["SWITCH_ON"]+r.Modes["RECTIFIER_CONDUCTING"]+r.Modes["BOTH_BLOCKED"])

	assert.LessOrEqual(t, r.Ripple.VOutMin, r.Final.VOut)
	assert.GreaterOrEqual(t, r.Ripple.VOutMax, r.Final.VOut)
	assert.GreaterOrEqual(t, r.Ripple.ILMin, 0.0)
	assert.Nil(t, r.Averaged)
	assert.InDelta(t, 10e3, r.Switching.Frequency, 1e-6)
	assert.InDelta(t, 40e-6, r.Switching.OnTime, 1e-15)
}

func TestWriteText(t *testing.T) {
	r := New("buck", shortRun(t)).WithAveraged(4.3686)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "Ideal Vin*D:           4.800 V")
	assert.Contains(t, out, "Averaged model:        4.369 V")
	assert.Contains(t, out, "RECTIFIER_CONDUCTING")
	assert.Contains(t, out, "250.000 ns")
	assert.Contains(t, out, "10.000 kHz at D = 0.400, on for 40.000 us")
}

func TestWriteJSON(t *testing.T) {
	r := New("buck", shortRun(t))

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "buck", decoded["name"])
	assert.InDelta(t, 4.8, decoded["ideal"], 1e-12)
	assert.NotContains(t, decoded, "averaged")
	assert.Contains(t, decoded["modes"], "SWITCH_ON")
}

func TestMarkdown(t *testing.T) {
	md := New("buck", shortRun(t)).WithAveraged(4.3686).Markdown()
	assert.True(t, strings.HasPrefix(md, "# buck\n"))
	assert.Contains(t, md, "| Ideal Vin·D | 4.800 V |")
	assert.Contains(t, md, "- `BOTH_BLOCKED`:")

	out, err := RenderMarkdown(md, "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "4.800 V")
}

func TestSweepMarkdown(t *testing.T) {
	md := SweepMarkdown([]analysis.SweepPoint{{Duty: 0.5, VOut: 5.4, Ideal: 6, Averaged: 5.5}})
	assert.Contains(t, md, "| 0.500 | 5.400 V | 6.000 V | 5.500 V | 10.000 % |")
}

func TestWriteResults(t *testing.T) {
	tr := shortRun(t)

	var buf bytes.Buffer
	WriteResults(&buf, tr.GetResults(), 1000)
	out := buf.String()
	assert.Contains(t, out, "Transient Analysis Results (4001 time points)")
	assert.Equal(t, 5, strings.Count(out, "V(out)="))
	assert.Contains(t, out, "I(L1)=")

	buf.Reset()
	WriteResults(&buf, map[string][]float64{"DUTY": {0.3}, "V(out)": {3.1}}, 0)
	assert.Contains(t, buf.String(), "D=0.300")
	assert.Contains(t, buf.String(), "V(out)=3.100 V")

	buf.Reset()
	WriteResults(&buf, map[string][]float64{"V(out)": {4.3686}, "I(V1)": {0.087}}, 0)
	assert.Contains(t, buf.String(), "V(out)=4.369 V")
	assert.Contains(t, buf.String(), "I(V1)=87.000 mA")
}
