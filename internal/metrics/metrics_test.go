package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-buck/pkg/circuit"
)

func TestObserverCountsModes(t *testing.T) {
	m := New()
	obs := m.Observer()

	obs.OnStep(0, circuit.State{}, circuit.Decision{Mode: circuit.ModeSwitchOn})
	obs.OnStep(0, circuit.State{}, circuit.Decision{Mode: circuit.ModeSwitchOn})
	obs.OnStep(0, circuit.State{}, circuit.Decision{Mode: circuit.ModeBothBlocked})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.steps.WithLabelValues("SWITCH_ON")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.steps.WithLabelValues("BOTH_BLOCKED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.steps.WithLabelValues("RECTIFIER_CONDUCTING")))
}

func TestRecordRun(t *testing.T) {
	m := New()
	m.RecordRun("ref", 4.5, 6.25, 20*time.Millisecond)
	m.RecordFailure()

	assert.Equal(t, 4.5, testutil.ToFloat64(m.finalVOut.WithLabelValues("ref")))
	assert.Equal(t, 6.25, testutil.ToFloat64(m.errorPct.WithLabelValues("ref")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("error")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordRun("ref", 4.5, 6.25, time.Millisecond)

	path := filepath.Join(t.TempDir(), "buck.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `buck_final_vout_volts{circuit="ref"} 4.5`)
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordRun("ref", 4.5, 6.25, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "buck_runs_total"))
}
