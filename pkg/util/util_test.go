package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValueFactor(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  string
	}{
		{0, "V", "0.000 V"},
		{12, "V", "12.000 V"},
		{4.8, "V", "4.800 V"},
		{200e-6, "H", "200.000 uH"},
		{47e-6, "F", "47.000 uF"},
		{0.05, "ohm", "50.000 mohm"},
		{2.5e-7, "s", "250.000 ns"},
		{10e3, "Hz", "10.000 kHz"},
		{-1.5e-3, "A", "-1.500 mA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValueFactor(tt.value, tt.unit))
	}
}

func TestFormatFrequency(t *testing.T) {
	assert.Equal(t, " 10.000 kHz", FormatFrequency(10e3))
	assert.Equal(t, "  1.500 MHz", FormatFrequency(1.5e6))
	assert.Equal(t, "500.000 Hz ", FormatFrequency(500))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "8.979 %", FormatPercent(8.9791))
}

func TestForwardEuler(t *testing.T) {
	assert.Equal(t, 1.5, ForwardEuler(1, 5, 0.1))
	assert.Equal(t, 1.0, ForwardEuler(1, 0, 0.1))
}

func TestStepCount(t *testing.T) {
	period := 1 / 10e3
	dt := period / 400
	count := func(span, dt float64) int {
		n, ok := StepCount(span, dt)
		require.True(t, ok)
		return n
	}
	assert.Equal(t, 20000, count(5e-3, dt))
	assert.Equal(t, 3, count(2.5, 1))
	assert.Equal(t, 2, count(2, 1))
}

func TestStepCountOverflow(t *testing.T) {
	for _, span := range []float64{1e300, math.MaxFloat64, math.Inf(1), math.NaN()} {
		n, ok := StepCount(span, 2.5e-7)
		assert.False(t, ok, "span=%g", span)
		assert.Zero(t, n)
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}
