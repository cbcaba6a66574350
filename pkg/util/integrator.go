package util

import "math"

// ForwardEuler advances x by one explicit step of size dt along slope.
func ForwardEuler(x, slope, dt float64) float64 {
	return x + slope*dt
}

// StepCount is the number of uniformly spaced samples k*dt that fall in [0, span).
// ok is false when the count is not a representable int.
func StepCount(span, dt float64) (n int, ok bool) {
	c := math.Ceil(span / dt)
	if math.IsNaN(c) || c < 0 || c >= float64(math.MaxInt) {
		return 0, false
	}
	return int(c), true
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
