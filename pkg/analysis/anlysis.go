package analysis

import (
	"log/slog"

	"github.com/edp1096/toy-buck/internal/logging"
	"github.com/edp1096/toy-buck/pkg/circuit"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Circuit *circuit.Circuit
	results map[string][]float64 // key: variable name, value: result by sweep point
	logger  *slog.Logger
}

func NewBaseAnalysis(logger *slog.Logger) *BaseAnalysis {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BaseAnalysis{
		results: make(map[string][]float64),
		logger:  logger,
	}
}

// StoreResult appends one row: the sweep variable under axis and every solution value under its own key.
func (a *BaseAnalysis) StoreResult(axis string, x float64, solution map[string]float64) {
	a.results[axis] = append(a.results[axis], x)
	for name, value := range solution {
		a.results[name] = append(a.results[name], value)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
