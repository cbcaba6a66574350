package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/edp1096/toy-buck/pkg/device"
	"github.com/edp1096/toy-buck/pkg/matrix"
)

// OperatingPoint solves the averaged equivalent of the converter for its DC output.
type OperatingPoint struct {
	BaseAnalysis
	network  *circuit.Network
	solution map[string]float64
}

func NewOP(logger *slog.Logger) *OperatingPoint {
	return &OperatingPoint{
		BaseAnalysis: *NewBaseAnalysis(logger),
	}
}

func (op *OperatingPoint) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	op.Circuit = ckt
	op.network = ckt.Averaged()
	return nil
}

func (op *OperatingPoint) Execute() error {
	if op.network == nil {
		return fmt.Errorf("circuit not set")
	}

	mat, err := matrix.NewMatrix(op.network.Size())
	if err != nil {
		return fmt.Errorf("operating point: %w", err)
	}
	defer mat.Destroy()

	mat.SetupElements()
	if err := op.network.Stamp(mat, &device.CircuitStatus{}); err != nil {
		return fmt.Errorf("stamping error: %w", err)
	}

	if op.logger.Enabled(context.Background(), slog.LevelDebug) {
		var b strings.Builder
		mat.PrintSystem(&b)
		op.logger.Debug("averaged system", "circuit", op.Circuit.Name(), "equations", b.String())
	}

	if err := mat.Solve(); err != nil {
		return fmt.Errorf("matrix solve error: %w", err)
	}

	op.solution = op.network.Solution(mat.Solution())
	for key, value := range op.solution {
		op.results[key] = []float64{value}
	}

	op.logger.Debug("averaged operating point", "circuit", op.Circuit.Name(), "vout", op.Output())
	return nil
}

// Output is the averaged output node voltage.
func (op *OperatingPoint) Output() float64 {
	return op.solution[fmt.Sprintf("V(%s)", op.Circuit.Names().OutputNode)]
}

func (op *OperatingPoint) Solution() map[string]float64 {
	return op.solution
}
