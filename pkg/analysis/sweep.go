package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/edp1096/toy-buck/pkg/circuit"
)

// SweepPoint is one duty cycle of a DutySweep.
type SweepPoint struct {
	Duty     float64 `json:"duty"`
	VOut     float64 `json:"vout"`
	IL       float64 `json:"il"`
	Ideal    float64 `json:"ideal"`
	Averaged float64 `json:"averaged"`
}

// DutySweep reruns the transient for each duty cycle in [from, to].
type DutySweep struct {
	BaseAnalysis
	duties []float64
	points []SweepPoint
}

func NewDutySweep(from, to, step float64, logger *slog.Logger) (*DutySweep, error) {
	if step <= 0 || from > to {
		return nil, fmt.Errorf("invalid duty sweep %g..%g step %g", from, to, step)
	}

	n := int(math.Floor((to-from)/step+1e-9)) + 1
	duties := make([]float64, n)
	for i := range duties {
		duties[i] = from + float64(i)*step
	}

	return &DutySweep{
		BaseAnalysis: *NewBaseAnalysis(logger),
		duties:       duties,
	}, nil
}

func (ds *DutySweep) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	p := ckt.Parameters()
	for _, d := range ds.duties {
		p.Duty = d
		if err := p.Validate(); err != nil {
			return fmt.Errorf("duty %g: %w", d, err)
		}
	}

	ds.Circuit = ckt
	return nil
}

func (ds *DutySweep) Execute() error {
	if ds.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	names := ds.Circuit.Names()
	outKey := fmt.Sprintf("V(%s)", names.OutputNode)
	ilKey := fmt.Sprintf("I(%s)", names.Inductor)

	ds.points = ds.points[:0]
	for _, d := range ds.duties {
		p := ds.Circuit.Parameters()
		p.Duty = d

		ckt, err := circuit.New(ds.Circuit.Name(), p, names)
		if err != nil {
			return fmt.Errorf("duty %g: %w", d, err)
		}

		tr := NewTransient(ds.logger)
		if err := tr.Setup(ckt); err != nil {
			return fmt.Errorf("duty %g: %w", d, err)
		}
		if err := tr.Execute(); err != nil {
			return fmt.Errorf("duty %g: %w", d, err)
		}

		op := NewOP(ds.logger)
		if err := op.Setup(ckt); err != nil {
			return fmt.Errorf("duty %g: %w", d, err)
		}
		if err := op.Execute(); err != nil {
			return fmt.Errorf("duty %g: %w", d, err)
		}

		final := tr.Final()
		pt := SweepPoint{Duty: d, VOut: final.VOut, IL: final.IL, Ideal: tr.Predicted(), Averaged: op.Output()}
		ds.points = append(ds.points, pt)
		ds.StoreResult("DUTY", d, map[string]float64{
			outKey:     pt.VOut,
			ilKey:      pt.IL,
			"IDEAL":    pt.Ideal,
			"AVERAGED": pt.Averaged,
		})

		ds.logger.Info("sweep point", "duty", d, "vout", pt.VOut, "ideal", pt.Ideal)
	}

	return nil
}

func (ds *DutySweep) Points() []SweepPoint {
	return ds.points
}

func (ds *DutySweep) Duties() []float64 {
	return ds.duties
}
