// Package plot draws the four stacked waveforms of a run: PWM, iL, v_sw and v_out against time in ms.
package plot

import (
	"fmt"
	"io"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/edp1096/toy-buck/pkg/analysis"
)

// Panel is one waveform against time.
type Panel struct {
	Label string
	Y     []float64
	Min   *float64 // Fixed axis range when set
	Max   *float64
}

// Panels returns the waveforms in display order.
func Panels(tj *analysis.Trajectory) []Panel {
	lo, hi := -0.2, 1.2
	return []Panel{
		{Label: "PWM", Y: tj.PWM, Min: &lo, Max: &hi},
		{Label: "iL (A)", Y: tj.IL},
		{Label: "v_sw (V)", Y: tj.VSw},
		{Label: "v_out (V)", Y: tj.VOut},
	}
}

// stride keeps at most limit points.
func stride(n, limit int) int {
	if limit <= 0 || n <= limit {
		return 1
	}
	return (n + limit - 1) / limit
}

func milliseconds(t []float64, step int) []float64 {
	out := make([]float64, 0, len(t)/step+1)
	for i := 0; i < len(t); i += step {
		out = append(out, t[i]*1e3)
	}
	return out
}

type Options struct {
	Title     string
	Width     vg.Length
	Height    vg.Length
	MaxPoints int // 0 keeps every sample
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 12 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 9 * vg.Inch
	}
	return o
}

// WritePNG renders the panels stacked vertically.
func WritePNG(w io.Writer, tj *analysis.Trajectory, o Options) error {
	if tj == nil || tj.Len() == 0 {
		return fmt.Errorf("empty trajectory")
	}
	o = o.withDefaults()

	step := stride(tj.Len(), o.MaxPoints)
	xs := milliseconds(tj.Time, step)
	panels := Panels(tj)

	plots := make([][]*gplot.Plot, len(panels))
	for i, pn := range panels {
		p := gplot.New()
		p.Y.Label.Text = pn.Label
		if i == 0 {
			p.Title.Text = o.Title
		}
		if i == len(panels)-1 {
			p.X.Label.Text = "time (ms)"
		}

		pts := make(plotter.XYs, len(xs))
		for j := range pts {
			pts[j].X = xs[j]
			pts[j].Y = pn.Y[j*step]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", pn.Label, err)
		}
		line.LineStyle.Width = vg.Points(0.7)
		p.Add(line)
		p.Add(plotter.NewGrid())

		if pn.Min != nil && pn.Max != nil {
			p.Y.Min, p.Y.Max = *pn.Min, *pn.Max
		}
		plots[i] = []*gplot.Plot{p}
	}

	img := vgimg.New(o.Width, o.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      2 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}

	canvases := gplot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	return nil
}
