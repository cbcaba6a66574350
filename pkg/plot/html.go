package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/edp1096/toy-buck/pkg/analysis"
)

// WriteHTML renders one zoomable line chart per panel on a single page.
func WriteHTML(w io.Writer, tj *analysis.Trajectory, o Options) error {
	if tj == nil || tj.Len() == 0 {
		return fmt.Errorf("empty trajectory")
	}

	step := stride(tj.Len(), o.MaxPoints)
	xs := milliseconds(tj.Time, step)
	labels := make([]string, len(xs))
	for i, x := range xs {
		labels[i] = fmt.Sprintf("%.4f", x)
	}

	page := components.NewPage()
	page.PageTitle = o.Title
	if page.PageTitle == "" {
		page.PageTitle = "waveforms"
	}

	for i, pn := range Panels(tj) {
		line := charts.NewLine()

		yAxis := opts.YAxis{Name: pn.Label, Scale: opts.Bool(true)}
		if pn.Min != nil && pn.Max != nil {
			yAxis.Min, yAxis.Max = *pn.Min, *pn.Max
		}
		title := opts.Title{Subtitle: pn.Label}
		if i == 0 {
			title.Title = o.Title
		}

		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{
				Theme: types.ThemeWesteros,
			}),
			charts.WithTitleOpts(title),
			charts.WithXAxisOpts(opts.XAxis{
				Name:        "ms",
				SplitNumber: 20,
			}),
			charts.WithYAxisOpts(yAxis),
			charts.WithDataZoomOpts(opts.DataZoom{
				Type:       "inside",
				Start:      0,
				End:        100,
				XAxisIndex: []int{0},
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		)

		items := make([]opts.LineData, len(xs))
		for j := range items {
			items[j] = opts.LineData{Value: pn.Y[j*step]}
		}
		line.SetXAxis(labels).AddSeries(pn.Label, items)
		page.AddCharts(line)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}
