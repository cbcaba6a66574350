package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/edp1096/toy-buck/pkg/analysis"
	"github.com/edp1096/toy-buck/pkg/circuit"
	"github.com/edp1096/toy-buck/pkg/util"
)

func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n", r.Name)
	fmt.Fprintln(&b, strings.Repeat("=", max(len(r.Name), 16)))
	fmt.Fprintf(&b, "Switching:            %s at D = %.3f, on for %s\n",
		util.FormatFrequency(r.Switching.Frequency), r.Parameters.Duty, util.FormatValueFactor(r.Switching.OnTime, "s"))
	fmt.Fprintf(&b, "Final output voltage:  %s\n", util.FormatValueFactor(r.Final.VOut, "V"))
	fmt.Fprintf(&b, "Ideal Vin*D:           %s\n", util.FormatValueFactor(r.Ideal, "V"))
	fmt.Fprintf(&b, "Error:                 %s\n", util.FormatPercent(r.ErrorPercent))
	if r.Averaged != nil {
		fmt.Fprintf(&b, "Averaged model:        %s\n", util.FormatValueFactor(*r.Averaged, "V"))
	}
	fmt.Fprintf(&b, "Final inductor current: %s\n", util.FormatValueFactor(r.Final.IL, "A"))

	fmt.Fprintln(&b, "\nLast period:")
	fmt.Fprintf(&b, "  v_out  %s .. %s\n", util.FormatValueFactor(r.Ripple.VOutMin, "V"), util.FormatValueFactor(r.Ripple.VOutMax, "V"))
	fmt.Fprintf(&b, "  iL     %s .. %s\n", util.FormatValueFactor(r.Ripple.ILMin, "A"), util.FormatValueFactor(r.Ripple.ILMax, "A"))

	fmt.Fprintf(&b, "\nSteps: %d of %s\n", r.Steps, util.FormatValueFactor(r.StepSize, "s"))
	for _, m := range circuit.Modes {
		fmt.Fprintf(&b, "  %-22s %d\n", m.String(), r.Modes[m.String()])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	fmt.Fprintln(&b, "| Quantity | Value |")
	fmt.Fprintln(&b, "|---|---|")
	fmt.Fprintf(&b, "| Final v_out | %s |\n", util.FormatValueFactor(r.Final.VOut, "V"))
	fmt.Fprintf(&b, "| Ideal Vin·D | %s |\n", util.FormatValueFactor(r.Ideal, "V"))
	fmt.Fprintf(&b, "| Error | %s |\n", util.FormatPercent(r.ErrorPercent))
	if r.Averaged != nil {
		fmt.Fprintf(&b, "| Averaged model | %s |\n", util.FormatValueFactor(*r.Averaged, "V"))
	}
	fmt.Fprintf(&b, "| Final iL | %s |\n", util.FormatValueFactor(r.Final.IL, "A"))
	fmt.Fprintf(&b, "| v_out ripple | %s .. %s |\n", util.FormatValueFactor(r.Ripple.VOutMin, "V"), util.FormatValueFactor(r.Ripple.VOutMax, "V"))
	fmt.Fprintf(&b, "| iL ripple | %s .. %s |\n", util.FormatValueFactor(r.Ripple.ILMin, "A"), util.FormatValueFactor(r.Ripple.ILMax, "A"))
	fmt.Fprintf(&b, "| Steps | %d × %s |\n", r.Steps, util.FormatValueFactor(r.StepSize, "s"))

	fmt.Fprintln(&b, "\n## Conduction modes")
	fmt.Fprintln(&b)
	for _, m := range circuit.Modes {
		fmt.Fprintf(&b, "- `%s`: %d steps\n", m.String(), r.Modes[m.String()])
	}
	return b.String()
}

// RenderMarkdown styles Markdown for a terminal. An empty style picks one from the environment.
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func SweepMarkdown(points []analysis.SweepPoint) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| Duty | Final v_out | Vin·D | Averaged | Error |")
	fmt.Fprintln(&b, "|---|---|---|---|---|")
	for _, pt := range points {
		fmt.Fprintf(&b, "| %.3f | %s | %s | %s | %s |\n", pt.Duty,
			util.FormatValueFactor(pt.VOut, "V"),
			util.FormatValueFactor(pt.Ideal, "V"),
			util.FormatValueFactor(pt.Averaged, "V"),
			util.FormatPercent(ErrorPercent(pt.VOut, pt.Ideal)))
	}
	return b.String()
}

// WriteResults prints a results map the way the simulator names probes.
// Transient tables print every n-th sample.
func WriteResults(w io.Writer, results map[string][]float64, every int) {
	if every < 1 {
		every = 1
	}

	var voltageNames, currentNames []string
	for name := range results {
		if strings.HasPrefix(name, "V(") {
			voltageNames = append(voltageNames, name)
		} else if strings.HasPrefix(name, "I(") {
			currentNames = append(currentNames, name)
		}
	}
	sort.Strings(voltageNames)
	sort.Strings(currentNames)

	row := func(i int) {
		for _, name := range voltageNames {
			fmt.Fprintf(w, "%s=%s  ", name, util.FormatValueFactor(results[name][i], "V"))
		}
		for _, name := range currentNames {
			fmt.Fprintf(w, "%s=%s  ", name, util.FormatValueFactor(results[name][i], "A"))
		}
		fmt.Fprintln(w)
	}

	// Duty sweep
	if duties, ok := results["DUTY"]; ok {
		fmt.Fprintf(w, "\nDuty Sweep Results (%d points):\n", len(duties))
		fmt.Fprintln(w, "------------------------------------------------")
		for i, d := range duties {
			fmt.Fprintf(w, "D=%-7.3f  ", d)
			for _, name := range []string{"IDEAL", "AVERAGED"} {
				if values, ok := results[name]; ok {
					fmt.Fprintf(w, "%s=%s  ", name, util.FormatValueFactor(values[i], "V"))
				}
			}
			row(i)
		}
		return
	}

	times, ok := results["TIME"]
	if !ok {
		fmt.Fprintln(w, "\nNode Voltages / Branch Currents:")
		row(0)
		return
	}

	fmt.Fprintf(w, "\nTransient Analysis Results (%d time points):\n", len(times))
	fmt.Fprintln(w, "Time        Node Voltages        Branch Currents")
	fmt.Fprintln(w, "------------------------------------------------")
	for i := 0; i < len(times); i += every {
		fmt.Fprintf(w, "%12s  PWM=%g  ", util.FormatValueFactor(times[i], "s"), results["PWM"][i])
		row(i)
	}
}
