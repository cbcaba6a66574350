package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/edp1096/toy-buck/internal/metrics"
	"github.com/edp1096/toy-buck/pkg/netlist"
	"github.com/edp1096/toy-buck/pkg/plot"
	"github.com/edp1096/toy-buck/pkg/report"
	"github.com/edp1096/toy-buck/pkg/simulator"
)

var runCmd = &cobra.Command{
	Use:   "run [circuit file]",
	Short: "Run one transient simulation",
	Long: `Runs the switching simulation for a netlist (.cir) or run document (.yaml, .json).
Without a file the reference design is simulated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRun(args)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("substeps") {
			run.Parameters.Substeps, _ = flags.GetInt("substeps")
		}
		if flags.Changed("duration") {
			raw, _ := flags.GetString("duration")
			if run.Parameters.Duration, err = netlist.ParseValue(raw); err != nil {
				return fmt.Errorf("--duration: %w", err)
			}
		}

		var m *metrics.Metrics
		metricsFile, _ := flags.GetString("metrics-file")
		if metricsFile != "" {
			m = metrics.New()
		}

		res, err := simulator.Simulate(cmd.Context(), run, simulator.Options{Logger: logger, Metrics: m})
		if err != nil {
			return err
		}

		if err := writeArtifacts(cmd, res); err != nil {
			return err
		}
		if m != nil {
			if err := m.WriteTextfile(metricsFile); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := flags.GetBool("json"); asJSON {
			return res.Report.WriteJSON(out)
		}

		if every, _ := flags.GetInt("print-every"); every > 0 {
			report.WriteResults(out, res.Transient.GetResults(), every)
		}

		pretty, _ := flags.GetBool("pretty")
		isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
		if !flags.Changed("pretty") {
			pretty = isTerminal
		}
		if !pretty {
			return res.Report.WriteText(out)
		}

		style := "notty"
		if isTerminal {
			style = ""
		}
		rendered, err := report.RenderMarkdown(res.Report.Markdown(), style, 80)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	},
}

func writeArtifacts(cmd *cobra.Command, res *simulator.Result) error {
	tj := res.Transient.Trajectory()
	opts := plot.Options{Title: res.Run.Name}

	write := func(flag string, fn func(f *os.File) error) error {
		path, _ := cmd.Flags().GetString(flag)
		if path == "" {
			return nil
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("--%s: %w", flag, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("--%s: %w", flag, err)
		}
		logger.Info("wrote file", "path", path)
		return f.Close()
	}

	if err := write("plot", func(f *os.File) error { return plot.WritePNG(f, tj, opts) }); err != nil {
		return err
	}
	if err := write("html", func(f *os.File) error {
		return plot.WriteHTML(f, tj, plot.Options{Title: opts.Title, MaxPoints: 5000})
	}); err != nil {
		return err
	}
	return write("csv", func(f *os.File) error { return tj.WriteCSV(f, res.Transient.Header()) })
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("substeps", 0, "Override steps per switching period")
	runCmd.Flags().String("duration", "", "Override simulated time, e.g. 5m")
	runCmd.Flags().String("plot", "", "Write the waveform figure as PNG")
	runCmd.Flags().String("html", "", "Write interactive waveforms as HTML")
	runCmd.Flags().String("csv", "", "Write the trajectory as CSV")
	runCmd.Flags().Bool("json", false, "Print the report as JSON")
	runCmd.Flags().Bool("pretty", false, "Render the report as styled Markdown (default when stdout is a terminal)")
	runCmd.Flags().Int("print-every", 0, "Print every n-th sample of the trajectory")
	runCmd.Flags().String("metrics-file", "", "Write Prometheus metrics in textfile format")
}
