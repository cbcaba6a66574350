package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edp1096/toy-buck/pkg/report"
	"github.com/edp1096/toy-buck/pkg/simulator"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [circuit file]",
	Short: "Sweep the duty cycle",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRun(args)
		if err != nil {
			return err
		}

		from, _ := cmd.Flags().GetFloat64("from")
		to, _ := cmd.Flags().GetFloat64("to")
		step, _ := cmd.Flags().GetFloat64("step")

		ds, err := simulator.Sweep(cmd.Context(), run, from, to, step, logger)
		if err != nil {
			return err
		}

		pretty, _ := cmd.Flags().GetBool("pretty")
		if !pretty {
			report.WriteResults(cmd.OutOrStdout(), ds.GetResults(), 1)
			return nil
		}

		rendered, err := report.RenderMarkdown(report.SweepMarkdown(ds.Points()), "", 100)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
		return err
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().Float64("from", 0.1, "First duty cycle")
	sweepCmd.Flags().Float64("to", 0.9, "Last duty cycle")
	sweepCmd.Flags().Float64("step", 0.1, "Duty cycle increment")
	sweepCmd.Flags().Bool("pretty", false, "Render the table as styled Markdown")
}
