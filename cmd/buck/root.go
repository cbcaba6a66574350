package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/edp1096/toy-buck/internal/logging"
	"github.com/edp1096/toy-buck/pkg/config"
)

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "buck",
	Short: "buck simulates an open-loop PWM step-down converter",
	Long: `buck integrates a switched step-down converter with parasitic resistances
on a fixed time grid and compares the final output voltage with Vin*D.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

// loadRun reads the optional circuit file; without one the reference design is used.
func loadRun(args []string) (config.Run, error) {
	if len(args) == 0 {
		return config.Reference(), nil
	}
	return config.Load(args[0])
}
