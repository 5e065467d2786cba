package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "halo",
		Short: "halo - layered LED strip compositor for the robot's light ring",
		Long: `halo composites independently configured light layers (progress bars,
status segments, heading pointers, animations) onto one addressable LED
strip and pushes frames to the hardware at a fixed rate.

Without SPI hardware it runs against a simulated strip; live frames are
served on /ws either way.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(flagLogLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "halo.yaml", "path to the yaml config")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: trace|debug|info|warn|error")

	rootCmd.AddCommand(runCmd(), selftestCmd(), configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	return nil
}
