package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/halo/internal/app"
	"github.com/coreman2200/halo/internal/loop"
	"github.com/coreman2200/halo/internal/selftest"
	"github.com/coreman2200/halo/internal/strip"
)

func selftestCmd() *cobra.Command {
	var (
		kinds []string
		fps   int
	)
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Walk the strip through wiring test patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := make([]selftest.Kind, 0, len(kinds))
			for _, k := range kinds {
				kind, err := selftest.ParseKind(k)
				if err != nil {
					return err
				}
				plan = append(plan, kind)
			}

			cfg := loadConfig()
			drv, name := app.OpenDriver(cfg, log.Logger)
			defer drv.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			buf := strip.NewBuffer(cfg.Strip.Length)
			var runner *selftest.Runner
			tick := func(float64) {
				for runner == nil || !runner.Step(buf) {
					if runner != nil {
						log.Info().Str("test", string(runner.Kind())).Msg("test complete")
					}
					if len(plan) == 0 {
						cancel()
						return
					}
					runner, plan = selftest.NewRunner(plan[0]), plan[1:]
					log.Info().Str("test", string(runner.Kind())).Str("driver", name).Msg("running test")
				}
				if err := drv.Write(buf.Pixels()); err != nil {
					log.Warn().Err(err).Msg("driver write failed")
				}
			}
			return loop.New(fps, log.Logger).Run(ctx, tick)
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "test", []string{"index_sweep", "rgb_channels", "hue"}, "tests to run in order")
	cmd.Flags().IntVar(&fps, "fps", 20, "frames per second")
	return cmd
}
