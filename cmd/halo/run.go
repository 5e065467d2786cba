package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/halo/internal/app"
	"github.com/coreman2200/halo/internal/config"
)

func runCmd() *cobra.Command {
	var (
		driver     string
		addr       string
		fps        int
		brightness float64
		simOnly    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the strip until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			// ---- Flags override the file ----
			if cmd.Flags().Changed("driver") {
				cfg.Driver = driver
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("fps") {
				cfg.FPS = fps
			}
			if cmd.Flags().Changed("brightness") {
				cfg.Brightness = brightness
			}
			if simOnly {
				cfg.Driver = "sim"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			drv, name := app.OpenDriver(cfg, log.Logger)
			core, err := app.InitCore(cfg, drv, name, log.Logger)
			if err != nil {
				_ = drv.Close()
				return err
			}

			srv := &http.Server{
				Addr:         cfg.Addr,
				Handler:      withCORS(core.Hub.Mux()),
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("driver", name).Msg("HTTP server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("http server crashed")
				}
			}()

			// ---- Graceful shutdown ----
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = core.Run(ctx)
			log.Info().Msg("shutting down")
			_ = srv.Close()
			return err
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "sim", "driver: spi | sim")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().IntVar(&fps, "fps", 50, "target frames per second")
	cmd.Flags().Float64Var(&brightness, "brightness", 1, "global brightness 0..1")
	cmd.Flags().BoolVar(&simOnly, "sim-only", false, "force simulation (no hardware output)")
	return cmd
}

// loadConfig reads --config, proceeding with defaults when it is missing.
func loadConfig() *config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		log.Warn().Err(err).Str("path", flagConfig).Msg("config load failed; proceeding with defaults")
		return config.Default()
	}
	return cfg
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
