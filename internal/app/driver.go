package app

import (
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/halo/internal/config"
	"github.com/coreman2200/halo/internal/led"
)

// OpenDriver builds the configured hardware driver, falling back to the
// simulator when it cannot be opened. It returns the name of the driver
// actually in use.
func OpenDriver(cfg *config.Config, log zerolog.Logger) (led.Driver, string) {
	switch cfg.Driver {
	case "spi":
		freq := physic.Frequency(cfg.SPI.FreqKHz) * physic.KiloHertz
		d, err := led.OpenNRZ(cfg.SPI.Port, cfg.Strip.Length, freq)
		if err == nil {
			log.Info().Str("driver", "spi").Str("dev", d.String()).Msg("strip attached")
			return d, "spi"
		}
		log.Warn().Err(err).
			Str("driver", "spi").
			Str("port", cfg.SPI.Port).
			Int("freq_khz", cfg.SPI.FreqKHz).
			Msg("SPI init failed; falling back to SIM")
	case "sim":
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
	}
	return led.NewSim(log, cfg.SimEvery), "sim"
}
