// Package app wires configuration, drivers, the layer stack and the status
// server into one running core.
package app

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	diag "github.com/coreman2200/halo/internal/diagnostics"
	"github.com/coreman2200/halo/internal/config"
	"github.com/coreman2200/halo/internal/field"
	"github.com/coreman2200/halo/internal/layer"
	"github.com/coreman2200/halo/internal/led"
	"github.com/coreman2200/halo/internal/loop"
	"github.com/coreman2200/halo/internal/render"
	"github.com/coreman2200/halo/internal/setting"
	"github.com/coreman2200/halo/internal/ws"
)

type Core struct {
	Cfg        *config.Config
	Renderer   *render.Renderer
	Hub        *ws.Hub
	Brightness *setting.Float
	Pose       *field.PoseStore
	Env        layer.Env
	Driver     led.Driver

	log        zerolog.Logger
	writeFails uint64
}

// InitCore builds the core around drv. Frames go to drv through the power
// limiter and to websocket clients.
func InitCore(cfg *config.Config, drv led.Driver, driverName string, log zerolog.Logger) (*Core, error) {
	c := &Core{
		Cfg:        cfg,
		Hub:        ws.NewHub(cfg.Strip.Length, driverName),
		Brightness: setting.NewFloat(cfg.Brightness, 0, 1),
		Pose:       field.NewPoseStore(cfg.InitialPose()),
		log:        log,
	}
	c.Hub.Brightness = c.Brightness.Get
	c.Driver = led.Multi{&led.Limited{Next: drv, Power: cfg.Power}, c.Hub}

	c.Env = layer.Env{
		Geometry:     cfg.Geometry(),
		Pose:         c.Pose,
		Brightness:   c.Brightness,
		Rand:         NewRand(cfg.Seed),
		Tuning:       cfg.Tuning(),
		DriverTarget: cfg.DriverTarget(),
	}

	r, err := render.New(cfg.Strip.Length, c.Driver, c.Hub)
	if err != nil {
		return nil, err
	}
	c.Renderer = r

	for _, spec := range cfg.Layers {
		lc, err := spec.Layer(cfg.Defaults)
		if err == nil {
			var l *layer.Layer
			if l, err = layer.New(lc, c.Env); err == nil {
				r.AddLayer(l)
				continue
			}
		}
		log.Warn().Err(err).Str("layer", spec.Name).Msg("skipping startup layer")
	}
	log.Info().Strs("layers", r.LayerNames()).Int("length", cfg.Strip.Length).Msg("core ready")
	return c, nil
}

// NewRand returns the animation random source. Seed 0 seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Tick applies queued control commands then renders one frame at t seconds.
func (c *Core) Tick(t float64) {
	targets := ws.Targets{Renderer: c.Renderer, Brightness: c.Brightness, Pose: c.Pose}
	c.Hub.Drain(func(cmd ws.Command) {
		if err := cmd.Apply(targets); err != nil {
			c.log.Debug().Err(err).Str("type", cmd.Type).Str("layer", cmd.Layer).Msg("control rejected")
			c.Hub.Push(ws.Diagnose(cmd, err))
		}
	})

	err := c.Renderer.Render(t)
	c.Hub.RecordRender(c.Renderer.Last.RenderMS)
	if err != nil {
		c.writeFails++
		// first failure, then every 100th
		if c.writeFails%100 == 1 {
			c.log.Warn().Err(err).Uint64("failures", c.writeFails).Msg("driver write failed")
			c.Hub.Push(diag.DriverWrite(err, c.Renderer.Last.Frames))
		}
	}
}

// Run ticks at cfg.FPS until ctx is cancelled, then blanks the strip.
func (c *Core) Run(ctx context.Context) error {
	l := loop.New(c.Cfg.FPS, c.log)
	err := l.Run(ctx, c.Tick)
	if cerr := c.Driver.Close(); err == nil {
		err = cerr
	}
	return err
}
