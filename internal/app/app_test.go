package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/halo/internal/config"
	"github.com/coreman2200/halo/internal/led"
	"github.com/coreman2200/halo/internal/strip"
	"github.com/coreman2200/halo/internal/ws"
)

func testConfig() *config.Config {
	off, half := false, 0.5
	c := config.Default()
	c.Seed = 1
	c.FPS = 200
	c.Strip = config.Strip{
		Length:        10,
		Starboard:     strip.Span{Start: 0, End: 4},
		Port:          strip.Span{Start: 5, End: 9},
		DegreesPerLED: 36,
	}
	c.Layers = []config.LayerSpec{
		{Name: "base", Type: "solid", Mode: "whole_strip", ColorOn: "#00ff00", Border: &off},
		{Name: "bar", Type: "progress", Mode: "static_segment", Priority: 1, Start: 2, Width: 4,
			ColorOn: "#ffffff", ColorOff: "#0000ff", Border: &off, Progress: &half},
		{Name: "huge", Type: "solid", Mode: "static_segment", Width: 50},
	}
	return c
}

func TestCoreRendersStartupLayers(t *testing.T) {
	sim := led.NewSim(zerolog.Nop(), 1)
	core, err := InitCore(testConfig(), sim, "sim", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "bar"}, core.Renderer.LayerNames())

	core.Tick(0)
	want := []strip.Color{
		strip.Green, strip.Green,
		strip.White, strip.White, strip.Blue, strip.Blue,
		strip.Green, strip.Green, strip.Green, strip.Green,
	}
	assert.Equal(t, want, sim.Last())

	rec := httptest.NewRecorder()
	core.Hub.HandleHealth(rec, httptest.NewRequest("GET", "/health", nil))
	var health struct {
		RenderMS float64 `json:"render_ms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, core.Renderer.Last.RenderMS, health.RenderMS)
}

func TestCoreAppliesCommandsBeforeRendering(t *testing.T) {
	sim := led.NewSim(zerolog.Nop(), 1)
	core, err := InitCore(testConfig(), sim, "sim", zerolog.Nop())
	require.NoError(t, err)

	require.True(t, core.Hub.Enqueue(ws.Command{Type: "progress", Layer: "bar", Value: 1}))
	require.True(t, core.Hub.Enqueue(ws.Command{Type: "brightness", Value: 0.5}))
	require.True(t, core.Hub.Enqueue(ws.Command{Type: "dance"}))
	core.Tick(0.1)

	px := sim.Last()
	assert.Equal(t, strip.Color{G: 0.5}, px[0])
	assert.Equal(t, strip.Color{R: 0.5, G: 0.5, B: 0.5}, px[5])

	require.True(t, core.Hub.Enqueue(ws.Command{Type: "remove", Layer: "base"}))
	core.Tick(0.2)
	assert.Equal(t, strip.Background, sim.Last()[0])
	assert.Equal(t, []string{"bar"}, core.Renderer.LayerNames())
}

type brokenDriver struct{ closed bool }

func (b *brokenDriver) Write([]strip.Color) error { return errors.New("bus gone") }
func (b *brokenDriver) Close() error              { b.closed = true; return nil }

func TestCoreSurvivesDriverFailure(t *testing.T) {
	drv := &brokenDriver{}
	core, err := InitCore(testConfig(), drv, "spi", zerolog.Nop())
	require.NoError(t, err)
	core.Tick(0)
	core.Tick(0.1)
	assert.Equal(t, uint64(2), core.writeFails)
	assert.Equal(t, uint64(2), core.Renderer.Last.Frames)
}

func TestCoreRunClosesDriver(t *testing.T) {
	drv := &brokenDriver{}
	core, err := InitCore(testConfig(), drv, "spi", zerolog.Nop())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, core.Run(ctx))
	assert.True(t, drv.closed)
}

func TestOpenDriverFallsBackToSim(t *testing.T) {
	cfg := testConfig()
	cfg.Driver = "pwm"
	d, name := OpenDriver(cfg, zerolog.Nop())
	assert.Equal(t, "sim", name)
	assert.IsType(t, &led.Sim{}, d)
}

func TestNewRandSeeded(t *testing.T) {
	assert.Equal(t, NewRand(7).Float64(), NewRand(7).Float64())
}
