// Package config loads the yaml configuration for the halo daemon.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/halo/internal/disco"
	"github.com/coreman2200/halo/internal/field"
	"github.com/coreman2200/halo/internal/layer"
	"github.com/coreman2200/halo/internal/led"
	"github.com/coreman2200/halo/internal/strip"
)

type SPI struct {
	Port    string `yaml:"port"`     // "" picks the first port, e.g. SPI0.0
	FreqKHz int    `yaml:"freq_khz"` // e.g. 2500
}

type Strip struct {
	Length        int        `yaml:"length"`
	Starboard     strip.Span `yaml:"starboard"`
	Port          strip.Span `yaml:"port"`
	StartOffset   int        `yaml:"start_offset"`
	DegreesPerLED float64    `yaml:"degrees_per_led"`
}

// Defaults fill in whatever a layer spec leaves out.
type Defaults struct {
	ColorOn                  string `yaml:"color_on"`
	ColorOff                 string `yaml:"color_off"`
	BorderColor              string `yaml:"border_color"`
	Width                    int    `yaml:"width"`
	Segments                 int    `yaml:"segments"`
	PointerGradientThreshold int    `yaml:"pointer_gradient_threshold"`
}

type Disco struct {
	Min          int     `yaml:"min"`
	Max          int     `yaml:"max"`
	AgeLimit     float64 `yaml:"age_limit"`
	disco.Params `yaml:",inline"`
}

type Pose struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
}

type Field struct {
	Alliance string `yaml:"alliance"`
	Station  int    `yaml:"station"`
	Pose     Pose   `yaml:"pose"`
}

type Config struct {
	Driver     string  `yaml:"driver"` // "spi" | "sim"
	SPI        SPI     `yaml:"spi"`
	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"`
	Addr       string  `yaml:"addr"`
	// Seed for the animation RNG; 0 seeds from the clock.
	Seed     uint64 `yaml:"seed"`
	SimEvery int    `yaml:"sim_log_every"`

	Strip    Strip       `yaml:"strip"`
	Defaults Defaults    `yaml:"defaults"`
	Disco    Disco       `yaml:"disco"`
	Power    led.Power   `yaml:"power"`
	Field    Field       `yaml:"field"`
	Layers   []LayerSpec `yaml:"layers"`
}

func Default() *Config {
	g := strip.DefaultGeometry()
	t := layer.DefaultTuning()
	return &Config{
		Driver:     "sim",
		SPI:        SPI{FreqKHz: 2500},
		FPS:        50,
		Brightness: 1,
		Addr:       ":8080",
		SimEvery:   50,
		Strip: Strip{
			Length:        g.Length,
			Starboard:     g.Starboard,
			Port:          g.Port,
			StartOffset:   g.StartOffset,
			DegreesPerLED: g.DegreesPerLED,
		},
		Defaults: Defaults{
			ColorOn:                  "#00ff00",
			ColorOff:                 "#ff0000",
			BorderColor:              "#0000ff",
			Width:                    30,
			Segments:                 3,
			PointerGradientThreshold: t.PointerGradientThreshold,
		},
		Disco: Disco{
			Min:      t.DiscoMin,
			Max:      t.DiscoMax,
			AgeLimit: t.DiscoAgeLimit,
			Params:   t.Disco,
		},
		Power: led.DefaultPower(),
		Field: Field{Alliance: "blue", Station: 1},
		Layers: []LayerSpec{
			{Name: "ambient", Type: "disco", Mode: "whole_strip"},
			{Name: "driver", Type: "pointer", Mode: "driver_face", Priority: 1, Width: 9, Border: new(bool)},
		},
	}
}

// Load reads path over the defaults, so a partial file only overrides
// what it names.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Driver {
	case "sim", "spi":
	default:
		errs = append(errs, fmt.Errorf("driver %q: want sim or spi", c.Driver))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		errs = append(errs, fmt.Errorf("brightness %v outside 0..1", c.Brightness))
	}
	if c.Strip.Length <= 0 {
		errs = append(errs, fmt.Errorf("strip length must be positive, got %d", c.Strip.Length))
	}
	for name, s := range map[string]strip.Span{"starboard": c.Strip.Starboard, "port": c.Strip.Port} {
		if s.Start < 0 || s.End < s.Start || s.End > c.Strip.Length {
			errs = append(errs, fmt.Errorf("%s span %d..%d outside strip", name, s.Start, s.End))
		}
	}
	if c.Disco.Min < 0 || c.Disco.Max < c.Disco.Min || c.Disco.AgeLimit <= 0 {
		errs = append(errs, fmt.Errorf("disco bounds min=%d max=%d age=%v", c.Disco.Min, c.Disco.Max, c.Disco.AgeLimit))
	}
	if _, err := field.ParseAlliance(c.Field.Alliance); err != nil {
		errs = append(errs, err)
	}
	for i, s := range c.Layers {
		if _, err := s.Layer(c.Defaults); err != nil {
			errs = append(errs, fmt.Errorf("layers[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) Geometry() strip.Geometry {
	return strip.Geometry{
		Length:        c.Strip.Length,
		Starboard:     c.Strip.Starboard,
		Port:          c.Strip.Port,
		StartOffset:   c.Strip.StartOffset,
		DegreesPerLED: c.Strip.DegreesPerLED,
	}
}

func (c *Config) Tuning() layer.Tuning {
	t := layer.DefaultTuning()
	t.PointerGradientThreshold = c.Defaults.PointerGradientThreshold
	t.DiscoMin = c.Disco.Min
	t.DiscoMax = c.Disco.Max
	t.DiscoAgeLimit = c.Disco.AgeLimit
	t.Disco = c.Disco.Params
	return t
}

// DriverTarget is the driver station point for the configured alliance.
func (c *Config) DriverTarget() field.Point {
	a, _ := field.ParseAlliance(c.Field.Alliance)
	return field.DriverTarget(a, c.Field.Station)
}

func (c *Config) InitialPose() field.Pose {
	p := c.Field.Pose
	return field.Pose{Point: field.Point{X: p.X, Y: p.Y}, Heading: p.Heading}
}
