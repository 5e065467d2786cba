package config

import (
	"fmt"

	"github.com/coreman2200/halo/internal/field"
	"github.com/coreman2200/halo/internal/layer"
	"github.com/coreman2200/halo/internal/strip"
)

// LayerSpec describes one startup layer. Empty fields take the defaults.
type LayerSpec struct {
	Name        string       `yaml:"name"`
	Priority    int          `yaml:"priority"`
	Type        string       `yaml:"type"`
	Mode        string       `yaml:"mode"`
	Width       int          `yaml:"width,omitempty"`
	Start       int          `yaml:"start,omitempty"`
	ColorOn     string       `yaml:"color_on,omitempty"`
	ColorOff    string       `yaml:"color_off,omitempty"`
	Border      *bool        `yaml:"border,omitempty"`
	BorderColor string       `yaml:"border_color,omitempty"`
	Reversed    bool         `yaml:"reversed,omitempty"`
	Segments    int          `yaml:"segments,omitempty"`
	Period      float64      `yaml:"period,omitempty"`
	Progress    *float64     `yaml:"progress,omitempty"`
	Target      *field.Point `yaml:"target,omitempty"`
}

// Layer converts s to a layer.Config.
func (s LayerSpec) Layer(d Defaults) (layer.Config, error) {
	cfg := layer.DefaultConfig(s.Name)
	var err error
	if s.Name == "" {
		return cfg, fmt.Errorf("layer needs a name")
	}
	if s.Type != "" {
		if cfg.Type, err = layer.ParseType(s.Type); err != nil {
			return cfg, err
		}
	}
	if s.Mode != "" {
		if cfg.Mode, err = layer.ParseMode(s.Mode); err != nil {
			return cfg, err
		}
	}
	if cfg.ColorOn, err = color(s.ColorOn, d.ColorOn); err != nil {
		return cfg, fmt.Errorf("color_on: %w", err)
	}
	if cfg.ColorOff, err = color(s.ColorOff, d.ColorOff); err != nil {
		return cfg, fmt.Errorf("color_off: %w", err)
	}
	if cfg.BorderColor, err = color(s.BorderColor, d.BorderColor); err != nil {
		return cfg, fmt.Errorf("border_color: %w", err)
	}

	cfg.Priority = s.Priority
	cfg.Start = s.Start
	cfg.Reversed = s.Reversed
	cfg.Target = s.Target
	cfg.Width = pick(s.Width, d.Width)
	cfg.Segments = pick(s.Segments, d.Segments)
	if s.Border != nil {
		cfg.Border = *s.Border
	}
	if s.Period > 0 {
		cfg.Period = s.Period
	}
	if s.Progress != nil {
		cfg.Progress = *s.Progress
	}
	return cfg, nil
}

func color(v, fallback string) (strip.Color, error) {
	if v == "" {
		v = fallback
	}
	if v == "" {
		return strip.Background, nil
	}
	return strip.ParseHex(v)
}

func pick(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
