package strip

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB triple, each channel in 0..1.
type Color struct{ R, G, B float64 }

var (
	Black = Color{}
	White = Color{R: 1, G: 1, B: 1}
	Red   = Color{R: 1}
	Green = Color{G: 1}
	Blue  = Color{B: 1}
)

// Background is the cleared colour of the strip. Layer pixels of this colour
// are transparent when composited.
var Background = Black

// RGB builds a Color from 0..255 channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
}

// ParseHex accepts "#rrggbb" or "#rgb".
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return FromColorful(c), nil
}

func FromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func (c Color) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float64) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Blend interpolates from c to o in RGB space, t in 0..1.
func (c Color) Blend(o Color, t float64) Color {
	return FromColorful(c.Colorful().BlendRgb(o.Colorful(), t))
}

func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.Colorful().Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
