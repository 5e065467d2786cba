// Package selftest generates wiring test patterns that bypass the layer stack.
package selftest

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/halo/internal/strip"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
	Hue        Kind = "hue"
)

// HueSteps is how many frames the hue pattern takes to turn once.
const HueSteps = 60

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case IndexSweep, RGBTest, Hue:
		return k, nil
	}
	return None, fmt.Errorf("unknown self test %q", s)
}

type Runner struct {
	kind Kind
	step int
}

func NewRunner(k Kind) *Runner { return &Runner{kind: k} }

func (r *Runner) Kind() Kind { return r.kind }

// Step fills buf; returns false when complete.
func (r *Runner) Step(buf *strip.Buffer) bool {
	n := buf.Len()
	buf.Fill(strip.Black)

	switch r.kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		buf.Set(r.step, strip.White)
	case RGBTest:
		if r.step >= 3 {
			return false
		}
		buf.Fill([]strip.Color{strip.Red, strip.Green, strip.Blue}[r.step])
	case Hue:
		if r.step >= HueSteps {
			return false
		}
		turn := float64(r.step) / HueSteps
		for i := 0; i < n; i++ {
			h := math.Mod(float64(i)/float64(n)+turn, 1) * 360
			buf.Set(i, strip.FromColorful(colorful.Hsv(h, 1, 1)))
		}
	default:
		return false
	}
	r.step++
	return true
}
