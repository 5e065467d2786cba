// Package setting holds live tunables shared between the control surface
// and the render loop.
package setting

import (
	"math"
	"sync/atomic"
)

// Float is a scalar clamped to [Min, Max], safe to read while another
// goroutine writes it.
type Float struct {
	bits     atomic.Uint64
	Min, Max float64
}

func NewFloat(v, min, max float64) *Float {
	f := &Float{Min: min, Max: max}
	f.Set(v)
	return f
}

func (f *Float) Get() float64 { return math.Float64frombits(f.bits.Load()) }

// Set stores v clamped into range. NaN is ignored.
func (f *Float) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	if v < f.Min {
		v = f.Min
	}
	if v > f.Max {
		v = f.Max
	}
	f.bits.Store(math.Float64bits(v))
}

// Brightness lets a Float serve as a layer brightness source.
func (f *Float) Brightness() float64 { return f.Get() }
