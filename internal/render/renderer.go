// Package render composites the layer stack into one strip frame and hands
// it to a driver.
package render

import (
	"errors"
	"sort"
	"time"

	"github.com/coreman2200/halo/internal/layer"
	"github.com/coreman2200/halo/internal/strip"
)

// Driver abstracts the LED transport (SPI, simulator, websocket, ...).
type Driver interface {
	Write([]strip.Color) error
}

// Publisher is told the layer names when the stack changes and once per
// rendered frame.
type Publisher interface {
	PublishLayers(names []string)
}

// Renderer owns the layer stack and the strip buffer. It is driven from a
// single goroutine.
type Renderer struct {
	Drv Driver
	Pub Publisher

	layers []*layer.Layer
	buf    *strip.Buffer

	t0 time.Time

	// metrics (last durations in ms)
	Last struct {
		RenderMS float64
		Frames   uint64
	}
}

// New allocates a renderer for a strip of length LEDs. drv and pub may be nil.
func New(length int, drv Driver, pub Publisher) (*Renderer, error) {
	if length < 1 {
		return nil, errors.New("invalid strip length")
	}
	return &Renderer{
		Drv: drv,
		Pub: pub,
		buf: strip.NewBuffer(length),
		t0:  time.Now(),
	}, nil
}

// Now returns seconds since the renderer was created.
func (r *Renderer) Now() float64 {
	return time.Since(r.t0).Seconds()
}

func (r *Renderer) Len() int { return r.buf.Len() }

// AddLayer appends l to the stack. Duplicate names are allowed.
func (r *Renderer) AddLayer(l *layer.Layer) {
	r.layers = append(r.layers, l)
	r.publish()
}

// Layer returns the layer at index i in the current stack order.
func (r *Renderer) Layer(i int) (*layer.Layer, bool) {
	if i < 0 || i >= len(r.layers) {
		return nil, false
	}
	return r.layers[i], true
}

// LayerByName returns the first layer called name.
func (r *Renderer) LayerByName(name string) (*layer.Layer, bool) {
	for _, l := range r.layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// RemoveLayer drops the layer at index i. Out of range is a no-op.
func (r *Renderer) RemoveLayer(i int) bool {
	if i < 0 || i >= len(r.layers) {
		return false
	}
	r.layers = append(r.layers[:i], r.layers[i+1:]...)
	r.publish()
	return true
}

// RemoveLayerByName drops every layer called name and reports how many went.
func (r *Renderer) RemoveLayerByName(name string) int {
	kept := r.layers[:0]
	for _, l := range r.layers {
		if l.Name() != name {
			kept = append(kept, l)
		}
	}
	n := len(r.layers) - len(kept)
	clear(r.layers[len(kept):])
	r.layers = kept
	if n > 0 {
		r.publish()
	}
	return n
}

func (r *Renderer) LayerNames() []string {
	names := make([]string, len(r.layers))
	for i, l := range r.layers {
		names[i] = l.Name()
	}
	return names
}

func (r *Renderer) publish() {
	if r.Pub != nil {
		r.Pub.PublishLayers(r.LayerNames())
	}
}

// Render draws one frame at absolute time t (seconds) and writes it to the
// driver. If t < 0, it uses Renderer.Now(). Layers draw in ascending
// priority, ties in insertion order; negative priorities are skipped.
func (r *Renderer) Render(t float64) error {
	if t < 0 {
		t = r.Now()
	}
	start := time.Now()

	r.buf.Fill(strip.Background)
	sort.SliceStable(r.layers, func(i, j int) bool {
		return r.layers[i].Priority() < r.layers[j].Priority()
	})
	r.publish()
	for _, l := range r.layers {
		if l.Priority() < 0 {
			continue
		}
		l.Render(r.buf, t)
	}

	r.Last.Frames++
	r.Last.RenderMS = float64(time.Since(start).Microseconds()) / 1000.0

	if r.Drv != nil {
		return r.Drv.Write(r.buf.Pixels())
	}
	return nil
}

// Pixels returns a copy of the last composited frame.
func (r *Renderer) Pixels() []strip.Color { return r.buf.Pixels() }
