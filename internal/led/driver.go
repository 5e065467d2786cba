// Package led holds the output sinks a rendered frame can be written to.
package led

import "github.com/coreman2200/halo/internal/strip"

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes one frame. len(px) must match the strip length.
	Write(px []strip.Color) error
	// Close releases resources.
	Close() error
}

// Multi fans a frame out to several drivers. Every driver is written; the
// first error is returned.
type Multi []Driver

func (m Multi) Write(px []strip.Color) error {
	var first error
	for _, d := range m {
		if err := d.Write(px); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, d := range m {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
