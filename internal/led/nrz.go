package led

import (
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/halo/internal/strip"
)

// DefaultFreq is the SPI clock used for WS2812 style strips.
const DefaultFreq = 2500 * physic.KiloHertz

// NRZ drives a WS2812 style strip through an SPI port.
type NRZ struct {
	mu    sync.Mutex
	dev   *nrzled.Dev
	port  spi.PortCloser
	count int
}

// OpenNRZ initialises the host and opens the named SPI port ("" picks the
// first one available).
func OpenNRZ(port string, count int, freq physic.Frequency) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", port, err)
	}
	d, err := NewNRZ(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	d.port = p
	return d, nil
}

// NewNRZ wraps an already open port. The caller keeps ownership of p.
func NewNRZ(p spi.Port, count int, freq physic.Frequency) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if freq == 0 {
		freq = DefaultFreq
	}
	dev, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := dev.Halt(); err != nil {
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	return &NRZ{dev: dev, count: count}, nil
}

func (n *NRZ) String() string { return n.dev.String() }

func (n *NRZ) Write(px []strip.Color) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dev == nil {
		return fmt.Errorf("nrz closed")
	}
	if len(px) != n.count {
		return fmt.Errorf("frame length %d does not match count %d", len(px), n.count)
	}
	if err := n.dev.Draw(n.dev.Bounds(), strip.Image(px), image.Point{}); err != nil {
		return fmt.Errorf("nrz draw: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port if OpenNRZ opened it.
func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dev == nil {
		return nil
	}
	err := n.dev.Halt()
	n.dev = nil
	if n.port != nil {
		if cerr := n.port.Close(); err == nil {
			err = cerr
		}
		n.port = nil
	}
	return err
}
