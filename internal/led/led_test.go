package led

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/halo/internal/strip"
)

func frame(n int, c strip.Color) []strip.Color {
	px := make([]strip.Color, n)
	for i := range px {
		px[i] = c
	}
	return px
}

func TestNRZWrite(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewNRZ(spitest.NewRecordRaw(&buf), 4, DefaultFreq)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{recordraw}", d.String())

	halted := buf.Len()
	assert.Positive(t, halted)
	require.NoError(t, d.Write(frame(4, strip.Red)))
	assert.Greater(t, buf.Len(), halted)

	assert.Error(t, d.Write(frame(3, strip.Red)))

	require.NoError(t, d.Close())
	assert.Error(t, d.Write(frame(4, strip.Red)))
	assert.NoError(t, d.Close())
}

func TestNRZRejectsEmptyStrip(t *testing.T) {
	_, err := NewNRZ(spitest.NewRecordRaw(&bytes.Buffer{}), 0, 0)
	assert.Error(t, err)
}

type failing struct {
	writes int
	err    error
}

func (f *failing) Write([]strip.Color) error { f.writes++; return f.err }
func (f *failing) Close() error              { return f.err }

func TestMultiWritesEveryDriver(t *testing.T) {
	a := &failing{err: errors.New("a")}
	b := &failing{err: errors.New("b")}
	c := &failing{}
	m := Multi{a, b, c}
	assert.EqualError(t, m.Write(frame(1, strip.Red)), "a")
	assert.Equal(t, 1, c.writes)
	assert.EqualError(t, m.Close(), "a")
}

func TestSimLogsSummary(t *testing.T) {
	var out bytes.Buffer
	s := NewSim(zerolog.New(&out).Level(zerolog.DebugLevel), 2)
	require.NoError(t, s.Write(frame(3, strip.Green)))
	assert.Zero(t, out.Len())
	require.NoError(t, s.Write([]strip.Color{strip.Red, strip.Background, strip.Background}))
	assert.Contains(t, out.String(), `"lit":1`)
	assert.Contains(t, out.String(), `"first":"#ff0000"`)
	assert.Equal(t, 2, s.Frames())
	assert.Equal(t, strip.Red, s.Last()[0])
}

func TestLimitWhiteCap(t *testing.T) {
	px := frame(2, strip.White)
	Limit(px, Power{WhiteCap: 1.5})
	assert.InDelta(t, 0.5, px[0].R, 1e-9)
	assert.InDelta(t, 0.5, px[1].B, 1e-9)
}

func TestLimitBudget(t *testing.T) {
	// 10 white LEDs at 20mA per channel = 600mA
	px := frame(10, strip.White)
	Limit(px, Power{ChanMA: 20, BudgetMA: 1000})
	assert.Equal(t, strip.White, px[0], "under the knee")

	Limit(px, Power{ChanMA: 20, BudgetMA: 300})
	assert.InDelta(t, 0.5, px[0].G, 1e-9)

	px = frame(10, strip.White)
	Limit(px, Power{ChanMA: 20, BudgetMA: 640, Knee: 0.9})
	// knee at 576mA, 24mA over it: 600 - 24*24/(4*64) = 597.75mA
	assert.InDelta(t, 597.75/600, px[0].R, 1e-9)
}

func TestLimitKneeCurve(t *testing.T) {
	draw := func(px []strip.Color) float64 {
		var ma float64
		for _, c := range px {
			ma += (c.R + c.G + c.B) * 20
		}
		return ma
	}

	// 600mA offered against budgets sweeping from hard cap to untouched
	prev := 0.0
	for b := 250.0; b <= 700; b += 10 {
		px := frame(10, strip.White)
		Limit(px, Power{ChanMA: 20, BudgetMA: b, Knee: 0.9})
		got := draw(px)
		assert.LessOrEqual(t, got, b+1e-9, "budget %v", b)
		assert.GreaterOrEqual(t, got, prev-1e-9, "budget %v", b)
		prev = got
		switch {
		case b >= 600/0.9:
			assert.InDelta(t, 600, got, 1e-9, "budget %v under the knee", b)
		case b > 600/1.1:
			assert.Less(t, got, 600.0, "budget %v in the knee", b)
			assert.Greater(t, got, 0.9*b, "budget %v in the knee", b)
		default:
			assert.InDelta(t, b, got, 1e-9, "budget %v over the knee", b)
		}
	}

	px := frame(10, strip.White)
	Limit(px, Power{ChanMA: 20, BudgetMA: 610, Knee: 0.9})
	// knee at 549mA, 51mA over it: 600 - 51*51/(4*61)
	assert.InDelta(t, (600-51.0*51/(4*61))/600, px[0].G, 1e-9)
}

func TestLimitedLeavesSourceAlone(t *testing.T) {
	sim := NewSim(zerolog.Nop(), 1)
	l := &Limited{Next: sim, Power: Power{ChanMA: 20, BudgetMA: 60}}
	src := frame(2, strip.White)
	require.NoError(t, l.Write(src))
	assert.Equal(t, strip.White, src[0])
	assert.InDelta(t, 0.5, sim.Last()[0].R, 1e-9)
	assert.NoError(t, l.Close())
}
