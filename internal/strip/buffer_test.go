package strip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	for _, tc := range []struct {
		i, n, want int
	}{
		{0, 10, 0},
		{9, 10, 9},
		{10, 10, 0},
		{-1, 10, 9},
		{-11, 10, 9},
		{25, 10, 5},
		{3, 0, 0},
	} {
		assert.Equal(t, tc.want, Wrap(tc.i, tc.n), "Wrap(%d,%d)", tc.i, tc.n)
	}
}

func TestBufferWrapsEveryAccess(t *testing.T) {
	b := NewBuffer(5)
	b.Set(-1, Red)
	b.Set(7, Green)
	assert.Equal(t, Red, b.At(4))
	assert.Equal(t, Green, b.At(2))
	assert.Equal(t, Red, b.At(-6))
	assert.Equal(t, 5, len(b.Pixels()))
}

func TestBufferReverse(t *testing.T) {
	b := NewBuffer(3)
	b.Set(0, Red)
	b.Set(2, Blue)
	b.Reverse()
	assert.Equal(t, []Color{Blue, Background, Red}, b.Pixels())
}

func TestImageRow(t *testing.T) {
	b := NewBuffer(4)
	b.Set(1, Green)
	im := b.Image()
	assert.Equal(t, 4, im.Bounds().Dx())
	assert.Equal(t, 1, im.Bounds().Dy())
	assert.Equal(t, uint8(255), im.NRGBAAt(1, 0).G)
	assert.Equal(t, uint8(0), im.NRGBAAt(0, 0).G)
}

func TestParseHexAndBlend(t *testing.T) {
	c, err := ParseHex("#00ff00")
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, c.G, 1e-9)
	assert.Equal(t, 0.0, c.R)
	assert.Equal(t, "#00ff00", c.Hex())

	mid := Black.Blend(White, 0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-9)
	assert.InDelta(t, 0.5, mid.B, 1e-9)

	_, err = ParseHex("green")
	assert.Error(t, err)
}

func TestGeometryHalfSpan(t *testing.T) {
	g := DefaultGeometry()
	assert.Equal(t, 57, g.HalfSpan())
	g.Port = Span{Start: 60, End: 88}
	assert.Equal(t, 28, g.HalfSpan())
	g.DegreesPerLED = 0
	assert.InDelta(t, 360.0/118.0, g.Degrees(), 1e-9)
}
