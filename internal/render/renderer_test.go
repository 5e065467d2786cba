package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/halo/internal/layer"
	"github.com/coreman2200/halo/internal/strip"
)

// fakeDriver captures the last frame written.
type fakeDriver struct {
	last []strip.Color
	err  error
}

func (d *fakeDriver) Write(buf []strip.Color) error {
	d.last = make([]strip.Color, len(buf))
	copy(d.last, buf)
	return d.err
}

type fakePublisher struct {
	names [][]string
}

func (p *fakePublisher) PublishLayers(names []string) { p.names = append(p.names, names) }

func geometry() strip.Geometry {
	return strip.Geometry{
		Length:        10,
		Starboard:     strip.Span{Start: 0, End: 4},
		Port:          strip.Span{Start: 5, End: 9},
		DegreesPerLED: 36,
	}
}

func solid(t *testing.T, name string, prio, start, width int, c strip.Color) *layer.Layer {
	t.Helper()
	l, err := layer.New(layer.Config{
		Name: name, Priority: prio, Type: layer.Solid, Mode: layer.StaticSegment,
		Start: start, Width: width, ColorOn: c,
	}, layer.Env{Geometry: geometry()})
	require.NoError(t, err)
	return l
}

func TestRenderSolidAndProgress(t *testing.T) {
	drv := &fakeDriver{}
	r, err := New(10, drv, nil)
	require.NoError(t, err)

	env := layer.Env{Geometry: geometry()}
	base, err := layer.New(layer.Config{Name: "base", Type: layer.Solid, Mode: layer.WholeStrip, ColorOn: strip.Green}, env)
	require.NoError(t, err)
	bar, err := layer.New(layer.Config{
		Name: "bar", Priority: 1, Type: layer.Progress, Mode: layer.StaticSegment,
		Start: 2, Width: 4, Progress: 0.5, ColorOn: strip.White, ColorOff: strip.Blue,
	}, env)
	require.NoError(t, err)

	// added in reverse priority order on purpose
	r.AddLayer(bar)
	r.AddLayer(base)
	require.NoError(t, r.Render(0))

	want := []strip.Color{
		strip.Green, strip.Green,
		strip.White, strip.White, strip.Blue, strip.Blue,
		strip.Green, strip.Green, strip.Green, strip.Green,
	}
	assert.Equal(t, want, drv.last)
	assert.Equal(t, want, r.Pixels())
}

func TestRenderSkipsNegativePriority(t *testing.T) {
	drv := &fakeDriver{}
	r, err := New(10, drv, nil)
	require.NoError(t, err)
	r.AddLayer(solid(t, "hidden", -1, 0, 10, strip.Red))
	require.NoError(t, r.Render(0))
	for _, c := range drv.last {
		assert.Equal(t, strip.Background, c)
	}
}

func TestRenderOrdersByPriority(t *testing.T) {
	drv := &fakeDriver{}
	r, _ := New(10, drv, nil)
	r.AddLayer(solid(t, "top", 5, 0, 3, strip.Red))
	r.AddLayer(solid(t, "bottom", 1, 0, 3, strip.Blue))
	require.NoError(t, r.Render(0))
	assert.Equal(t, strip.Red, drv.last[0])

	// equal priorities keep insertion order, so the later one wins
	r2, _ := New(10, drv, nil)
	r2.AddLayer(solid(t, "first", 1, 0, 3, strip.Red))
	r2.AddLayer(solid(t, "second", 1, 0, 3, strip.Blue))
	require.NoError(t, r2.Render(0))
	assert.Equal(t, strip.Blue, drv.last[0])
	assert.Equal(t, []string{"first", "second"}, r2.LayerNames())
}

func TestRenderClearsBetweenFrames(t *testing.T) {
	drv := &fakeDriver{}
	r, _ := New(10, drv, nil)
	l := solid(t, "a", 0, 0, 3, strip.Red)
	r.AddLayer(l)
	require.NoError(t, r.Render(0))
	l.SetStart(5)
	require.NoError(t, r.Render(0.1))
	assert.Equal(t, strip.Background, drv.last[0])
	assert.Equal(t, strip.Red, drv.last[5])
}

func TestLayerLookup(t *testing.T) {
	pub := &fakePublisher{}
	r, _ := New(10, nil, pub)
	a := solid(t, "a", 0, 0, 1, strip.Red)
	b := solid(t, "dup", 0, 0, 1, strip.Red)
	c := solid(t, "dup", 0, 0, 1, strip.Red)
	r.AddLayer(a)
	r.AddLayer(b)
	r.AddLayer(c)

	got, ok := r.Layer(1)
	assert.True(t, ok)
	assert.Same(t, b, got)
	_, ok = r.Layer(3)
	assert.False(t, ok)
	_, ok = r.Layer(-1)
	assert.False(t, ok)

	got, ok = r.LayerByName("dup")
	assert.True(t, ok)
	assert.Same(t, b, got)
	_, ok = r.LayerByName("missing")
	assert.False(t, ok)

	assert.False(t, r.RemoveLayer(7))
	assert.Equal(t, 0, r.RemoveLayerByName("missing"))
	assert.Equal(t, 2, r.RemoveLayerByName("dup"))
	assert.Equal(t, []string{"a"}, r.LayerNames())
	assert.True(t, r.RemoveLayer(0))
	assert.Empty(t, r.LayerNames())

	require.Len(t, pub.names, 5)
	assert.Equal(t, []string{"a", "dup", "dup"}, pub.names[2])
	assert.Equal(t, []string{"a"}, pub.names[3])
	assert.Empty(t, pub.names[4])
}

func TestRenderPublishesSortedNames(t *testing.T) {
	pub := &fakePublisher{}
	r, _ := New(10, nil, pub)
	r.AddLayer(solid(t, "top", 2, 0, 1, strip.Red))
	r.AddLayer(solid(t, "bottom", 0, 0, 1, strip.Red))
	require.NoError(t, r.Render(0))
	require.NoError(t, r.Render(0.02))

	require.Len(t, pub.names, 4)
	assert.Equal(t, []string{"top", "bottom"}, pub.names[1])
	assert.Equal(t, []string{"bottom", "top"}, pub.names[2])
	assert.Equal(t, pub.names[2], pub.names[3])
}

func TestRenderReturnsDriverError(t *testing.T) {
	drv := &fakeDriver{err: errors.New("bus gone")}
	r, _ := New(10, drv, nil)
	assert.EqualError(t, r.Render(-1), "bus gone")
	assert.Equal(t, uint64(1), r.Last.Frames)
}

func TestNewRejectsEmptyStrip(t *testing.T) {
	_, err := New(0, nil, nil)
	assert.Error(t, err)
}
