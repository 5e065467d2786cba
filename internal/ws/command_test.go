package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/halo/internal/field"
	"github.com/coreman2200/halo/internal/layer"
	"github.com/coreman2200/halo/internal/render"
	"github.com/coreman2200/halo/internal/setting"
)

func targets(t *testing.T) (Targets, *layer.Layer) {
	t.Helper()
	r, err := render.New(118, nil, nil)
	require.NoError(t, err)
	l, err := layer.New(layer.Config{
		Name: "modules", Type: layer.Status, Mode: layer.StaticSegment, Width: 12, Segments: 4,
	}, layer.Env{})
	require.NoError(t, err)
	r.AddLayer(l)
	return Targets{
		Renderer:   r,
		Brightness: setting.NewFloat(1, 0, 1),
		Pose:       field.NewPoseStore(field.Pose{}),
	}, l
}

func TestApplyLayerCommands(t *testing.T) {
	tg, l := targets(t)

	require.NoError(t, Command{Type: "progress", Layer: "modules", Value: 0.4}.Apply(tg))
	assert.Equal(t, 0.4, l.Progress())

	require.NoError(t, Command{Type: "priority", Layer: "modules", Value: 7}.Apply(tg))
	assert.Equal(t, 7, l.Priority())

	require.NoError(t, Command{Type: "status", Layer: "modules", Index: 3, On: true}.Apply(tg))
	assert.ErrorIs(t, Command{Type: "status", Layer: "modules", Index: 4, On: true}.Apply(tg), ErrRejected)

	require.NoError(t, Command{Type: "width", Layer: "modules", Value: 20}.Apply(tg))
	assert.Equal(t, 20, l.Width())
	assert.ErrorIs(t, Command{Type: "width", Layer: "modules", Value: 500}.Apply(tg), ErrRejected)
	assert.Equal(t, 20, l.Width())

	assert.ErrorIs(t, Command{Type: "progress", Layer: "ghost"}.Apply(tg), ErrNoLayer)

	require.NoError(t, Command{Type: "remove", Layer: "modules"}.Apply(tg))
	assert.Empty(t, tg.Renderer.LayerNames())
	assert.ErrorIs(t, Command{Type: "remove", Layer: "modules"}.Apply(tg), ErrNoLayer)
}

func TestApplySettings(t *testing.T) {
	tg, _ := targets(t)

	require.NoError(t, Command{Type: "brightness", Value: 2}.Apply(tg))
	assert.Equal(t, 1.0, tg.Brightness.Get())
	require.NoError(t, Command{Type: "brightness", Value: 0.25}.Apply(tg))
	assert.Equal(t, 0.25, tg.Brightness.Get())

	p := field.Pose{Point: field.Point{X: 1, Y: 2}, Heading: 90}
	require.NoError(t, Command{Type: "pose", Pose: &p}.Apply(tg))
	assert.Equal(t, p, tg.Pose.Pose())
	assert.ErrorIs(t, Command{Type: "pose"}.Apply(tg), ErrRejected)

	assert.ErrorIs(t, Command{Type: "dance"}.Apply(tg), ErrUnknownCommand)
}

func TestDiagnose(t *testing.T) {
	c := Command{Type: "dance", Layer: "x"}
	assert.Equal(t, "control_unknown", Diagnose(c, ErrUnknownCommand).Code)
	assert.Equal(t, "layer_missing", Diagnose(c, ErrNoLayer).Code)
	assert.Equal(t, "layer_rejected", Diagnose(c, ErrRejected).Code)
}
