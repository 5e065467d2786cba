package ws

import (
	"errors"
	"fmt"

	diag "github.com/coreman2200/halo/internal/diagnostics"
	"github.com/coreman2200/halo/internal/field"
	"github.com/coreman2200/halo/internal/render"
	"github.com/coreman2200/halo/internal/setting"
)

// Command is one control message, e.g.
//
//	{"type":"progress","layer":"intake","value":0.4}
//	{"type":"status","layer":"modules","index":2,"on":true}
//	{"type":"pose","pose":{"x":1.2,"y":3.4,"heading":90}}
type Command struct {
	Type  string      `json:"type"`
	Layer string      `json:"layer,omitempty"`
	Value float64     `json:"value,omitempty"`
	Index int         `json:"index,omitempty"`
	On    bool        `json:"on,omitempty"`
	Pose  *field.Pose `json:"pose,omitempty"`
}

// Targets is what commands act on. Nil fields reject the matching commands.
type Targets struct {
	Renderer   *render.Renderer
	Brightness *setting.Float
	Pose       *field.PoseStore
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoLayer        = errors.New("no such layer")
	ErrRejected       = errors.New("value rejected")
)

// Apply runs c against t. It must be called from the render goroutine.
func (c Command) Apply(t Targets) error {
	switch c.Type {
	case "brightness":
		if t.Brightness == nil {
			return fmt.Errorf("brightness: %w", ErrRejected)
		}
		t.Brightness.Set(c.Value)
		return nil
	case "pose":
		if t.Pose == nil || c.Pose == nil {
			return fmt.Errorf("pose: %w", ErrRejected)
		}
		t.Pose.Set(*c.Pose)
		return nil
	case "remove":
		if t.Renderer == nil || t.Renderer.RemoveLayerByName(c.Layer) == 0 {
			return ErrNoLayer
		}
		return nil
	case "progress", "status", "priority", "width":
	default:
		return ErrUnknownCommand
	}

	if t.Renderer == nil {
		return ErrNoLayer
	}
	l, ok := t.Renderer.LayerByName(c.Layer)
	if !ok {
		return ErrNoLayer
	}
	switch c.Type {
	case "progress":
		l.SetProgress(c.Value)
	case "priority":
		l.SetPriority(int(c.Value))
	case "status":
		if !l.SetStatus(c.Index, c.On) {
			return fmt.Errorf("status segment %d: %w", c.Index, ErrRejected)
		}
	case "width":
		if !l.SetWidth(int(c.Value)) {
			return fmt.Errorf("width %d: %w", int(c.Value), ErrRejected)
		}
	}
	return nil
}

// Diagnose turns an Apply error into a diagnostic for /diag clients.
func Diagnose(c Command, err error) diag.Diagnostic {
	switch {
	case errors.Is(err, ErrUnknownCommand):
		return diag.UnknownCommand(c.Type)
	case errors.Is(err, ErrNoLayer):
		return diag.LayerMissing(c.Layer)
	default:
		return diag.Rejected(c.Layer, err.Error())
	}
}
