// Package layer implements one independently configured visual element of
// the strip. A layer renders into its own local buffer and is then blitted
// onto the shared strip buffer at a position chosen by its display mode.
package layer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/coreman2200/halo/internal/disco"
	"github.com/coreman2200/halo/internal/field"
	"github.com/coreman2200/halo/internal/strip"
)

// Rand is the random source used by animated types.
type Rand interface {
	Float64() float64
}

// PoseSource supplies the robot pose to bearing-relative modes.
type PoseSource interface {
	Pose() field.Pose
}

// BrightnessSource supplies the global brightness scalar in [0,1].
type BrightnessSource interface {
	Brightness() float64
}

// Tuning holds the constants shared by every layer.
type Tuning struct {
	// Pointers narrower than this are drawn solid.
	PointerGradientThreshold int
	DiscoMin                 int
	DiscoMax                 int
	// DiscoAgeLimit: blocks die between 1x and 2x this many seconds.
	DiscoAgeLimit float64
	Disco         disco.Params
	MaxAsh        int
	AshColor      strip.Color
}

func DefaultTuning() Tuning {
	return Tuning{
		PointerGradientThreshold: 5,
		DiscoMin:                 3,
		DiscoMax:                 10,
		DiscoAgeLimit:            10,
		Disco:                    disco.DefaultParams(),
		MaxAsh:                   5,
		AshColor:                 strip.RGB(1, 0, 0),
	}
}

// Env is what a layer needs from the outside world.
type Env struct {
	Geometry     strip.Geometry
	Pose         PoseSource
	Brightness   BrightnessSource
	Rand         Rand
	Tuning       Tuning
	DriverTarget field.Point
}

// Config is the construction-time description of a layer.
type Config struct {
	Name        string
	Priority    int
	Type        Type
	Mode        Mode
	Width       int
	Start       int
	ColorOn     strip.Color
	ColorOff    strip.Color
	Border      bool
	BorderColor strip.Color
	Reversed    bool
	Segments    int
	// Period is in seconds for Flame and Alternating, cycles per second for Scroller.
	Period   float64
	Progress float64
	// Target is the point TargetFace and the segment modes track. Nil uses
	// the driver station.
	Target *field.Point
}

// DefaultConfig mirrors the stock layer: a 30 LED progress bar facing the drivers.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		Type:        Progress,
		Mode:        DriverFace,
		Width:       30,
		ColorOn:     strip.Green,
		ColorOff:    strip.Red,
		Border:      true,
		BorderColor: strip.Blue,
		Segments:    3,
		Period:      1,
		Progress:    0.3,
	}
}

var (
	ErrWidth    = errors.New("layer width does not fit")
	ErrSegments = errors.New("layer needs at least one segment")
)

// Layer is one visual element. It is not safe for concurrent use; the
// renderer owns it for the duration of a frame.
type Layer struct {
	env Env

	name     string
	priority int
	typ      Type
	mode     Mode

	width    int
	start    int
	startLED int
	local    *strip.Buffer

	colorOn     strip.Color
	colorOff    strip.Color
	border      bool
	borderColor strip.Color
	reversed    bool

	segments  int
	statusOn  []strip.Color
	statusOff []strip.Color
	statusCur []strip.Color

	progress float64
	period   float64

	target      field.Point
	robotAngle  float64
	targetAngle float64

	// Alternating
	lastToggle float64
	phase      int
	// Flame
	lastAsh float64
	ash     []int
	// Disco
	discoQueue []*disco.Animator
}

// New builds a layer from cfg. The width must fit the mode the same way
// SetWidth requires.
func New(cfg Config, env Env) (*Layer, error) {
	if env.Geometry.Length <= 0 {
		env.Geometry = strip.DefaultGeometry()
	}
	if env.Rand == nil {
		env.Rand = globalRand{}
	}
	if env.Tuning == (Tuning{}) {
		env.Tuning = DefaultTuning()
	}
	l := &Layer{
		env:         env,
		name:        cfg.Name,
		priority:    cfg.Priority,
		typ:         cfg.Type,
		colorOn:     cfg.ColorOn,
		colorOff:    cfg.ColorOff,
		border:      cfg.Border,
		borderColor: cfg.BorderColor,
		reversed:    cfg.Reversed,
		progress:    cfg.Progress,
		period:      cfg.Period,
		start:       cfg.Start,
		target:      env.DriverTarget,
	}
	if cfg.Target != nil {
		l.target = *cfg.Target
	}
	segs := cfg.Segments
	if segs == 0 {
		segs = 1
	}
	if !l.SetSegments(segs) {
		return nil, fmt.Errorf("layer %q: %w", cfg.Name, ErrSegments)
	}
	l.SetMode(cfg.Mode)
	if cfg.Mode != WholeStrip && !l.SetWidth(cfg.Width) {
		return nil, fmt.Errorf("layer %q: width %d in %s: %w", cfg.Name, cfg.Width, cfg.Mode, ErrWidth)
	}
	return l, nil
}

func (l *Layer) Name() string { return l.name }

func (l *Layer) Priority() int { return l.priority }

func (l *Layer) Type() Type { return l.typ }

func (l *Layer) Mode() Mode { return l.mode }

func (l *Layer) Width() int { return l.width }

func (l *Layer) Start() int { return l.start }

func (l *Layer) Reversed() bool { return l.reversed }

func (l *Layer) Progress() float64 { return l.progress }

func (l *Layer) Segments() int { return l.segments }

func (l *Layer) Target() field.Point { return l.target }

// StartLED is the strip index the last render anchored the layer at.
func (l *Layer) StartLED() int { return l.startLED }

// DiscoCount is the number of live disco blocks.
func (l *Layer) DiscoCount() int { return len(l.discoQueue) }

// SetPriority changes draw order. Negative priorities hide the layer.
func (l *Layer) SetPriority(p int) { l.priority = p }

// SetProgress sets the filled fraction of a Progress layer. It is clamped
// into [0.01, 1] when rendered.
func (l *Layer) SetProgress(p float64) { l.progress = p }

func (l *Layer) SetPeriod(p float64) { l.period = p }

func (l *Layer) SetTarget(p field.Point) { l.target = p }

func (l *Layer) SetType(t Type) { l.typ = t }

// SetStart sets the offset within the mode's span (the strip index for StaticSegment).
func (l *Layer) SetStart(s int) { l.start = s }

func (l *Layer) SetBorder(on bool) { l.border = on }

func (l *Layer) SetBorderColor(c strip.Color) { l.borderColor = c }

// SetReversed flips the layer. Individual layers mirror the pixels already
// written, so two flips only restore symmetric content.
func (l *Layer) SetReversed(r bool) {
	if r != l.reversed && l.typ == Individual {
		l.local.Reverse()
	}
	l.reversed = r
}

// SetMode changes placement. DriverFace retargets the driver station and
// WholeStrip takes over the full strip.
func (l *Layer) SetMode(m Mode) {
	l.mode = m
	switch m {
	case DriverFace:
		l.target = l.env.DriverTarget
	case WholeStrip:
		l.startLED = 0
		l.resize(l.env.Geometry.Length)
	}
}

// SetWidth resizes the layer, reallocating its local buffer. It reports
// false and keeps the old width when the new one would overrun the
// half-strip (segment modes) or the whole strip (other modes).
func (l *Layer) SetWidth(w int) bool {
	if w < 1 {
		return false
	}
	if l.mode.segmented() {
		if l.start+w >= l.env.Geometry.HalfSpan() {
			return false
		}
	} else if w > l.env.Geometry.Length {
		return false
	}
	l.resize(w)
	return true
}

func (l *Layer) resize(w int) {
	l.width = w
	l.local = strip.NewBuffer(w)
}

// SetColors sets the on and off colours. A Status layer repaints every
// segment, keeping each one's on/off state.
func (l *Layer) SetColors(on, off strip.Color) {
	l.colorOn, l.colorOff = on, off
	if l.typ != Status {
		return
	}
	for i := range l.statusCur {
		lit := l.statusCur[i] == l.statusOn[i]
		l.statusOn[i], l.statusOff[i] = on, off
		if lit {
			l.statusCur[i] = on
		} else {
			l.statusCur[i] = off
		}
	}
}

// SetSegments resizes the Status and Scroller segment count. Every
// segment resets to off.
func (l *Layer) SetSegments(n int) bool {
	if n < 1 {
		return false
	}
	l.segments = n
	l.statusOn = make([]strip.Color, n)
	l.statusOff = make([]strip.Color, n)
	l.statusCur = make([]strip.Color, n)
	for i := 0; i < n; i++ {
		l.statusOn[i] = l.colorOn
		l.statusOff[i] = l.colorOff
		l.statusCur[i] = l.colorOff
	}
	return true
}

// SetStatusColor changes one segment's colours, keeping its on/off state.
func (l *Layer) SetStatusColor(i int, on, off strip.Color) bool {
	if i < 0 || i >= l.segments {
		return false
	}
	lit := l.statusCur[i] == l.statusOn[i]
	l.statusOn[i], l.statusOff[i] = on, off
	if lit {
		l.statusCur[i] = on
	} else {
		l.statusCur[i] = off
	}
	return true
}

// SetStatus turns one segment on or off.
func (l *Layer) SetStatus(i int, on bool) bool {
	if i < 0 || i >= l.segments {
		return false
	}
	if on {
		l.statusCur[i] = l.statusOn[i]
	} else {
		l.statusCur[i] = l.statusOff[i]
	}
	return true
}

// SetLight writes one pixel of an Individual layer. Index 0 is the far end
// when the layer is reversed.
func (l *Layer) SetLight(i int, c strip.Color) bool {
	if l.typ != Individual || i < 0 || i >= l.width {
		return false
	}
	if l.reversed {
		i = l.width - 1 - i
	}
	l.local.Set(i, c)
	return true
}

// Light reads back a pixel of the local buffer as stored.
func (l *Layer) Light(i int) (strip.Color, bool) {
	if i < 0 || i >= l.width {
		return strip.Color{}, false
	}
	return l.local.At(i), true
}

func (l *Layer) pose() field.Pose {
	if l.env.Pose == nil {
		return field.Pose{}
	}
	return l.env.Pose.Pose()
}

func (l *Layer) brightness() float64 {
	if l.env.Brightness == nil {
		return 1
	}
	return l.env.Brightness.Brightness()
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
