package layer

import (
	"fmt"
	"strings"
)

// Type selects how a layer generates its pixels.
type Type int

const (
	Individual Type = iota
	Progress
	Status
	Pointer
	Disco
	Scroller
	Flame
	Solid
	Alternating
)

var typeNames = map[Type]string{
	Individual:  "individual",
	Progress:    "progress",
	Status:      "status",
	Pointer:     "pointer",
	Disco:       "disco",
	Scroller:    "scroller",
	Flame:       "flame",
	Solid:       "solid",
	Alternating: "alternating",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

func ParseType(s string) (Type, error) {
	k := normalize(s)
	for t, name := range typeNames {
		if normalize(name) == k {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown layer type %q", s)
}

// Mode selects where on the strip a layer is anchored.
type Mode int

const (
	DriverFace Mode = iota
	WholeStrip
	TargetFace
	StaticSegment
	NearSegment
	FarSegment
)

var modeNames = map[Mode]string{
	DriverFace:    "driver_face",
	WholeStrip:    "whole_strip",
	TargetFace:    "target_face",
	StaticSegment: "static_segment",
	NearSegment:   "near_segment",
	FarSegment:    "far_segment",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	k := normalize(s)
	for m, name := range modeNames {
		if normalize(name) == k {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown layer mode %q", s)
}

// bearingRelative modes need the robot pose every frame.
func (m Mode) bearingRelative() bool {
	return m != WholeStrip && m != StaticSegment
}

// segmented modes live inside one physical half-strip.
func (m Mode) segmented() bool {
	return m == NearSegment || m == FarSegment
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
