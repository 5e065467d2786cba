package layer

import (
	"math"

	"github.com/coreman2200/halo/internal/field"
	"github.com/coreman2200/halo/internal/strip"
)

// Render paints the layer for time t (seconds) and composites it onto out.
// Background pixels are transparent. Every written pixel, border included,
// is scaled by the current brightness.
func (l *Layer) Render(out *strip.Buffer, t float64) {
	l.paint(t)
	l.place(out.Len())

	for i := 0; i < l.width; i++ {
		c := l.local.At(i)
		if c == strip.Background {
			continue
		}
		out.Set(l.startLED+i, c.Scale(l.brightness()))
	}
	if l.border {
		c := l.borderColor.Scale(l.brightness())
		out.Set(l.startLED-1, c)
		out.Set(l.startLED+l.width, c)
	}
}

// place resolves the strip index of the layer's first pixel.
func (l *Layer) place(n int) {
	g := l.env.Geometry
	if l.mode.bearingRelative() {
		p := l.pose()
		l.robotAngle = p.Heading
		l.targetAngle = field.Bearing(p.Point, l.target)
	}
	diff := normalizeAngle(l.robotAngle - l.targetAngle)

	switch l.mode {
	case WholeStrip:
		l.startLED = 0
	case StaticSegment:
		l.startLED = l.start
	case DriverFace, TargetFace:
		l.startLED = int(math.Floor(diff/g.Degrees())) + g.StartOffset - l.width/2
	case NearSegment:
		if diff < 0 {
			l.startLED = g.Starboard.Start + l.start
		} else {
			l.startLED = g.Port.Start + l.start
		}
	case FarSegment:
		if diff > 0 {
			l.startLED = g.Starboard.Start + l.start
		} else {
			l.startLED = g.Port.Start + l.start
		}
	}
	l.startLED = strip.Wrap(l.startLED, n)
}

// normalizeAngle maps degrees into (-180, 180].
func normalizeAngle(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
