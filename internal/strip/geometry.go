package strip

// Span is a half-open run of strip indices [Start, End).
type Span struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

func (s Span) Len() int { return s.End - s.Start }

// Geometry describes how the physical strip wraps the robot.
type Geometry struct {
	Length int
	// Starboard and Port are the two physical half-strips.
	Starboard Span
	Port      Span
	// StartOffset is the LED that points at 0 degrees.
	StartOffset   int
	DegreesPerLED float64
}

// DefaultGeometry is the 118 LED halo.
func DefaultGeometry() Geometry {
	return Geometry{
		Length:        118,
		Starboard:     Span{Start: 0, End: 57},
		Port:          Span{Start: 58, End: 115},
		StartOffset:   1,
		DegreesPerLED: 360.0 / 118.0,
	}
}

// HalfSpan is the smaller of the two half-strip lengths.
func (g Geometry) HalfSpan() int {
	s, p := g.Starboard.Len(), g.Port.Len()
	if s < p {
		return s
	}
	return p
}

// Degrees returns DegreesPerLED, falling back to an even spread around the strip.
func (g Geometry) Degrees() float64 {
	if g.DegreesPerLED > 0 {
		return g.DegreesPerLED
	}
	if g.Length <= 0 {
		return 1
	}
	return 360.0 / float64(g.Length)
}
