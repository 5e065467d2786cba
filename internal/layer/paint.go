package layer

import (
	"math"

	"github.com/coreman2200/halo/internal/disco"
	"github.com/coreman2200/halo/internal/strip"
)

// stop is one entry of a step pattern: from position At (fraction of the
// layer width) onward the colour is C.
type stop struct {
	At float64
	C  strip.Color
}

// steps paints b with hard colour bands. A pixel takes the colour of the
// last stop at or before its fractional position.
func steps(b *strip.Buffer, stops []stop) {
	n := b.Len()
	for i := 0; i < n; i++ {
		pos := float64(i) / float64(n)
		c := strip.Background
		for _, s := range stops {
			if s.At > pos {
				break
			}
			c = s.C
		}
		b.Set(i, c)
	}
}

// gradient blends across colors. A continuous gradient wraps back to the
// first colour at the far end.
func gradient(b *strip.Buffer, continuous bool, colors ...strip.Color) {
	n := b.Len()
	if len(colors) == 1 {
		b.Fill(colors[0])
		return
	}
	segs := len(colors) - 1
	if continuous {
		segs = len(colors)
	}
	span := float64(n) / float64(segs)
	if !continuous && n > 1 {
		span = float64(n-1) / float64(segs)
	}
	for i := 0; i < n; i++ {
		seg := int(math.Floor(float64(i) / span))
		if seg >= segs {
			seg = segs - 1
		}
		t := (float64(i) - float64(seg)*span) / span
		from := colors[seg%len(colors)]
		to := colors[(seg+1)%len(colors)]
		b.Set(i, from.Blend(to, t))
	}
}

// shift rotates b so that pixel i lands at i+n.
func shift(b *strip.Buffer, n int) {
	px := b.Pixels()
	for i, c := range px {
		b.Set(i+n, c)
	}
}

// paint regenerates the local buffer for time t.
func (l *Layer) paint(t float64) {
	switch l.typ {
	case Progress:
		l.paintProgress()
	case Status:
		l.paintStatus()
	case Pointer:
		l.paintPointer()
	case Scroller:
		l.paintScroller(t)
	case Flame:
		l.paintFlame(t)
	case Solid:
		l.local.Fill(l.colorOn)
	case Alternating:
		l.paintAlternating(t)
	case Disco:
		l.paintDisco(t)
	case Individual:
		// pixels are written directly through SetLight
	}
}

func (l *Layer) paintProgress() {
	if math.IsNaN(l.progress) || l.progress < 0.01 {
		l.progress = 0.01
	} else if l.progress > 1 {
		l.progress = 1
	}
	steps(l.local, []stop{{0, l.colorOn}, {l.progress, l.colorOff}})
	if l.reversed {
		l.local.Reverse()
	}
}

func (l *Layer) paintStatus() {
	stops := make([]stop, l.segments)
	for i := range stops {
		stops[i] = stop{float64(i) / float64(l.segments), l.statusCur[i]}
	}
	steps(l.local, stops)
	if l.reversed {
		l.local.Reverse()
	}
}

// paintPointer draws off-on-off so the middle of the layer marks the
// bearing. Narrow pointers are solid.
func (l *Layer) paintPointer() {
	if l.width < l.env.Tuning.PointerGradientThreshold {
		l.local.Fill(l.colorOn)
		return
	}
	gradient(l.local, true, l.colorOff, l.colorOn)
}

func (l *Layer) paintScroller(t float64) {
	n := 2 * l.segments
	stops := make([]stop, n)
	for i := range stops {
		c := l.colorOn
		if i%2 == 1 {
			c = l.colorOff
		}
		stops[i] = stop{float64(i) / float64(n), c}
	}
	steps(l.local, stops)
	cycles := t * l.period
	shift(l.local, int(float64(l.width)*(cycles-math.Floor(cycles))))
	if l.reversed {
		l.local.Reverse()
	}
}

func (l *Layer) paintFlame(t float64) {
	gradient(l.local, false, l.colorOn, l.colorOff)
	height := int(l.env.Rand.Float64() * float64(l.width))
	for i := 0; i < l.width; i++ {
		if i >= height {
			l.local.Set(i, strip.Background)
		}
	}
	if l.reversed {
		l.local.Reverse()
	}

	if t-l.lastAsh > l.period {
		l.lastAsh = t
		if len(l.ash) < l.env.Tuning.MaxAsh && l.env.Rand.Float64() > 0.8 {
			l.ash = append(l.ash, 0)
		}
		kept := l.ash[:0]
		for _, p := range l.ash {
			if p+1 <= l.width-1 {
				kept = append(kept, p+1)
			}
		}
		l.ash = kept
	}
	for _, p := range l.ash {
		if l.reversed {
			p = l.width - 1 - p
		}
		l.local.Set(p, l.env.Tuning.AshColor)
	}
}

func (l *Layer) paintAlternating(t float64) {
	l.local.Fill(strip.Background)
	if t-l.lastToggle > l.period {
		l.phase ^= 1
		l.lastToggle = t
	}
	for i := l.phase; i < l.width; i += 2 {
		l.local.Set(i, l.colorOn)
	}
}

func (l *Layer) paintDisco(t float64) {
	tn := l.env.Tuning
	rnd := l.env.Rand
	l.local.Fill(strip.Background)

	n := len(l.discoQueue)
	if n < tn.DiscoMin || (n < tn.DiscoMax && rnd.Float64() > 0.8) {
		l.discoQueue = append(l.discoQueue, disco.New(l.width, t, tn.Disco, rnd))
	}
	n = len(l.discoQueue)
	if (n > tn.DiscoMin && rnd.Float64() > 0.9) || (n == tn.DiscoMax && rnd.Float64() > 0.5) {
		i := int(rnd.Float64() * float64(n))
		if i >= n {
			i = n - 1
		}
		l.discoQueue = append(l.discoQueue[:i], l.discoQueue[i+1:]...)
	}

	kept := l.discoQueue[:0]
	for _, a := range l.discoQueue {
		a.Update(t)
		for i := 0; i < a.Length(); i++ {
			l.local.Set(a.Start()+i, a.Shade())
		}
		if float64(a.Age())/tn.DiscoAgeLimit+rnd.Float64() > 2 {
			continue
		}
		kept = append(kept, a)
	}
	clear(l.discoQueue[len(kept):])
	l.discoQueue = kept
}
