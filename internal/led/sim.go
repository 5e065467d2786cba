package led

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/coreman2200/halo/internal/strip"
)

// Sim stands in for hardware: it keeps the last frame and logs a short
// summary every Every frames.
type Sim struct {
	Log   zerolog.Logger
	Every int

	mu     sync.Mutex
	last   []strip.Color
	frames int
}

func NewSim(log zerolog.Logger, every int) *Sim {
	if every <= 0 {
		every = 30
	}
	return &Sim{Log: log, Every: every}
}

func (s *Sim) Write(px []strip.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = append(s.last[:0], px...)
	s.frames++
	if s.frames%s.Every != 0 {
		return nil
	}
	lit, sum := 0, 0.0
	for _, c := range px {
		if c != strip.Background {
			lit++
		}
		sum += (c.R + c.G + c.B) / 3
	}
	ev := s.Log.Debug().Int("frame", s.frames).Int("lit", lit)
	if len(px) > 0 {
		ev = ev.Float64("mean", sum/float64(len(px))).Str("first", px[0].Hex())
	}
	ev.Msg("sim frame")
	return nil
}

// Last returns a copy of the most recent frame.
func (s *Sim) Last() []strip.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]strip.Color(nil), s.last...)
}

func (s *Sim) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *Sim) Close() error { return nil }
