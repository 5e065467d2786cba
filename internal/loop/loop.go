// Package loop runs the fixed-cadence render cycle.
package loop

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const DefaultFPS = 50

type Looper struct {
	FPS int
	Log zerolog.Logger

	start    time.Time
	ticks    uint64
	overruns uint64
}

func New(fps int, log zerolog.Logger) *Looper {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Looper{FPS: fps, Log: log}
}

// Run calls tick with the seconds elapsed since Run started, once per
// frame, until ctx is cancelled. The ticker is shortened by the time the
// previous tick took so the cadence does not drift.
func (l *Looper) Run(ctx context.Context, tick func(t float64)) error {
	delta := time.Second / time.Duration(l.FPS)
	ticker := time.NewTicker(delta)
	defer ticker.Stop()

	l.start = time.Now()
	l.Log.Info().Int("fps", l.FPS).Msg("loop started")
	for {
		select {
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			t := time.Now()
			tick(t.Sub(l.start).Seconds())
			l.ticks++

			next := delta - time.Since(t)
			if next > 0 {
				ticker.Reset(next)
			} else {
				l.overruns++
				l.Log.Debug().Dur("took", time.Since(t)).Msg("frame overran")
				ticker.Reset(delta)
			}

		case <-ctx.Done():
			l.Log.Info().Uint64("ticks", l.ticks).Uint64("overruns", l.overruns).Msg("loop stopped")
			return nil
		}
	}
}

func (l *Looper) Ticks() uint64 { return l.ticks }
