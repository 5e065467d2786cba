// Package disco simulates the drifting, growing colour blocks of the disco
// display type. Each Animator is one block with bounded kinematics that
// wander but never settle.
package disco

import (
	"math"

	"github.com/coreman2200/halo/internal/strip"
)

// Rand is the random source the simulation draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// Params are the multipliers used to derive an animator's limits from the
// width of the layer hosting it.
type Params struct {
	MaxLenMultiplier      float64 `yaml:"max_len_multiplier"`
	MaxVelMultiplier      float64 `yaml:"max_vel_multiplier"`
	MaxAccelMultiplier    float64 `yaml:"max_accel_multiplier"`
	MaxGrowMultiplier     float64 `yaml:"max_grow_multiplier"`
	MaxGrowRateMultiplier float64 `yaml:"max_grow_rate_multiplier"`
	// ChangeChance: a perturbation happens when a draw exceeds it (0.9 => 10%).
	ChangeChance float64 `yaml:"change_chance"`
	// ColorThreshold: at least one channel must reach it, else one is maxed.
	ColorThreshold float64 `yaml:"color_threshold"`
}

func DefaultParams() Params {
	return Params{
		MaxLenMultiplier:      0.3,
		MaxVelMultiplier:      0.2,
		MaxAccelMultiplier:    0.02,
		MaxGrowMultiplier:     0.05,
		MaxGrowRateMultiplier: 0.01,
		ChangeChance:          0.9,
		ColorThreshold:        0.5,
	}
}

// Animator is one disco block. Positions and lengths are in LEDs, rates per second.
type Animator struct {
	position   float64
	length     float64
	velocity   float64
	accel      float64
	growth     float64
	growthRate float64
	age        int
	shade      strip.Color

	maxPos      int
	maxLen      float64
	maxVel      float64
	maxAcc      float64
	maxGrow     float64
	maxGrowRate float64

	born float64
	last float64

	p   Params
	rnd Rand
}

// New spawns an animator inside a layer of the given width at time now (seconds).
func New(width int, now float64, p Params, rnd Rand) *Animator {
	if width < 1 {
		width = 1
	}
	w := float64(width)
	a := &Animator{
		p:      p,
		rnd:    rnd,
		maxPos: width - 1,
		maxLen: math.Max(1, math.Floor(w*p.MaxLenMultiplier)),
		maxVel: w * p.MaxVelMultiplier,
		born:   now,
		last:   now,
	}
	a.maxAcc = a.maxVel * p.MaxAccelMultiplier
	a.maxGrow = w * p.MaxGrowMultiplier
	a.maxGrowRate = a.maxGrow * p.MaxGrowRateMultiplier

	a.position = rnd.Float64() * w
	if a.position > float64(a.maxPos) {
		a.position = float64(a.maxPos)
	}
	a.length = clamp(rnd.Float64()*(w-1), 1, a.maxLen)
	a.shade = strip.Color{R: rnd.Float64(), G: rnd.Float64(), B: rnd.Float64()}

	a.velocity = a.spread(a.maxVel)
	a.accel = a.spread(a.maxAcc)
	a.growth = a.spread(a.maxGrow)
	a.growthRate = a.spread(a.maxGrowRate)

	// keep it bright
	th := p.ColorThreshold
	if a.shade.R < th && a.shade.G < th && a.shade.B < th {
		switch chance := rnd.Float64(); {
		case chance < 0.3:
			a.shade.R = 1
		case chance > 0.7:
			a.shade.B = 1
		default:
			a.shade.G = 1
		}
	}
	return a
}

// spread draws uniformly from [-max, max].
func (a *Animator) spread(max float64) float64 {
	return (a.rnd.Float64() - 0.5) * 2 * max
}

// Update advances the block to time now (seconds).
func (a *Animator) Update(now float64) {
	dt := now - a.last
	if dt < 0 {
		dt = 0
	}
	a.last = now

	a.position += a.velocity * dt
	a.velocity += a.accel * dt
	a.length += a.growth * dt
	a.growth += a.growthRate * dt
	a.age = int(math.Floor(now - a.born))

	span := float64(a.maxPos + 1)
	a.position = math.Mod(a.position, span)
	if a.position < 0 {
		a.position += span
	}

	a.velocity = clamp(a.velocity, -a.maxVel, a.maxVel)
	if (a.velocity == -a.maxVel && a.accel < 0) || (a.velocity == a.maxVel && a.accel > 0) {
		a.accel = -a.accel
	}

	a.length = clamp(a.length, 1, a.maxLen)
	if (a.length == 1 && a.growth < 0) || (a.length == a.maxLen && a.growth > 0) {
		a.growth = -a.growth
	}

	a.growth = clamp(a.growth, -a.maxGrow, a.maxGrow)
	if (a.growth == -a.maxGrow && a.growthRate < 0) || (a.growth == a.maxGrow && a.growthRate > 0) {
		a.growthRate = -a.growthRate
	}

	if a.rnd.Float64() > a.p.ChangeChance {
		a.accel = clamp(a.accel+(a.rnd.Float64()-0.5)*a.maxAcc, -a.maxAcc, a.maxAcc)
	}
	if a.rnd.Float64() > a.p.ChangeChance {
		a.growthRate = clamp(a.growthRate+(a.rnd.Float64()-0.5)*a.maxGrowRate, -a.maxGrowRate, a.maxGrowRate)
	}
}

// Start is the first LED the block covers.
func (a *Animator) Start() int { return int(math.Floor(a.position)) }

// Length is the number of LEDs the block covers.
func (a *Animator) Length() int { return int(math.Floor(a.length)) }

// Age is whole seconds since the block was spawned, as of the last Update.
func (a *Animator) Age() int { return a.age }

func (a *Animator) Shade() strip.Color { return a.shade }

func (a *Animator) Velocity() float64 { return a.velocity }

func (a *Animator) Growth() float64 { return a.growth }

func (a *Animator) MaxLength() float64 { return a.maxLen }

func (a *Animator) MaxVelocity() float64 { return a.maxVel }

func (a *Animator) MaxGrowth() float64 { return a.maxGrow }

func (a *Animator) MaxPosition() int { return a.maxPos }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
