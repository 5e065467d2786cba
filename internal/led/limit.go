package led

import "github.com/coreman2200/halo/internal/strip"

// Power bounds what the strip may draw.
type Power struct {
	// WhiteCap caps R+G+B per LED (3 = no cap).
	WhiteCap float64 `yaml:"white_cap"`
	// ChanMA is the current of one channel at full scale; WS2812 ≈ 20.
	ChanMA float64 `yaml:"chan_ma"`
	// BudgetMA is the whole-strip budget. Zero disables the global stage.
	BudgetMA float64 `yaml:"budget_ma"`
	// Knee is the fraction of budget where soft limiting begins.
	Knee float64 `yaml:"knee"`
}

func DefaultPower() Power {
	return Power{WhiteCap: 3, ChanMA: 20, Knee: 0.9}
}

// Limit applies the two-stage limiter to buf in place:
// 1) per-LED white cap
// 2) global current budget with a soft knee; the drawn total never exceeds
// the budget
func Limit(buf []strip.Color, p Power) {
	whiteCap, chanMA, knee := 3.0, 20.0, 0.9
	if p.WhiteCap > 0 {
		whiteCap = p.WhiteCap
	}
	if p.ChanMA > 0 {
		chanMA = p.ChanMA
	}
	if p.Knee > 0 && p.Knee < 1 {
		knee = p.Knee
	}

	for i, c := range buf {
		s := c.R + c.G + c.B
		if s > whiteCap && s > 0 {
			buf[i] = c.Scale(whiteCap / s)
		}
	}

	if p.BudgetMA <= 0 {
		return
	}
	var total float64
	for _, c := range buf {
		total += (c.R + c.G + c.B) * chanMA
	}
	if total <= 0 {
		return
	}
	// Below the knee the frame passes. Past it the excess is compressed on a
	// quadratic whose slope falls from 1 to 0, meeting the budget at
	// total = budget + (budget - k); beyond that the budget is a hard cap.
	k := knee * p.BudgetMA
	if total <= k {
		return
	}
	w := p.BudgetMA - k
	out := p.BudgetMA
	if x := total - k; x < 2*w {
		out = total - x*x/(4*w)
	}
	s := out / total
	for i := range buf {
		buf[i] = buf[i].Scale(s)
	}
}

// Limited applies Power to a copy of every frame before passing it on.
type Limited struct {
	Next  Driver
	Power Power

	scratch []strip.Color
}

func (l *Limited) Write(px []strip.Color) error {
	l.scratch = append(l.scratch[:0], px...)
	Limit(l.scratch, l.Power)
	return l.Next.Write(l.scratch)
}

func (l *Limited) Close() error { return l.Next.Close() }
