// Package fire draws the candle flames: flicker, the lean of a gust of
// breath, the smoke left by a blown candle, and colour shifts.
package fire

import "time"

// ---- Gust Parameters

const (
	// GustPerLevel converts ambient level above the threshold into gust.
	GustPerLevel = 0.5

	// BlowGust is the gust added by a manual blow.
	BlowGust = 40

	// MaxGust is the maximum gust accumulation.
	MaxGust = 100

	// DefaultCooldownRate is the gust decay per frame.
	DefaultCooldownRate = 4

	// DefaultCooldownDelay is frames before cooldown starts.
	DefaultCooldownDelay = 5

	// SmokeDuration is how long a blown-out candle smokes.
	SmokeDuration = 2 * time.Second
)

// Gust tracks how hard the flames are being blown.
type Gust struct {
	// Strength is the accumulated gust (0 to MaxGust).
	Strength int

	// FramesSinceBlow counts frames since the last breath or blow.
	FramesSinceBlow int

	// CooldownRate is the gust decay per frame.
	CooldownRate int

	// CooldownDelay is frames before cooldown starts.
	CooldownDelay int
}

// NewGust creates a still gust with default parameters.
func NewGust() *Gust {
	return &Gust{
		CooldownRate:  DefaultCooldownRate,
		CooldownDelay: DefaultCooldownDelay,
	}
}

// OnBreath feeds an ambient level. Only the part above threshold pushes the
// flames.
func (g *Gust) OnBreath(level, threshold uint8) {
	if level <= threshold {
		return
	}
	g.add(int(float64(level-threshold) * GustPerLevel))
}

// OnBlow should be called for a manual blow.
func (g *Gust) OnBlow() { g.add(BlowGust) }

func (g *Gust) add(v int) {
	g.Strength = min(g.Strength+v, MaxGust)
	g.FramesSinceBlow = 0
}

// OnFrame should be called each frame to let the gust die down.
func (g *Gust) OnFrame() {
	g.FramesSinceBlow++

	if g.FramesSinceBlow > g.CooldownDelay {
		g.Strength = max(g.Strength-g.CooldownRate, 0)
	}
}

// Lean returns how far flames bend away from the blower, 0 (upright) to 1.
func (g *Gust) Lean() float64 {
	return float64(g.Strength) / MaxGust
}

// Reset stills the gust.
func (g *Gust) Reset() {
	g.Strength = 0
	g.FramesSinceBlow = 0
}
