package card

import (
	"math/rand/v2"
	"time"
)

// ---- Confetti Parameters

const (
	// ConfettiDuration is how long the overlay stays up after a burst.
	ConfettiDuration = 3 * time.Second

	confettiPieces = 50
)

// ConfettiColors are cycled through by the paper pieces.
var ConfettiColors = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FECA57", "#FF9FF3", "#54A0FF"}

// ConfettiEmoji fall alongside the paper pieces.
var ConfettiEmoji = []rune{'🎉', '🎊', '🎈', '🎂', '🎁', '⭐', '✨'}

// paper glyphs from small to large, also cycled for the spin.
var paperGlyphs = []rune{'·', '•', '▪', '■'}

// piece is one falling particle, fixed at burst time.
type piece struct {
	x        float64 // 0..1 across the screen
	size     float64 // 5..15
	delay    time.Duration
	duration time.Duration
	color    string
	emoji    rune
}

// Particle is a piece positioned on screen for one frame.
type Particle struct {
	X, Y  int
	Glyph rune
	Color string // empty for emoji
	Fade  float64
}

// Confetti is the falling-paper overlay shown when the card opens.
type Confetti struct {
	rng    *rand.Rand
	pieces []piece
	start  time.Time
}

// NewConfetti creates an idle confetti overlay. A nil rng is seeded from the
// clock.
func NewConfetti(rng *rand.Rand) *Confetti {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xc0ff))
	}
	return &Confetti{rng: rng}
}

// Burst throws a fresh set of pieces starting at now.
func (c *Confetti) Burst(now time.Time) {
	c.start = now
	c.pieces = c.pieces[:0]

	for i := 0; i < confettiPieces; i++ {
		c.pieces = append(c.pieces, piece{
			x:        c.rng.Float64(),
			size:     c.rng.Float64()*10 + 5,
			delay:    c.seconds(2),
			duration: c.seconds(3) + 2*time.Second,
			color:    ConfettiColors[i%len(ConfettiColors)],
		})
	}
	for _, e := range ConfettiEmoji {
		c.pieces = append(c.pieces, piece{
			x:        c.rng.Float64(),
			delay:    c.seconds(1.5),
			duration: c.seconds(4) + 3*time.Second,
			emoji:    e,
		})
	}
}

func (c *Confetti) seconds(limit float64) time.Duration {
	return time.Duration(c.rng.Float64() * limit * float64(time.Second))
}

// Active reports whether the overlay is showing at now.
func (c *Confetti) Active(now time.Time) bool {
	return len(c.pieces) > 0 && now.Sub(c.start) < ConfettiDuration
}

// Particles lays the pieces out on a width x height screen at now. Pieces
// that have not started falling or have left the screen are skipped.
func (c *Confetti) Particles(now time.Time, width, height int) []Particle {
	if !c.Active(now) || width <= 0 || height <= 0 {
		return nil
	}

	elapsed := now.Sub(c.start)
	out := make([]Particle, 0, len(c.pieces))
	for i, p := range c.pieces {
		t := elapsed - p.delay
		if t < 0 {
			continue
		}
		progress := float64(t) / float64(p.duration)
		if progress >= 1 {
			continue
		}

		// Fall from just above the top edge to just below the bottom one.
		y := int(progress*float64(height+2)) - 1
		if y < 0 || y >= height {
			continue
		}

		part := Particle{
			X:    min(int(p.x*float64(width)), width-1),
			Y:    y,
			Fade: progress,
		}
		if p.emoji != 0 {
			part.Glyph = p.emoji
		} else {
			// Larger pieces use heavier glyphs; the spin cycles through them.
			base := int((p.size - 5) / 10 * float64(len(paperGlyphs)-1))
			spin := int(progress*8) + i
			part.Glyph = paperGlyphs[(base+spin)%len(paperGlyphs)]
			part.Color = p.color
		}
		out = append(out, part)
	}
	return out
}
