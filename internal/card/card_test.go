package card

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell(t *testing.T) {
	var s Shell
	assert.False(t, s.IsOpen())
	assert.False(t, s.Select(PanelJokes), "closed card should not switch panels")

	assert.True(t, s.Open(), "first open fires confetti")
	assert.False(t, s.Open(), "second open does not")
	assert.Equal(t, PanelMessage, s.Panel())

	s.Next()
	assert.Equal(t, PanelJokes, s.Panel())
	s.Next()
	s.Next()
	assert.Equal(t, PanelMessage, s.Panel(), "Next wraps")
	s.Prev()
	assert.Equal(t, PanelCandles, s.Panel(), "Prev wraps")

	assert.False(t, s.Select(Panel(7)))
	assert.Equal(t, PanelCandles, s.Panel())
}

func TestPanel_Labels(t *testing.T) {
	for _, p := range Panels {
		assert.NotEmpty(t, p.Title())
		assert.NotEqual(t, ' ', p.Icon())
		assert.NotEqual(t, "unknown", p.String())
	}
	assert.Equal(t, "unknown", Panel(-1).String())
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBanner(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	b := NewBanner(clock.now)
	assert.False(t, b.Visible())

	b.Show(4 * time.Second)
	assert.True(t, b.Visible())

	clock.advance(3999 * time.Millisecond)
	assert.True(t, b.Visible())

	clock.advance(time.Millisecond)
	assert.False(t, b.Visible(), "banner hides itself after its duration")

	b.Show(4 * time.Second)
	b.Hide()
	assert.False(t, b.Visible())
}

func TestTypewriter(t *testing.T) {
	tw := NewTypewriter("héllo", 30*time.Millisecond)
	assert.Equal(t, "", tw.Visible())
	assert.False(t, tw.Done())

	assert.Equal(t, 0, tw.Advance(29*time.Millisecond))
	assert.Equal(t, 1, tw.Advance(time.Millisecond))
	assert.Equal(t, "h", tw.Visible())

	assert.Equal(t, 2, tw.Advance(65*time.Millisecond))
	assert.Equal(t, "hél", tw.Visible())

	// Leftover 5ms carries over.
	assert.Equal(t, 1, tw.Advance(25*time.Millisecond))

	assert.Equal(t, 1, tw.Advance(time.Second), "reveal stops at the end")
	assert.True(t, tw.Done())
	assert.Equal(t, "héllo", tw.Visible())
	assert.Equal(t, 0, tw.Advance(time.Second))

	tw.Restart()
	assert.Equal(t, "", tw.Visible())
	tw.Skip()
	assert.True(t, tw.Done())
}

func TestTypewriter_DefaultPace(t *testing.T) {
	tw := NewTypewriter("ab", 0)
	assert.Equal(t, 1, tw.Advance(DefaultPace))
}

func TestPicker(t *testing.T) {
	p := NewPicker(rand.New(rand.NewPCG(1, 2)), "Extra joke", "")
	assert.Equal(t, len(DadJokes)+1, p.Len())
	assert.NotEmpty(t, p.Current())
	assert.Zero(t, p.Groan(), "no groan before the first request")

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		joke, groan := p.Next()
		assert.GreaterOrEqual(t, groan, 1)
		assert.LessOrEqual(t, groan, MaxGroan)
		assert.Equal(t, joke, p.Current())
		seen[joke] = true
	}
	assert.True(t, seen["Extra joke"], "extra jokes are picked too")
	assert.Greater(t, len(seen), len(DadJokes)/2)
}

func TestConfetti(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewConfetti(rand.New(rand.NewPCG(3, 4)))
	assert.False(t, c.Active(start), "idle before the first burst")
	assert.Nil(t, c.Particles(start, 80, 24))

	c.Burst(start)
	assert.True(t, c.Active(start))

	total := 0
	for ms := 0; ms < 3000; ms += 100 {
		parts := c.Particles(start.Add(time.Duration(ms)*time.Millisecond), 80, 24)
		for _, p := range parts {
			require.GreaterOrEqual(t, p.X, 0)
			require.Less(t, p.X, 80)
			require.GreaterOrEqual(t, p.Y, 0)
			require.Less(t, p.Y, 24)
			require.NotZero(t, p.Glyph)
		}
		total += len(parts)
	}
	assert.Greater(t, total, 0)

	assert.False(t, c.Active(start.Add(ConfettiDuration)))
	assert.Nil(t, c.Particles(start.Add(ConfettiDuration), 80, 24))
}

func TestMessage(t *testing.T) {
	msg := Message("Dad", "Isak", "")
	assert.True(t, strings.HasPrefix(msg, "Happy Birthday, Dad!"))
	assert.Contains(t, msg, "Isak")

	assert.NotContains(t, Message("Dad", "", ""), "Love you")
	assert.Equal(t, "Have a great day", Message("Dad", "Isak", "  Have a great day\n"))
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 42: "42nd", 60: "60th", 103: "103rd", 111: "111th",
	}
	for n, want := range tests {
		assert.Equal(t, want, Ordinal(n))
	}
	assert.Equal(t, "Happy 60th birthday, Dad!", Greeting("Dad", 60))
	assert.Equal(t, "Happy 1st birthday!", Greeting("", 1))
}
