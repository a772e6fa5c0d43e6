package card

import "time"

// DefaultPace is the delay between two revealed characters.
const DefaultPace = 30 * time.Millisecond

// Typewriter reveals a message one character at a time.
type Typewriter struct {
	text    []rune
	pace    time.Duration
	shown   int
	elapsed time.Duration
}

// NewTypewriter creates a typewriter for text. A non-positive pace means
// DefaultPace.
func NewTypewriter(text string, pace time.Duration) *Typewriter {
	if pace <= 0 {
		pace = DefaultPace
	}
	return &Typewriter{text: []rune(text), pace: pace}
}

// Advance moves the reveal forward by dt and returns the number of
// characters newly shown.
func (tw *Typewriter) Advance(dt time.Duration) int {
	if tw.Done() || dt <= 0 {
		return 0
	}
	tw.elapsed += dt
	n := int(tw.elapsed / tw.pace)
	tw.elapsed -= time.Duration(n) * tw.pace

	before := tw.shown
	tw.shown = min(tw.shown+n, len(tw.text))
	return tw.shown - before
}

// Visible returns the revealed part of the message.
func (tw *Typewriter) Visible() string { return string(tw.text[:tw.shown]) }

// Done reports whether the whole message is visible.
func (tw *Typewriter) Done() bool { return tw.shown >= len(tw.text) }

// Skip reveals the rest of the message at once.
func (tw *Typewriter) Skip() {
	tw.shown = len(tw.text)
	tw.elapsed = 0
}

// Restart hides the message again.
func (tw *Typewriter) Restart() {
	tw.shown = 0
	tw.elapsed = 0
}
