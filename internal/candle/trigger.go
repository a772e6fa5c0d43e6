package candle

import "time"

const (
	// DefaultThreshold is the amplitude a sample must exceed to count as a blow.
	DefaultThreshold = 30

	// DefaultRefractory is the window after a blow during which further
	// samples are ignored.
	DefaultRefractory = time.Second
)

// Trigger turns a stream of amplitude samples into discrete blows. It keeps
// no clock of its own: time comes from the samples, so tests can replay an
// exact timeline.
type Trigger struct {
	Threshold  uint8
	Refractory time.Duration

	fired     bool
	lastFired time.Time
}

// NewTrigger creates a trigger with the default threshold and window.
func NewTrigger() *Trigger {
	return &Trigger{
		Threshold:  DefaultThreshold,
		Refractory: DefaultRefractory,
	}
}

// Observe feeds one sample and reports whether it should cause a blow.
// Samples inside the refractory window are dropped, not queued.
func (t *Trigger) Observe(level uint8, at time.Time) bool {
	if level <= t.Threshold {
		return false
	}
	if t.Blowing(at) {
		return false
	}
	t.fired = true
	t.lastFired = at
	return true
}

// Blowing reports whether the refractory window of the last blow is still
// open at the given time.
func (t *Trigger) Blowing(at time.Time) bool {
	return t.fired && at.Sub(t.lastFired) < t.Refractory
}

// Feed observes a sample and, when it fires, extinguishes candles on b.
// It returns the extinguish result and whether the trigger fired.
func (t *Trigger) Feed(b *Board, level uint8, at time.Time) (Result, bool) {
	if !t.Observe(level, at) {
		return Result{}, false
	}
	return b.Extinguish(), true
}

// Clear forgets the last blow, closing any open window.
func (t *Trigger) Clear() {
	t.fired = false
	t.lastFired = time.Time{}
}
