// Package chime plays the celebration melody when the last candle goes out.
package chime

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate every chime stream is generated at.
const SampleRate = beep.SampleRate(44100)

// Note is a pitch held for a number of beats. A zero Freq is a rest.
type Note struct {
	Freq  float64
	Beats float64
}

const (
	g4 = 392.00
	a4 = 440.00
	b4 = 493.88
	c5 = 523.25
	d5 = 587.33
	e5 = 659.25
	f5 = 698.46
	g5 = 783.99
)

// HappyBirthday is the tune, in 3/4.
var HappyBirthday = []Note{
	{g4, 0.75}, {g4, 0.25}, {a4, 1}, {g4, 1}, {c5, 1}, {b4, 2},
	{g4, 0.75}, {g4, 0.25}, {a4, 1}, {g4, 1}, {d5, 1}, {c5, 2},
	{g4, 0.75}, {g4, 0.25}, {g5, 1}, {e5, 1}, {c5, 1}, {b4, 1}, {a4, 2},
	{f5, 0.75}, {f5, 0.25}, {e5, 1}, {c5, 1}, {d5, 1}, {c5, 3},
}

// DefaultBeat is the length of one beat.
const DefaultBeat = 350 * time.Millisecond

// Length returns how long notes last at the given beat.
func Length(notes []Note, beat time.Duration) time.Duration {
	var total float64
	for _, n := range notes {
		total += n.Beats
	}
	return time.Duration(total * float64(beat))
}

// Melody renders notes as a stream at volume (0-1).
func Melody(notes []Note, beat time.Duration, volume float64) beep.Streamer {
	tones := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		d := time.Duration(n.Beats * float64(beat))
		if n.Freq == 0 {
			tones = append(tones, beep.Silence(SampleRate.N(d)))
			continue
		}
		tones = append(tones, newTone(n.Freq, d))
	}
	return withVolume(beep.Seq(tones...), volume)
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(vol, 1))}
}

// ---- Tone Generator

// tone is a sine with a short attack and an exponential tail, a bit like a
// music box.
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
	attack   int
}

func newTone(freq float64, d time.Duration) *tone {
	return &tone{
		freq:   freq,
		total:  SampleRate.N(d),
		attack: SampleRate.N(10 * time.Millisecond),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		vol := math.Exp(-3 * float64(t.position) / float64(t.total))
		if t.position < t.attack {
			vol *= float64(t.position) / float64(t.attack)
		}
		// Second harmonic for a brighter bell.
		val := vol * (0.8*math.Sin(2*math.Pi*t.phase) + 0.2*math.Sin(4*math.Pi*t.phase))

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(SampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
