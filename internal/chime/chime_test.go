package chime

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"go.uber.org/zap"
)

func drain(s beep.Streamer) (samples int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, f := range buf[:n] {
			peak = math.Max(peak, math.Abs(f[0]))
		}
		samples += n
		if !ok {
			return samples, peak
		}
	}
}

func TestLength(t *testing.T) {
	notes := []Note{{g4, 1}, {0, 0.5}, {c5, 2}}
	if got, want := Length(notes, 100*time.Millisecond), 350*time.Millisecond; got != want {
		t.Errorf("Length() = %v, want %v", got, want)
	}
}

func TestMelody_Duration(t *testing.T) {
	notes := []Note{{a4, 1}, {0, 1}, {e5, 2}}
	beat := 50 * time.Millisecond

	n, peak := drain(Melody(notes, beat, 1))

	want := SampleRate.N(beat) + SampleRate.N(beat) + SampleRate.N(2*beat)
	if n != want {
		t.Errorf("melody samples = %d, want %d", n, want)
	}
	if peak == 0 || peak > 1 {
		t.Errorf("peak = %v, want (0, 1]", peak)
	}
}

func TestMelody_Volume(t *testing.T) {
	notes := []Note{{a4, 1}}
	beat := 50 * time.Millisecond

	_, loud := drain(Melody(notes, beat, 1))
	_, quiet := drain(Melody(notes, beat, 0.25))
	_, silent := drain(Melody(notes, beat, 0))

	if quiet >= loud {
		t.Errorf("quiet peak %v not below loud peak %v", quiet, loud)
	}
	if silent != 0 {
		t.Errorf("muted melody peak = %v", silent)
	}
}

func TestHappyBirthday(t *testing.T) {
	if len(HappyBirthday) != 25 {
		t.Errorf("tune has %d notes", len(HappyBirthday))
	}
	if got := Length(HappyBirthday, DefaultBeat); got < 8*time.Second || got > 12*time.Second {
		t.Errorf("tune length %v out of range", got)
	}
}

// Playing without an initialized device must be safe.
func TestSpeakerGracefulDegradation(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("uninitialized speaker panicked: %v", r)
		}
	}()

	s := NewSpeaker()
	s.Celebrate()
	s.Close()

	Silent{}.Celebrate()
	Silent{}.Close()
}

func TestNew_Disabled(t *testing.T) {
	if _, ok := New(false, zap.NewNop()).(Silent); !ok {
		t.Error("disabled sound should be Silent")
	}
}

func TestSpeakerCloseReleasesDevice(t *testing.T) {
	s := NewSpeaker()
	released := 0
	s.release = func() { released++ }

	s.Close()
	if released != 0 {
		t.Errorf("uninitialized speaker released the device")
	}

	s.initialized = true
	s.Close()
	s.Close()
	if released != 1 {
		t.Errorf("device released %d times, want 1", released)
	}
	s.Celebrate()
}
