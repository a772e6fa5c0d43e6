package chime

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// Player plays the celebration.
type Player interface {
	Celebrate()
	Close()
}

// Silent is the player used when sound is off or no audio device exists.
type Silent struct{}

func (Silent) Celebrate() {}
func (Silent) Close()     {}

// Speaker plays through the system audio device.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	melody      func() beep.Streamer
	release     func()
	initialized bool
}

// NewSpeaker creates an uninitialized speaker player.
func NewSpeaker() *Speaker {
	return &Speaker{
		mixer: &beep.Mixer{},
		melody: func() beep.Streamer {
			return Melody(HappyBirthday, DefaultBeat, 0.6)
		},
		release: speaker.Close,
	}
}

// Initialize opens the audio device. Calling it twice is a no-op.
func (s *Speaker) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Celebrate starts the melody, replacing one already playing.
func (s *Speaker) Celebrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	s.mixer.Add(s.melody())
	speaker.Unlock()
}

// Close stops playback and releases the audio device. The speaker package
// can be initialized once per process, so sound switched back on later in
// the same run stays silent.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	s.release()
	s.initialized = false
}

// New returns a speaker player when enabled and an audio device opens,
// otherwise Silent.
func New(enabled bool, log *zap.Logger) Player {
	if !enabled {
		return Silent{}
	}
	s := NewSpeaker()
	if err := s.Initialize(); err != nil {
		log.Info("sound unavailable, playing silently", zap.Error(err))
		return Silent{}
	}
	return s
}
