// Package ambient provides the amplitude signal used to blow out candles by
// breathing at the microphone.
//
// A Source produces a stream of samples in [0,255]. The device-backed
// Microphone pipes a capture tool's WAV output through beep; Disabled is used
// when ambient sensing is switched off; Fake replays scripted samples.
// Sensor wraps any of them and degrades silently when the device is missing.
package ambient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrDeviceUnavailable is returned when no audio input can be opened:
// no capture tool, permission denied, or no hardware.
var ErrDeviceUnavailable = errors.New("audio input unavailable")

// Sample is one amplitude reading.
type Sample struct {
	Level uint8
	At    time.Time
}

// Source is a stream of amplitude samples.
type Source interface {
	// Start begins sampling. The channel is closed when the source stops or
	// the device goes away. Errors wrap ErrDeviceUnavailable.
	Start(ctx context.Context) (<-chan Sample, error)

	// Stop releases the device. It is safe to call more than once.
	Stop() error
}

// ---- Disabled Source

// Disabled is the source used when ambient sensing is turned off.
type Disabled struct{}

// Start always reports the device as unavailable.
func (Disabled) Start(context.Context) (<-chan Sample, error) {
	return nil, fmt.Errorf("%w: ambient sensing disabled", ErrDeviceUnavailable)
}

// Stop is a no-op.
func (Disabled) Stop() error { return nil }

// Unavailable is the source used when no capture device could be found.
type Unavailable struct {
	Err error
}

// Start reports Err.
func (u Unavailable) Start(context.Context) (<-chan Sample, error) { return nil, u.Err }

// Stop is a no-op.
func (Unavailable) Stop() error { return nil }

// ---- Sensor

// Sensor owns a started Source on behalf of the terminal loop.
type Sensor struct {
	src     Source
	samples <-chan Sample
	logger  *zap.Logger
}

// Connect starts src. When the device cannot be opened the sensor is
// returned inactive and the failure is only logged.
func Connect(ctx context.Context, src Source, logger *zap.Logger) *Sensor {
	s := &Sensor{src: src, logger: logger}

	samples, err := src.Start(ctx)
	if err != nil {
		if !errors.Is(err, ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
		logger.Info("ambient sensing inactive, manual blowing only", zap.Error(err))
		return s
	}

	s.samples = samples
	logger.Info("ambient sensing active")
	return s
}

// Samples returns the sample stream. It is nil while the sensor is
// inactive, so a select on it simply never fires.
func (s *Sensor) Samples() <-chan Sample { return s.samples }

// Active reports whether samples are currently flowing.
func (s *Sensor) Active() bool { return s.samples != nil }

// Lost marks the sensor inactive after its stream closed and releases the
// device.
func (s *Sensor) Lost() {
	if s.samples == nil {
		return
	}
	s.samples = nil
	s.logger.Info("ambient stream ended, falling back to manual blowing")
	if err := s.src.Stop(); err != nil {
		s.logger.Debug("stopping ambient source", zap.Error(err))
	}
}

// Close releases the underlying device.
func (s *Sensor) Close() error {
	s.samples = nil
	if err := s.src.Stop(); err != nil {
		return fmt.Errorf("stopping ambient source: %w", err)
	}
	return nil
}
