// Package config loads the card file: who the card is for, how old they
// are turning, and which features are switched on.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"birthday-card/internal/candle"
)

const (
	DefaultAge       = 60
	DefaultRecipient = "Dad"
)

// Features toggles the optional parts of the card.
type Features struct {
	AmbientSensing     bool `yaml:"ambient_sensing"`
	CelebrationEffects bool `yaml:"celebration_effects"`
	SoundEffects       bool `yaml:"sound_effects"`
}

// Config is the card file.
type Config struct {
	Age       int      `yaml:"age"`
	Recipient string   `yaml:"recipient"`
	Sender    string   `yaml:"sender"`
	Message   string   `yaml:"message"`
	Jokes     []string `yaml:"jokes"`
	Features  Features `yaml:"features"`
	Threshold int      `yaml:"threshold"`
}

// Default returns the card used when no card file exists.
func Default() Config {
	return Config{
		Age:       DefaultAge,
		Recipient: DefaultRecipient,
		Features: Features{
			AmbientSensing:     true,
			CelebrationEffects: true,
		},
		Threshold: candle.DefaultThreshold,
	}
}

// Load reads the card file at path over the defaults. A missing file is not
// an error. Unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg.Normalize(), nil
}

// Normalize clamps values into their usable range.
func (c Config) Normalize() Config {
	c.Age = max(c.Age, 1)
	c.Threshold = min(max(c.Threshold, 0), 255)
	return c
}

// ---- Flag Overrides

// Overrides holds values given explicitly on the command line. They win over
// the card file, also after a reload. Nil fields are not set.
type Overrides struct {
	Age            *int
	Recipient      *string
	Threshold      *int
	AmbientSensing *bool
	Celebration    *bool
	Sound          *bool
}

// Apply returns cfg with the overrides applied.
func (o Overrides) Apply(cfg Config) Config {
	if o.Age != nil {
		cfg.Age = *o.Age
	}
	if o.Recipient != nil {
		cfg.Recipient = *o.Recipient
	}
	if o.Threshold != nil {
		cfg.Threshold = *o.Threshold
	}
	if o.AmbientSensing != nil {
		cfg.Features.AmbientSensing = *o.AmbientSensing
	}
	if o.Celebration != nil {
		cfg.Features.CelebrationEffects = *o.Celebration
	}
	if o.Sound != nil {
		cfg.Features.SoundEffects = *o.Sound
	}
	return cfg.Normalize()
}
