package ambient

import "math"

// ---- Level Mapping
// Levels follow the byte scaling browsers use for analyser data: a decibel
// range mapped linearly onto 0..255 and clipped at both ends.

const (
	// MinDecibels maps to level 0.
	MinDecibels = -50.0

	// MaxDecibels maps to level 255.
	MaxDecibels = 0.0
)

// Level returns the amplitude of a window of stereo frames as a byte.
// Channels are mixed down before the RMS is taken.
func Level(frames [][2]float64) uint8 {
	if len(frames) == 0 {
		return 0
	}

	var sum float64
	for _, f := range frames {
		m := (f[0] + f[1]) / 2
		sum += m * m
	}
	rms := math.Sqrt(sum / float64(len(frames)))
	if rms == 0 {
		return 0
	}

	db := 20 * math.Log10(rms)
	scaled := (db - MinDecibels) / (MaxDecibels - MinDecibels) * 255
	switch {
	case scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	}
	return uint8(math.Round(scaled))
}
