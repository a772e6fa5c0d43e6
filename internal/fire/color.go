package fire

// RGB is a true-colour value.
type RGB struct {
	R, G, B uint8
}

// ---- Palettes

// flamePalette runs from the hot core to the cool tip.
var flamePalette = []RGB{
	{255, 244, 200}, // white-yellow core
	{255, 210, 80},  // yellow
	{255, 160, 0},   // bright orange
	{255, 100, 0},   // orange
	{200, 50, 0},    // red-orange tip
}

// smokeStart is the colour of fresh smoke, fading toward the card paper.
var smokeStart = RGB{170, 170, 170}

// Paper is the card background the smoke fades into.
var Paper = RGB{250, 246, 235}

// angry is the target of the wrong-passphrase shift.
var angry = RGB{255, 30, 20}

// ---- Colour Shift Utilities

// Lerp moves c toward target by t (0-1).
func Lerp(c, target RGB, t float64) RGB {
	t = clamp01(t)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return RGB{mix(c.R, target.R), mix(c.G, target.G), mix(c.B, target.B)}
}

// FlameColor returns the colour at heat h, 1 being the hottest core and 0
// the tip.
func FlameColor(h float64) RGB {
	h = clamp01(h)
	pos := (1 - h) * float64(len(flamePalette)-1)
	i := int(pos)
	if i >= len(flamePalette)-1 {
		return flamePalette[len(flamePalette)-1]
	}
	return Lerp(flamePalette[i], flamePalette[i+1], pos-float64(i))
}

// SmokeColor returns the smoke colour for a candle that went out age ago,
// as a fraction of SmokeDuration (0 fresh, 1 gone).
func SmokeColor(age float64) RGB {
	return Lerp(smokeStart, Paper, age)
}

// RedShift pushes c toward an angry red as intensity rises (0-1). Used when
// a wrong passphrase is entered at the sealed card front.
func RedShift(c RGB, intensity float64) RGB {
	if intensity <= 0 {
		return c
	}
	shifted := Lerp(c, angry, intensity*0.8)
	if intensity > 0.5 {
		// Extra glow at the peak of the flash.
		shifted = Lerp(shifted, RGB{255, 120, 90}, (intensity-0.5)*0.6)
	}
	return shifted
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
