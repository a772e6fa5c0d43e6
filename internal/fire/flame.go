package fire

import "math"

// Cell is one character of flame or smoke.
type Cell struct {
	// DX is the column offset from the wick; a gust bends the flame.
	DX    int
	Glyph rune
	Color RGB
}

var (
	flameGlyphs = []rune{'▲', '♦', '◆', '♠'}
	smokeGlyphs = []rune{'~', '∽', '≈', '˜', '.'}
)

// Flame returns the flame cell for candle id at frame. Each candle flickers
// with its own phase so the cake does not pulse in unison. lean is the gust
// (0-1): strong gusts bend the flame one column and cool it.
func Flame(id, frame int, lean float64) Cell {
	phase := float64(frame)/7 + float64(id)*1.7
	flicker := (math.Sin(phase) + math.Sin(phase*2.3+0.5)) / 4 // -0.5..0.5

	heat := 0.75 + flicker*0.4 - lean*0.5
	cell := Cell{
		Glyph: flameGlyphs[(frame/3+id)%len(flameGlyphs)],
		Color: FlameColor(heat),
	}
	if lean > 0.5 {
		cell.DX = 1
	}
	return cell
}

// Smoke returns the smoke cell for a candle that went out age ago, as a
// fraction of SmokeDuration; ok is false once the smoke has cleared. The
// smoke drifts up rows as it ages, returned as DY.
func Smoke(id int, age float64) (cell Cell, dy int, ok bool) {
	if age < 0 || age >= 1 {
		return Cell{}, 0, false
	}
	idx := min(int(age*float64(len(smokeGlyphs))), len(smokeGlyphs)-1)
	cell = Cell{
		Glyph: smokeGlyphs[idx],
		Color: SmokeColor(age),
	}
	if id%2 == 1 && age > 0.5 {
		cell.DX = 1
	}
	return cell, int(age * 2), true
}
