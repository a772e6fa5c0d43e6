package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"birthday-card/internal/candle"
	"birthday-card/internal/card"
	"birthday-card/internal/fire"
)

// ---- Palette

var (
	paperColor  = rgbColor(fire.Paper)
	inkColor    = tcell.NewRGBColor(70, 56, 44)
	accentColor = fire.RGB{R: 196, G: 74, B: 84}

	baseStyle = tcell.StyleDefault.Background(paperColor).Foreground(inkColor)
	dimStyle  = baseStyle.Foreground(tcell.NewRGBColor(150, 140, 128))
	boldStyle = baseStyle.Bold(true)
)

// candleColors are cycled through by the candle bodies.
var candleColors = []fire.RGB{
	{R: 255, G: 154, B: 162},
	{R: 181, G: 234, B: 215},
	{R: 199, G: 206, B: 234},
	{R: 255, G: 218, B: 193},
	{R: 226, G: 240, B: 203},
}

var cakeColor = tcell.NewRGBColor(214, 170, 130)

func rgbColor(c fire.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// ---- Rendering

func (c *cardScreen) renderFrame() {
	c.fill()
	if c.shell.IsOpen() {
		c.renderTabs()
		switch c.shell.Panel() {
		case card.PanelMessage:
			c.renderMessage()
		case card.PanelJokes:
			c.renderJokes()
		case card.PanelCandles:
			c.renderCandles()
		}
	} else {
		c.renderFront()
	}
	c.renderConfetti()
	c.renderMarquee()
	c.screen.Show()
}

func (c *cardScreen) fill() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.screen.SetContent(x, y, ' ', nil, baseStyle)
		}
	}
}

// drawText draws s from column x and returns the column after it. Wide
// runes take two columns; text past the right edge is dropped.
func (c *cardScreen) drawText(x, y int, s string, style tcell.Style) int {
	if y < 0 || y >= c.height {
		return x
	}
	for _, r := range s {
		w := runeWidth(r)
		if x+w > c.width {
			break
		}
		if x >= 0 {
			c.screen.SetContent(x, y, r, nil, style)
		}
		x += w
	}
	return x
}

func (c *cardScreen) drawCentered(y int, s string, style tcell.Style) {
	c.drawText((c.width-uniseg.StringWidth(s))/2, y, s, style)
}

func runeWidth(r rune) int {
	return max(uniseg.StringWidth(string(r)), 1)
}

// contentTop and contentBottom bound the panel area, between the tabs and
// the marquee.
func (c *cardScreen) contentTop() int    { return 3 }
func (c *cardScreen) contentBottom() int { return c.height - 3 }

// ---- Card Front

func (c *cardScreen) renderFront() {
	boxW := min(46, c.width-2)
	boxH := min(13, c.height-2)
	left := (c.width - boxW) / 2
	top := (c.height - boxH) / 2
	c.drawBox(left, top, boxW, boxH, dimStyle)

	title := accentColor
	if c.wrongFrames > 0 {
		title = fire.RedShift(title, float64(c.wrongFrames)/wrongPassphraseFrames)
	}
	titleStyle := baseStyle.Foreground(rgbColor(title)).Bold(true)

	cy := c.height / 2
	c.drawCentered(cy-4, "🎂", baseStyle)
	c.drawCentered(cy-2, "Happy Birthday", titleStyle)
	c.drawCentered(cy-1, c.cfg.Recipient, boldStyle)

	if c.store == nil {
		blink := dimStyle
		if (c.frame/20)%2 == 0 {
			blink = baseStyle
		}
		c.drawCentered(cy+2, "Press any key to open", blink)
		return
	}

	c.drawCentered(cy+2, "Type the passphrase and press Enter", dimStyle)
	if n := c.input.RuneCount(); n > 0 {
		c.drawCentered(cy+3, "> "+strings.Repeat("*", min(n, boxW-6)), dimStyle)
	}
}

func (c *cardScreen) drawBox(left, top, w, h int, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := left+w-1, top+h-1
	for x := left + 1; x < right; x++ {
		c.screen.SetContent(x, top, '─', nil, style)
		c.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := top + 1; y < bottom; y++ {
		c.screen.SetContent(left, y, '│', nil, style)
		c.screen.SetContent(right, y, '│', nil, style)
	}
	c.screen.SetContent(left, top, '╭', nil, style)
	c.screen.SetContent(right, top, '╮', nil, style)
	c.screen.SetContent(left, bottom, '╰', nil, style)
	c.screen.SetContent(right, bottom, '╯', nil, style)
}

// ---- Open Card

func (c *cardScreen) renderTabs() {
	labels := make([]string, len(card.Panels))
	total := 0
	for i, p := range card.Panels {
		labels[i] = fmt.Sprintf(" %d %c %s ", i+1, p.Icon(), p.Title())
		total += uniseg.StringWidth(labels[i]) + 1
	}

	x := (c.width - total) / 2
	for i, p := range card.Panels {
		style := dimStyle
		if p == c.shell.Panel() {
			style = boldStyle.Reverse(true)
		}
		x = c.drawText(x, 1, labels[i], style) + 1
	}
}

func (c *cardScreen) renderMessage() {
	top := c.contentTop()
	c.drawCentered(top, "A Special Message", boldStyle)

	width := min(64, c.width-4)
	lines := wrap(c.typewriter.Visible(), width)
	if len(lines) == 0 {
		lines = []string{""}
	}
	if !c.typewriter.Done() && (c.frame/15)%2 == 0 {
		lines[len(lines)-1] += "▌"
	}

	left := (c.width - width) / 2
	y := top + 2
	for _, line := range lines {
		if y >= c.contentBottom() {
			break
		}
		c.drawText(left, y, line, baseStyle)
		y++
	}

	if c.typewriter.Done() {
		var row strings.Builder
		for i, r := range card.CelebrationEmoji {
			// Bounce every other emoji
			if (c.frame/10+i)%2 == 0 {
				row.WriteString(" ")
			}
			row.WriteRune(r)
			row.WriteString(" ")
		}
		c.drawCentered(min(y+1, c.contentBottom()), row.String(), baseStyle)
	} else {
		c.drawCentered(c.contentBottom(), "Enter to skip", dimStyle)
	}
}

func (c *cardScreen) renderJokes() {
	top := c.contentTop()
	c.drawCentered(top, "Dad Joke Generator", boldStyle)

	width := min(56, c.width-4)
	left := (c.width - width) / 2
	y := top + 2
	for _, line := range wrap(c.picker.Current(), width) {
		c.drawText(left, y, line, baseStyle)
		y++
	}

	c.drawCentered(y+1, "[ Enter ] Another one!", boldStyle)
	if g := c.picker.Groan(); g > 0 {
		c.drawCentered(y+3, "Groan level: "+groanMeter(g), baseStyle)
	}
}

// groanMeter shows level out of card.MaxGroan faces.
func groanMeter(level int) string {
	level = clamp(level, 0, card.MaxGroan)
	return strings.Repeat("😩", level) + strings.Repeat("🙂", card.MaxGroan-level)
}

// ---- Candles Panel

// candleCell is a candle placed on the terminal grid; y is the top of the
// two-row candle body.
type candleCell struct {
	id  int
	x   int
	y   int
	lit bool
}

// Candle positions are in layout units (see candle.Layout); the terminal
// grid gets at most 6 columns per candle spacing and 5 rows per row height.
const (
	colsPerSpacing = 6.0
	rowsPerRow     = 5.0
)

// placeCandles maps the board onto a width x height area whose top-left
// corner is (left, top).
func placeCandles(s candle.Snapshot, left, top, width, height int) []candleCell {
	if len(s.Candles) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	minY, maxY := s.Candles[0].Position.Y, s.Candles[0].Position.Y
	for _, cd := range s.Candles {
		minY = math.Min(minY, cd.Position.Y)
		maxY = math.Max(maxY, cd.Position.Y)
	}
	rows := (maxY-minY)/candle.RowHeight + 1

	scaleX := math.Min(colsPerSpacing/candle.MaxSpacing, float64(width-2)/(candle.RowWidthBudget+candle.MaxSpacing))
	scaleY := math.Min(rowsPerRow/candle.RowHeight, float64(max(height-3, 1))/(rows*candle.RowHeight))

	cx := left + width/2
	cy := top + height/2
	out := make([]candleCell, len(s.Candles))
	for i, cd := range s.Candles {
		out[i] = candleCell{
			id:  cd.ID,
			x:   clamp(cx+int(math.Round(cd.Position.X*scaleX)), left, left+width-1),
			y:   clamp(cy+int(math.Round(cd.Position.Y*scaleY)), top+1, top+height-2),
			lit: cd.Lit,
		}
	}
	return out
}

func (c *cardScreen) renderCandles() {
	top := c.contentTop()
	bottom := c.contentBottom()

	if c.board == nil {
		return
	}
	snap := c.board.Snapshot()
	c.drawCentered(top, fmt.Sprintf("%d candles for the %s birthday", len(snap.Candles), card.Ordinal(c.cfg.Age)), boldStyle)

	// Leave four rows for the cake and the status lines
	area := bottom - top - 6
	cells := placeCandles(snap, 2, top+2, c.width-4, area)

	now := c.now()
	lean := c.gust.Lean()
	cakeLeft, cakeRight, cakeRow := c.width, 0, top+2
	for _, cc := range cells {
		body := baseStyle.Foreground(rgbColor(candleColors[cc.id%len(candleColors)]))
		c.screen.SetContent(cc.x, cc.y, '┃', nil, body)
		c.screen.SetContent(cc.x, cc.y+1, '┃', nil, body)

		if cc.lit {
			f := fire.Flame(cc.id, c.frame, lean)
			c.screen.SetContent(cc.x+f.DX, cc.y-1, f.Glyph, nil, baseStyle.Foreground(rgbColor(f.Color)))
		} else if at, ok := c.smoke[cc.id]; ok {
			age := float64(now.Sub(at)) / float64(fire.SmokeDuration)
			if s, dy, ok := fire.Smoke(cc.id, age); ok && cc.y-1-dy > top {
				c.screen.SetContent(cc.x+s.DX, cc.y-1-dy, s.Glyph, nil, baseStyle.Foreground(rgbColor(s.Color)))
			}
		}

		cakeLeft = min(cakeLeft, cc.x)
		cakeRight = max(cakeRight, cc.x)
		cakeRow = max(cakeRow, cc.y+2)
	}

	cake := baseStyle.Foreground(cakeColor)
	for x := max(cakeLeft-3, 0); x <= min(cakeRight+3, c.width-1); x++ {
		c.screen.SetContent(x, cakeRow, '▆', nil, cake)
		c.screen.SetContent(x, cakeRow+1, '█', nil, cake)
	}

	status := fmt.Sprintf("%d candles still burning", snap.Lit)
	if snap.Complete {
		status = "All candles blown out!"
	}
	c.drawCentered(cakeRow+3, status, baseStyle)

	button := "[ Space ] Blow!"
	switch {
	case snap.Complete:
		button = "[ r ] Relight the candles"
	case c.trigger.Blowing(now):
		button = "Blowing..."
	}
	c.drawCentered(cakeRow+4, button, boldStyle)

	hint := "👆 Press space to blow out candles"
	if c.sensor != nil && c.sensor.Active() {
		hint = "🎤 Microphone enabled - try blowing!"
	}
	c.drawCentered(min(cakeRow+6, bottom), hint, dimStyle)

	if c.banner.Visible() {
		c.drawCentered(top+1, " 🎉 Make a wish! 🎉 ", boldStyle.Foreground(rgbColor(accentColor)).Reverse(true))
	}
}

// ---- Overlays

func (c *cardScreen) renderConfetti() {
	for _, p := range c.confetti.Particles(c.now(), c.width, c.height) {
		style := baseStyle
		if p.Color != "" {
			style = style.Foreground(tcell.GetColor(p.Color))
		}
		if p.Fade > 0.8 {
			style = style.Dim(true)
		}
		c.screen.SetContent(p.X, p.Y, p.Glyph, nil, style)
	}
}

func (c *cardScreen) renderMarquee() {
	if c.height < 2 || len(c.marqueeText) == 0 {
		return
	}
	c.drawText(0, c.height-1, string(marquee(c.marqueeText, c.marqueeOffset, c.width)), dimStyle)
}

// marquee returns width runes of text starting at offset, wrapping around.
func marquee(text []rune, offset, width int) []rune {
	if len(text) == 0 || width <= 0 {
		return nil
	}
	out := make([]rune, width)
	for x := range out {
		out[x] = text[(offset+x)%len(text)]
	}
	return out
}

// wrap breaks text into lines no wider than width, keeping paragraph breaks.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if uniseg.StringWidth(line)+1+uniseg.StringWidth(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		// Keep the trailing space while typing so the cursor does not jump.
		if strings.HasSuffix(para, " ") {
			line += " "
		}
		lines = append(lines, line)
	}
	return lines
}
