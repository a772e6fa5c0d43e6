// Package card holds the parts of the birthday card around the candle game:
// the open/closed shell and its panels, the typewriter message, the joke
// picker, the confetti overlay and the celebration banner.
package card

// Panel is one of the tabs inside the open card.
type Panel int

const (
	PanelMessage Panel = iota
	PanelJokes
	PanelCandles
	panelCount
)

// Panels lists the tabs in display order.
var Panels = []Panel{PanelMessage, PanelJokes, PanelCandles}

func (p Panel) String() string {
	switch p {
	case PanelMessage:
		return "message"
	case PanelJokes:
		return "jokes"
	case PanelCandles:
		return "candles"
	default:
		return "unknown"
	}
}

// Title is the label shown on the tab.
func (p Panel) Title() string {
	switch p {
	case PanelMessage:
		return "Message"
	case PanelJokes:
		return "Jokes"
	case PanelCandles:
		return "Candles"
	default:
		return ""
	}
}

// Icon is the emoji shown next to the title.
func (p Panel) Icon() rune {
	switch p {
	case PanelMessage:
		return '💌'
	case PanelJokes:
		return '😄'
	case PanelCandles:
		return '🎂'
	default:
		return ' '
	}
}

// Shell tracks whether the card is open and which panel is showing.
type Shell struct {
	open  bool
	panel Panel
}

// Open opens the card. It reports true only the first time, which is when
// the confetti should fire.
func (s *Shell) Open() bool {
	if s.open {
		return false
	}
	s.open = true
	s.panel = PanelMessage
	return true
}

// IsOpen reports whether the card has been opened.
func (s *Shell) IsOpen() bool { return s.open }

// Panel returns the active panel.
func (s *Shell) Panel() Panel { return s.panel }

// Select switches to p. It returns false, changing nothing, when the card is
// still closed or p is not a panel.
func (s *Shell) Select(p Panel) bool {
	if !s.open || p < 0 || p >= panelCount {
		return false
	}
	s.panel = p
	return true
}

// Next moves to the following panel, wrapping around.
func (s *Shell) Next() { s.Select((s.panel + 1) % panelCount) }

// Prev moves to the preceding panel, wrapping around.
func (s *Shell) Prev() { s.Select((s.panel + panelCount - 1) % panelCount) }
