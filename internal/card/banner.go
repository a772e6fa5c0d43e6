package card

import "time"

// Banner is the "Make a wish!" celebration shown when the last candle goes
// out. It hides itself once its duration has passed; nothing else needs to
// happen for it to go away.
type Banner struct {
	now   func() time.Time
	until time.Time
}

// NewBanner creates a hidden banner. A nil clock means time.Now.
func NewBanner(now func() time.Time) *Banner {
	if now == nil {
		now = time.Now
	}
	return &Banner{now: now}
}

// Show displays the banner for d.
func (b *Banner) Show(d time.Duration) {
	b.until = b.now().Add(d)
}

// Hide dismisses the banner early.
func (b *Banner) Hide() {
	b.until = time.Time{}
}

// Visible reports whether the banner is currently up.
func (b *Banner) Visible() bool {
	return b.now().Before(b.until)
}
