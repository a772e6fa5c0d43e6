// Package candle implements the candle board of the birthday card: layout of
// the candles on the cake, extinguishing random candles on a blow, completion
// detection and relighting.
//
// A Board is not safe for concurrent use. It is owned by the terminal loop;
// manual and ambient triggers both reach it through that loop, which keeps
// every mutation serialised.
package candle

import (
	"math/rand/v2"
	"slices"
	"time"
)

// ---- Layout Parameters

const (
	// RowCap is the maximum number of candles in one row.
	RowCap = 10

	// MaxSpacing is the horizontal distance between neighbouring candles
	// when the row has room for it.
	MaxSpacing = 30.0

	// RowWidthBudget bounds the total width a row may use; crowded rows
	// shrink their spacing to stay inside it.
	RowWidthBudget = 270.0

	// RowHeight is the vertical distance between rows.
	RowHeight = 25.0

	// MaxPerBlow caps how many candles a single blow can put out.
	MaxPerBlow = 3

	// CelebrationDuration is how long the notifier stays up after the last
	// candle goes out.
	CelebrationDuration = 4 * time.Second
)

// Position is an offset from the visual centre of the board.
type Position struct {
	X float64
	Y float64
}

// Candle is a single candle on the board.
type Candle struct {
	ID       int
	Lit      bool
	Position Position
}

// Rand is the randomness the board draws from. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Notifier is told when the last candle goes out.
type Notifier interface {
	Show(d time.Duration)
}

// hider is implemented by notifiers that can be dismissed early.
type hider interface {
	Hide()
}

// Snapshot is a copy of the board state handed to observers.
type Snapshot struct {
	Candles  []Candle
	Lit      int
	Complete bool
}

// Result describes what a single Extinguish call did.
type Result struct {
	// Extinguished lists the ids put out by this call, in selection order.
	Extinguished []int

	// Completed is true only for the call that put out the last candle.
	Completed bool
}

// Option configures a Board.
type Option func(*Board)

// WithRand sets the random source used to pick candles.
func WithRand(r Rand) Option {
	return func(b *Board) { b.rng = r }
}

// WithNotifier sets the notifier shown on completion.
func WithNotifier(n Notifier) Option {
	return func(b *Board) { b.notifier = n }
}

// Board owns the candles and the rules for putting them out.
type Board struct {
	count     int
	candles   []Candle
	complete  bool
	rng       Rand
	notifier  Notifier
	observers []observer
	nextObs   int
}

// observer is a subscription; fn is nil once unsubscribed.
type observer struct {
	id int
	fn func(Snapshot)
}

// NewBoard creates a board with count candles, all lit. A count below one
// is clamped to one.
func NewBoard(count int, opts ...Option) *Board {
	b := &Board{
		count: clampCount(count),
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.candles = Layout(b.count)
	return b
}

// Layout places count candles in a centred grid. It is deterministic: the
// same count always yields the same positions.
func Layout(count int) []Candle {
	count = clampCount(count)
	perRow := min(count, RowCap)
	rows := (count + perRow - 1) / perRow

	candles := make([]Candle, count)
	for i := range candles {
		row, col := i/perRow, i%perRow

		rowCount := perRow
		if row == rows-1 {
			rowCount = count - row*perRow
		}

		spacing := min(MaxSpacing, RowWidthBudget/float64(rowCount))
		candles[i] = Candle{
			ID:  i,
			Lit: true,
			Position: Position{
				X: (float64(col) - float64(rowCount-1)/2) * spacing,
				Y: float64(row)*RowHeight - float64(rows-1)*RowHeight/2,
			},
		}
	}
	return candles
}

// ---- Operations

// Extinguish puts out between one and three lit candles chosen uniformly at
// random. On a board with nothing lit it does nothing.
func (b *Board) Extinguish() Result {
	lit := make([]int, 0, len(b.candles))
	for i, c := range b.candles {
		if c.Lit {
			lit = append(lit, i)
		}
	}
	if len(lit) == 0 {
		return Result{}
	}

	k := min(b.rng.IntN(MaxPerBlow)+1, len(lit))

	// Partial Fisher-Yates: the first k entries end up a uniform k-subset.
	res := Result{Extinguished: make([]int, 0, k)}
	for i := 0; i < k; i++ {
		j := i + b.rng.IntN(len(lit)-i)
		lit[i], lit[j] = lit[j], lit[i]
		b.candles[lit[i]].Lit = false
		res.Extinguished = append(res.Extinguished, b.candles[lit[i]].ID)
	}

	if k == len(lit) {
		b.complete = true
		res.Completed = true
		if b.notifier != nil {
			b.notifier.Show(CelebrationDuration)
		}
	}

	b.emit()
	return res
}

// Blow is the manual trigger. It is a no-op once the board is complete.
func (b *Board) Blow() Result {
	if b.complete {
		return Result{}
	}
	return b.Extinguish()
}

// Reset relights every candle by regenerating the layout for the same
// count, and clears completion.
func (b *Board) Reset() {
	b.candles = Layout(b.count)
	b.complete = false
	if h, ok := b.notifier.(hider); ok {
		h.Hide()
	}
	b.emit()
}

// ---- State

// Count returns the number of candles on the board.
func (b *Board) Count() int { return b.count }

// Complete reports whether every candle is out.
func (b *Board) Complete() bool { return b.complete }

// LitCount returns the number of candles still burning.
func (b *Board) LitCount() int {
	n := 0
	for _, c := range b.candles {
		if c.Lit {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() Snapshot {
	candles := make([]Candle, len(b.candles))
	copy(candles, b.candles)
	return Snapshot{
		Candles:  candles,
		Lit:      b.LitCount(),
		Complete: b.complete,
	}
}

// Subscribe registers fn to be called with a snapshot after every mutation.
// The returned function removes the subscription.
func (b *Board) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	id := b.nextObs
	b.nextObs++
	b.observers = append(b.observers, observer{id: id, fn: fn})
	return func() {
		i := slices.IndexFunc(b.observers, func(o observer) bool { return o.id == id })
		if i >= 0 {
			b.observers[i].fn = nil
		}
	}
}

// emit notifies observers in subscription order. Subscriptions dropped
// meanwhile are compacted afterwards.
func (b *Board) emit() {
	if len(b.observers) == 0 {
		return
	}
	snap := b.Snapshot()
	for i := 0; i < len(b.observers); i++ {
		if fn := b.observers[i].fn; fn != nil {
			fn(snap)
		}
	}
	b.observers = slices.DeleteFunc(b.observers, func(o observer) bool { return o.fn == nil })
}

func clampCount(count int) int {
	if count < 1 {
		return 1
	}
	return count
}
