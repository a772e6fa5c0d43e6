package candle

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand returns queued draws in order, then zeros.
type scriptedRand struct {
	draws []int
	calls []int
}

func (r *scriptedRand) IntN(n int) int {
	r.calls = append(r.calls, n)
	if len(r.draws) == 0 {
		return 0
	}
	v := r.draws[0]
	r.draws = r.draws[1:]
	return v % n
}

type countingNotifier struct {
	shows int
	hides int
	last  time.Duration
}

func (n *countingNotifier) Show(d time.Duration) {
	n.shows++
	n.last = d
}

func (n *countingNotifier) Hide() { n.hides++ }

func seeded(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  []Position
	}{
		{
			name:  "single candle",
			count: 1,
			want:  []Position{{0, 0}},
		},
		{
			name:  "one full row",
			count: 5,
			want:  []Position{{-60, 0}, {-30, 0}, {0, 0}, {30, 0}, {60, 0}},
		},
		{
			name:  "crowded first row and short last row",
			count: 12,
			want: []Position{
				{-121.5, -12.5}, {-94.5, -12.5}, {-67.5, -12.5}, {-40.5, -12.5}, {-13.5, -12.5},
				{13.5, -12.5}, {40.5, -12.5}, {67.5, -12.5}, {94.5, -12.5}, {121.5, -12.5},
				{-15, 12.5}, {15, 12.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := Layout(tt.count)
			got := make([]Position, len(candles))
			for i, c := range candles {
				got[i] = c.Position
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Layout(%d) positions mismatch (-want +got):\n%s", tt.count, diff)
			}
		})
	}
}

func TestLayout_IdsAndDeterminism(t *testing.T) {
	for count := 1; count <= 60; count++ {
		first := Layout(count)
		require.Len(t, first, count)
		for i, c := range first {
			assert.Equal(t, i, c.ID)
			assert.True(t, c.Lit, "candle %d of %d should start lit", i, count)
		}
		if diff := cmp.Diff(first, Layout(count)); diff != "" {
			t.Fatalf("Layout(%d) not deterministic:\n%s", count, diff)
		}
	}
}

func TestLayout_RowsStayInsideBudget(t *testing.T) {
	for _, c := range Layout(60) {
		assert.LessOrEqual(t, c.Position.X, RowWidthBudget/2)
		assert.GreaterOrEqual(t, c.Position.X, -RowWidthBudget/2)
	}
}

func TestNewBoard_ClampsCount(t *testing.T) {
	for _, count := range []int{0, -1, -100} {
		b := NewBoard(count)
		assert.Equal(t, 1, b.Count())
		assert.Equal(t, 1, b.LitCount())
	}
}

func TestExtinguish_LitCountBounds(t *testing.T) {
	b := NewBoard(60, seeded(7))
	for !b.Complete() {
		before := b.LitCount()
		res := b.Extinguish()
		after := b.LitCount()

		assert.GreaterOrEqual(t, after, before-MaxPerBlow)
		assert.LessOrEqual(t, after, before-1)
		assert.GreaterOrEqual(t, after, 0)
		assert.Len(t, res.Extinguished, before-after)
	}
}

func TestExtinguish_Scenario(t *testing.T) {
	// Blow counts 2, 1, 2 on five candles; selection draws are all zero.
	rng := &scriptedRand{draws: []int{1, 0, 0, 0, 0, 1, 0, 0}}
	notifier := &countingNotifier{}
	b := NewBoard(5, WithRand(rng), WithNotifier(notifier))

	res := b.Extinguish()
	assert.Equal(t, 3, b.LitCount())
	assert.False(t, res.Completed)

	res = b.Extinguish()
	assert.Equal(t, 2, b.LitCount())
	assert.False(t, res.Completed)

	res = b.Extinguish()
	assert.Equal(t, 0, b.LitCount())
	assert.True(t, res.Completed)
	assert.True(t, b.Complete())
	assert.Len(t, res.Extinguished, 2)

	assert.Equal(t, 1, notifier.shows)
	assert.Equal(t, CelebrationDuration, notifier.last)
	assert.Equal(t, []int{3, 5, 4, 3, 3, 3, 2, 1}, rng.calls)
}

func TestExtinguish_EmptyIsNoop(t *testing.T) {
	notifier := &countingNotifier{}
	b := NewBoard(2, seeded(1), WithNotifier(notifier))
	for !b.Complete() {
		b.Extinguish()
	}
	before := b.Snapshot()

	changes := 0
	b.Subscribe(func(Snapshot) { changes++ })

	res := b.Extinguish()
	assert.Empty(t, res.Extinguished)
	assert.False(t, res.Completed)
	assert.Equal(t, before, b.Snapshot())
	assert.Equal(t, 1, notifier.shows)
	assert.Zero(t, changes)
}

func TestExtinguish_Uniform(t *testing.T) {
	// Single-candle blows from a board of four: each candle should go out
	// first about a quarter of the time.
	const trials = 4000
	counts := make([]int, 4)
	rng := rand.New(rand.NewPCG(42, 42))
	for i := 0; i < trials; i++ {
		b := NewBoard(4, WithRand(&firstDrawZero{r: rng}))
		res := b.Extinguish()
		require.Len(t, res.Extinguished, 1)
		counts[res.Extinguished[0]]++
	}
	for id, n := range counts {
		assert.InDelta(t, trials/4, n, trials/20, "candle %d picked %d times", id, n)
	}
}

// firstDrawZero forces k=1 and defers selection draws to r.
type firstDrawZero struct {
	r    *rand.Rand
	used bool
}

func (f *firstDrawZero) IntN(n int) int {
	if !f.used {
		f.used = true
		return 0
	}
	return f.r.IntN(n)
}

func TestCompleteIsMonotonic(t *testing.T) {
	notifier := &countingNotifier{}
	b := NewBoard(9, seeded(3), WithNotifier(notifier))

	completions := 0
	for i := 0; i < 20; i++ {
		if b.Extinguish().Completed {
			completions++
		}
		if completions > 0 {
			assert.True(t, b.Complete())
		}
	}
	assert.Equal(t, 1, completions)
	assert.Equal(t, 1, notifier.shows)
}

func TestBlow_NoopWhenComplete(t *testing.T) {
	b := NewBoard(1, seeded(5))
	res := b.Blow()
	require.True(t, res.Completed)

	assert.NotPanics(t, func() {
		res = b.Blow()
	})
	assert.Empty(t, res.Extinguished)
	assert.True(t, b.Complete())
}

func TestReset(t *testing.T) {
	notifier := &countingNotifier{}
	b := NewBoard(14, seeded(11), WithNotifier(notifier))
	layout := b.Snapshot().Candles

	t.Run("mid game", func(t *testing.T) {
		b.Extinguish()
		b.Reset()
		assert.Equal(t, 14, b.LitCount())
		assert.False(t, b.Complete())
	})

	t.Run("after completion", func(t *testing.T) {
		for !b.Complete() {
			b.Blow()
		}
		b.Reset()
		assert.Equal(t, b.Count(), b.LitCount())
		assert.False(t, b.Complete())
		assert.Equal(t, layout, b.Snapshot().Candles)
		assert.Equal(t, 2, notifier.hides)
	})

	t.Run("completion fires again after reset", func(t *testing.T) {
		for !b.Complete() {
			b.Blow()
		}
		assert.Equal(t, 2, notifier.shows)
	})
}

func TestSubscribe(t *testing.T) {
	b := NewBoard(6, seeded(2))

	var snaps []Snapshot
	unsubscribe := b.Subscribe(func(s Snapshot) { snaps = append(snaps, s) })

	b.Extinguish()
	b.Reset()
	require.Len(t, snaps, 2)
	assert.Less(t, snaps[0].Lit, 6)
	assert.Equal(t, 6, snaps[1].Lit)

	// Snapshots are copies.
	snaps[1].Candles[0].Lit = false
	assert.True(t, b.Snapshot().Candles[0].Lit)

	unsubscribe()
	b.Extinguish()
	assert.Len(t, snaps, 2)
}

func TestSubscribe_Order(t *testing.T) {
	b := NewBoard(4, seeded(3))

	var calls []string
	b.Subscribe(func(Snapshot) { calls = append(calls, "a") })
	dropB := b.Subscribe(func(Snapshot) { calls = append(calls, "b") })
	b.Subscribe(func(Snapshot) { calls = append(calls, "c") })

	for range 5 {
		b.Reset()
	}
	assert.Equal(t, strings.Repeat("abc", 5), strings.Join(calls, ""))

	calls = nil
	dropB()
	dropB()
	b.Reset()
	b.Subscribe(func(Snapshot) { calls = append(calls, "d") })
	b.Reset()
	assert.Equal(t, []string{"a", "c", "a", "c", "d"}, calls)
}
