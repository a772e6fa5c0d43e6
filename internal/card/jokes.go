package card

import (
	"math/rand/v2"
	"time"
)

// MaxGroan is the top of the groan scale.
const MaxGroan = 5

// DadJokes is the built-in joke list.
var DadJokes = []string{
	"I'm reading a book about anti-gravity. It's impossible to put down!",
	"Why don't scientists trust atoms? Because they make up everything!",
	"I told my wife she was drawing her eyebrows too high. She looked surprised.",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"I invented a new word: Plagiarism!",
	"What do you call a factory that makes good products? A satisfactory!",
	"I used to hate facial hair, but then it grew on me.",
	"Why do fathers take an extra pair of socks when they go golfing? In case they get a hole in one!",
	"What's the best thing about Switzerland? I don't know, but the flag is a big plus.",
	"I'm afraid for the calendar. Its days are numbered.",
	"My wife said I should do lunges to stay in shape. That would be a big step forward.",
	"Why don't skeletons fight each other? They don't have the guts.",
	"What do you call a dinosaur that crashes his car? Tyrannosaurus Wrecks!",
	"I thought about going on an all-almond diet. But that's just nuts!",
	"What do you call a bear with no teeth? A gummy bear!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"How do you organize a space party? You planet!",
	"Want to hear a joke about construction? I'm still working on it.",
	"What do you call a sleeping bull? A bulldozer!",
	"Why don't some couples go to the gym? Because some relationships don't work out!",
	"I'd tell you a joke about time travel, but you didn't like it.",
	"What did the ocean say to the beach? Nothing, it just waved.",
	"Why did the coffee file a police report? It got mugged!",
	"How does a penguin build its house? Igloos it together!",
	"What do you call a fake noodle? An impasta!",
}

// Picker hands out jokes uniformly at random.
type Picker struct {
	jokes []string
	rng   *rand.Rand

	current string
	groan   int
}

// NewPicker creates a picker over the built-in jokes plus extra. A nil rng
// is seeded from the clock.
func NewPicker(rng *rand.Rand, extra ...string) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xd4d))
	}
	jokes := make([]string, 0, len(DadJokes)+len(extra))
	jokes = append(jokes, DadJokes...)
	for _, j := range extra {
		if j != "" {
			jokes = append(jokes, j)
		}
	}

	p := &Picker{jokes: jokes, rng: rng}
	p.current = p.Random()
	return p
}

// Random returns a joke without changing the current one.
func (p *Picker) Random() string {
	return p.jokes[p.rng.IntN(len(p.jokes))]
}

// Next picks a new current joke and rates it between 1 and MaxGroan.
func (p *Picker) Next() (string, int) {
	p.current = p.Random()
	p.groan = p.rng.IntN(MaxGroan) + 1
	return p.current, p.groan
}

// Current returns the joke on display.
func (p *Picker) Current() string { return p.current }

// Groan returns the rating of the current joke; zero before the first Next.
func (p *Picker) Groan() int { return p.groan }

// Len returns the number of jokes available.
func (p *Picker) Len() int { return len(p.jokes) }
