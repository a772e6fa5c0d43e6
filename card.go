package main

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"birthday-card/internal/ambient"
	"birthday-card/internal/candle"
	"birthday-card/internal/card"
	"birthday-card/internal/chime"
	"birthday-card/internal/config"
	"birthday-card/internal/fire"
	"birthday-card/internal/seal"
)

// ---- Constants

const (
	// Timing
	frameDelay = 30 * time.Millisecond

	// wrongPassphraseFrames is how long the front flashes red (~2 sec).
	wrongPassphraseFrames = 67

	// inputTimeoutFrames clears a half-typed passphrase (~6 sec).
	inputTimeoutFrames = 200

	// marqueeEvery is frames per marquee step.
	marqueeEvery = 4
)

// ---- Card Screen State

type cardDeps struct {
	cfg       config.Config
	overrides config.Overrides
	log       *zap.Logger
	store     *seal.Store
	updates   <-chan config.Config
	connect   func(ctx context.Context, enabled bool) *ambient.Sensor
	player    func(enabled bool) chime.Player
	now       func() time.Time
	rng       *rand.Rand
}

type cardScreen struct {
	cfg       config.Config
	overrides config.Overrides
	log       *zap.Logger
	screen    tcell.Screen
	now       func() time.Time
	rng       *rand.Rand

	// Dimensions
	width, height int
	frame         int
	lastFrame     time.Time

	// Card parts
	shell      card.Shell
	banner     *card.Banner
	typewriter *card.Typewriter
	picker     *card.Picker
	confetti   *card.Confetti

	// Candle game; board is nil until the candles panel is first shown.
	board       *candle.Board
	unsubscribe func()
	trigger     *candle.Trigger
	gust        *fire.Gust
	lit         []bool
	smoke       map[int]time.Time

	// Ambient sensing and sound
	ctx     context.Context
	sensor  *ambient.Sensor
	connect func(ctx context.Context, enabled bool) *ambient.Sensor
	player  chime.Player
	newPlay func(enabled bool) chime.Player

	// Seal (store is nil when the card is not sealed)
	store            *seal.Store
	input            *seal.Buffer
	framesSinceInput int
	wrongFrames      int

	// Marquee
	marqueeText   []rune
	marqueeOffset int

	// Event channels
	events   chan tcell.Event
	pollDone chan struct{}
	updates  <-chan config.Config
}

func newCardScreen(screen tcell.Screen, d cardDeps) *cardScreen {
	if d.now == nil {
		d.now = time.Now
	}
	if d.rng == nil {
		seed := uint64(d.now().UnixNano())
		d.rng = rand.New(rand.NewPCG(seed, seed>>17))
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.player == nil {
		d.player = func(bool) chime.Player { return chime.Silent{} }
	}

	c := &cardScreen{
		cfg:       d.cfg,
		overrides: d.overrides,
		log:       d.log,
		screen:    screen,
		now:       d.now,
		rng:       d.rng,
		banner:    card.NewBanner(d.now),
		confetti:  card.NewConfetti(d.rng),
		trigger:   candle.NewTrigger(),
		gust:      fire.NewGust(),
		smoke:     make(map[int]time.Time),
		connect:   d.connect,
		newPlay:   d.player,
		store:     d.store,
		updates:   d.updates,
		events:    make(chan tcell.Event, 10),
		pollDone:  make(chan struct{}),
	}
	c.trigger.Threshold = uint8(c.cfg.Threshold)
	c.typewriter = card.NewTypewriter(c.messageText(), card.DefaultPace)
	c.picker = card.NewPicker(c.rng, c.cfg.Jokes...)
	c.player = c.newPlay(c.cfg.Features.SoundEffects)
	c.marqueeText = marqueeText(c.cfg)
	if c.store != nil {
		c.input = seal.NewBuffer()
	}

	c.resize()
	return c
}

func (c *cardScreen) close() {
	if c.input != nil {
		c.input.Destroy()
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.closeSensor()
	c.player.Close()
	c.screen.Fini()

	// Wait for pollEvents goroutine to finish
	select {
	case <-c.pollDone:
	case <-time.After(100 * time.Millisecond):
	}
}

func (c *cardScreen) resize() {
	c.width, c.height = c.screen.Size()
}

func (c *cardScreen) messageText() string {
	return card.Message(c.cfg.Recipient, c.cfg.Sender, c.cfg.Message)
}

// ---- Main Loop

func (c *cardScreen) run(ctx context.Context) error {
	c.screen.Clear()
	c.screen.HideCursor()

	if c.width <= 0 || c.height <= 0 {
		return nil
	}

	c.ctx = ctx
	go c.pollEvents()

	ticker := time.NewTicker(frameDelay)
	defer ticker.Stop()
	c.lastFrame = c.now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-c.events:
			if c.handleEvent(ev) == actionExit {
				return nil
			}

		case smp, ok := <-c.samples():
			if !ok {
				c.sensor.Lost()
				continue
			}
			c.onSample(smp)

		case cfg := <-c.updates:
			c.applyConfig(cfg)

		case <-ticker.C:
			c.update()
			c.renderFrame()
		}
	}
}

// pollEvents reads events until the screen is finalized.
// When screen.Fini() is called (in close()), PollEvent returns nil, ending this goroutine.
func (c *cardScreen) pollEvents() {
	defer close(c.pollDone)
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		c.events <- ev
	}
}

// ---- Ambient Sensing

// samples is nil while no sensor is open, so the loop never selects it.
func (c *cardScreen) samples() <-chan ambient.Sample {
	if c.sensor == nil {
		return nil
	}
	return c.sensor.Samples()
}

func (c *cardScreen) openSensor(enabled bool) *ambient.Sensor {
	if c.connect == nil {
		return ambient.Connect(c.ctx, ambient.Disabled{}, c.log)
	}
	return c.connect(c.ctx, enabled)
}

func (c *cardScreen) closeSensor() {
	if c.sensor == nil {
		return
	}
	if err := c.sensor.Close(); err != nil {
		c.log.Debug("closing sensor", zap.Error(err))
	}
	c.sensor = nil
}

// syncSensor holds the microphone only while the candles panel shows.
func (c *cardScreen) syncSensor() {
	want := c.shell.IsOpen() && c.shell.Panel() == card.PanelCandles
	switch {
	case want && c.sensor == nil:
		c.sensor = c.openSensor(c.cfg.Features.AmbientSensing)
	case !want && c.sensor != nil:
		c.closeSensor()
	}
}

// update advances everything that moves with time.
func (c *cardScreen) update() {
	now := c.now()
	dt := now.Sub(c.lastFrame)
	c.lastFrame = now
	c.frame++

	c.gust.OnFrame()

	if c.shell.IsOpen() && c.shell.Panel() == card.PanelMessage {
		c.typewriter.Advance(dt)
	}

	for id, at := range c.smoke {
		if now.Sub(at) >= fire.SmokeDuration {
			delete(c.smoke, id)
		}
	}

	if c.wrongFrames > 0 {
		c.wrongFrames--
	}

	// Clear a half-typed passphrase after a pause
	if c.input != nil && c.input.Len() > 0 {
		c.framesSinceInput++
		if c.framesSinceInput >= inputTimeoutFrames {
			c.input.Clear()
			c.framesSinceInput = 0
		}
	}

	if c.frame%marqueeEvery == 0 && len(c.marqueeText) > 0 {
		c.marqueeOffset = (c.marqueeOffset + 1) % len(c.marqueeText)
	}
}

// ---- Event Handling

type action int

const (
	actionNone action = iota
	actionExit
	actionResize
)

func (c *cardScreen) handleEvent(ev tcell.Event) action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.resize()
		c.screen.Sync()
		if c.width <= 0 || c.height <= 0 {
			return actionExit
		}
		return actionResize

	case *tcell.EventKey:
		return c.handleKey(ev.Key(), ev.Rune())
	}
	return actionNone
}

func (c *cardScreen) handleKey(key tcell.Key, r rune) action {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return actionExit
	}
	if !c.shell.IsOpen() {
		if c.store != nil {
			return c.handleKeySealed(key, r)
		}
		if key == tcell.KeyRune && r == 'q' {
			return actionExit
		}
		c.open()
		return actionNone
	}
	return c.handleKeyOpen(key, r)
}

func (c *cardScreen) handleKeySealed(key tcell.Key, r rune) action {
	c.framesSinceInput = 0
	switch key {
	case tcell.KeyEnter:
		if c.tryUnseal() {
			c.open()
			return actionNone
		}
		c.wrongFrames = wrongPassphraseFrames
		c.input.Clear()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		c.input.Backspace()
	case tcell.KeyRune:
		c.input.AppendRune(r)
	}
	return actionNone
}

func (c *cardScreen) tryUnseal() bool {
	passphrase := c.input.Bytes()
	defer seal.ClearBytes(passphrase)

	ok, err := c.store.Check(passphrase)
	if err != nil {
		c.log.Warn("checking seal", zap.Error(err))
		return false
	}
	return ok
}

func (c *cardScreen) open() {
	if !c.shell.Open() {
		return
	}
	if c.input != nil {
		c.input.Destroy()
		c.input = nil
	}
	c.log.Info("card opened")
	if c.cfg.Features.CelebrationEffects {
		c.confetti.Burst(c.now())
	}
}

func (c *cardScreen) handleKeyOpen(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyTab, tcell.KeyRight:
		c.shell.Next()
		c.panelShown()
		return actionNone
	case tcell.KeyBacktab, tcell.KeyLeft:
		c.shell.Prev()
		c.panelShown()
		return actionNone
	case tcell.KeyRune:
		switch r {
		case 'q':
			return actionExit
		case '1', '2', '3':
			c.shell.Select(card.Panels[r-'1'])
			c.panelShown()
			return actionNone
		}
	}

	switch c.shell.Panel() {
	case card.PanelMessage:
		if key == tcell.KeyEnter {
			if c.typewriter.Done() {
				c.typewriter.Restart()
			} else {
				c.typewriter.Skip()
			}
		}
	case card.PanelJokes:
		if key == tcell.KeyEnter || (key == tcell.KeyRune && r == ' ') {
			c.picker.Next()
		}
	case card.PanelCandles:
		switch {
		case key == tcell.KeyEnter || (key == tcell.KeyRune && r == ' '):
			c.blow()
		case key == tcell.KeyRune && r == 'r':
			c.relight()
		}
	}
	return actionNone
}

// panelShown creates the candle board the first time its panel is shown.
// The board survives panel switches; the microphone does not.
func (c *cardScreen) panelShown() {
	if c.shell.Panel() == card.PanelCandles && c.board == nil {
		c.newBoard()
	}
	c.syncSensor()
}

// ---- Candle Game

func (c *cardScreen) newBoard() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.board = candle.NewBoard(c.cfg.Age,
		candle.WithRand(c.rng),
		candle.WithNotifier(c.banner))
	c.unsubscribe = c.board.Subscribe(c.onBoardChange)
	c.lit = litState(c.board.Snapshot())
	clear(c.smoke)
	c.gust.Reset()
	c.trigger.Clear()
	c.log.Debug("candle board created", zap.Int("candles", c.board.Count()))
}

// onBoardChange starts smoke for every candle that just went out.
func (c *cardScreen) onBoardChange(s candle.Snapshot) {
	now := c.now()
	for i, cd := range s.Candles {
		if i < len(c.lit) && c.lit[i] && !cd.Lit {
			c.smoke[cd.ID] = now
		}
	}
	c.lit = litState(s)
}

func litState(s candle.Snapshot) []bool {
	lit := make([]bool, len(s.Candles))
	for i, cd := range s.Candles {
		lit[i] = cd.Lit
	}
	return lit
}

func (c *cardScreen) blow() {
	if c.board == nil {
		return
	}
	c.gust.OnBlow()
	c.finish(c.board.Blow())
}

func (c *cardScreen) relight() {
	if c.board == nil || !c.board.Complete() {
		return
	}
	c.board.Reset()
	clear(c.smoke)
	c.gust.Reset()
	c.log.Info("candles relit")
}

// onSample feeds an ambient sample to the flames and the board.
func (c *cardScreen) onSample(s ambient.Sample) {
	c.gust.OnBreath(s.Level, c.trigger.Threshold)
	if c.board == nil || !c.shell.IsOpen() || c.shell.Panel() != card.PanelCandles {
		return
	}
	if res, fired := c.trigger.Feed(c.board, s.Level, s.At); fired {
		c.log.Debug("ambient blow", zap.Uint8("level", s.Level), zap.Ints("out", res.Extinguished))
		c.finish(res)
	}
}

func (c *cardScreen) finish(res candle.Result) {
	if !res.Completed {
		return
	}
	c.log.Info("all candles blown out", zap.Int("candles", c.board.Count()))
	c.player.Celebrate()
}

// ---- Config Reload

func (c *cardScreen) applyConfig(cfg config.Config) {
	cfg = c.overrides.Apply(cfg)
	old := c.cfg
	c.cfg = cfg

	c.trigger.Threshold = uint8(cfg.Threshold)

	if cfg.Age != old.Age && c.board != nil {
		c.newBoard()
	}
	if c.messageText() != card.Message(old.Recipient, old.Sender, old.Message) {
		c.typewriter = card.NewTypewriter(c.messageText(), card.DefaultPace)
	}
	if !slices.Equal(cfg.Jokes, old.Jokes) {
		c.picker = card.NewPicker(c.rng, cfg.Jokes...)
	}
	if cfg.Features.AmbientSensing != old.Features.AmbientSensing && c.sensor != nil {
		c.closeSensor()
		c.syncSensor()
	}
	if cfg.Features.SoundEffects != old.Features.SoundEffects {
		c.player.Close()
		c.player = c.newPlay(cfg.Features.SoundEffects)
	}

	c.marqueeText = marqueeText(cfg)
	c.marqueeOffset = 0
	c.log.Info("card updated", zap.Int("age", cfg.Age), zap.String("recipient", cfg.Recipient))
}

func marqueeText(cfg config.Config) []rune {
	return []rune(card.Greeting(cfg.Recipient, cfg.Age) + "  🎂  ")
}
