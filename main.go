package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"birthday-card/internal/ambient"
	"birthday-card/internal/candle"
	"birthday-card/internal/card"
	"birthday-card/internal/chime"
	"birthday-card/internal/config"
	"birthday-card/internal/logging"
	"birthday-card/internal/seal"
	"birthday-card/internal/xdg"
)

const envPrefix = "BIRTHDAY_CARD"

// ---- Command Execution

type runConfig struct {
	cardFile  string
	logFile   string
	verbose   bool
	overrides config.Overrides
}

func execCard(ctx context.Context, rc runConfig) error {
	log, err := logging.New(rc.logFile, rc.verbose)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load(rc.cardFile)
	if err != nil {
		return fmt.Errorf("loading card file: %w", err)
	}
	cfg = rc.overrides.Apply(cfg)
	log.Info("card loaded",
		zap.String("file", rc.cardFile),
		zap.Int("age", cfg.Age),
		zap.Bool("ambient", cfg.Features.AmbientSensing))

	var store *seal.Store
	if path, err := xdg.SealFile(); err == nil {
		if s := (seal.Store{Path: path}); s.Sealed() {
			store = &s
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var updates <-chan config.Config
	if rc.cardFile != "" {
		w, err := config.NewWatcher(rc.cardFile, log)
		if err != nil {
			log.Warn("card file will not reload", zap.Error(err))
		} else {
			updates = w.Updates()
			g.Go(func() error { return w.Run(ctx) })
		}
	}

	c := newCardScreen(screen, cardDeps{
		cfg:       cfg,
		overrides: rc.overrides,
		log:       log,
		store:     store,
		updates:   updates,
		connect: func(ctx context.Context, enabled bool) *ambient.Sensor {
			return ambient.Connect(ctx, ambient.Open(enabled), log)
		},
		player: func(enabled bool) chime.Player {
			return chime.New(enabled, log)
		},
	})

	g.Go(func() error {
		defer cancel()
		defer c.close()
		return c.run(ctx)
	})

	return g.Wait()
}

func execSeal() error {
	path, err := xdg.SealFile()
	if err != nil {
		return fmt.Errorf("finding seal file: %w", err)
	}
	store := seal.Store{Path: path}

	if store.Sealed() {
		fmt.Println("The card is already sealed; the new passphrase replaces the old one.")
	}

	fmt.Print("Enter passphrase: ")
	first, err := readPassphrase()
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	if len(first) == 0 {
		return fmt.Errorf("passphrase cannot be empty")
	}

	// Keep the first entry in an enclave while the confirmation is typed.
	buf := seal.NewBuffer()
	defer buf.Destroy()
	for _, r := range string(first) {
		buf.AppendRune(r)
	}
	seal.ClearBytes(first)
	buf.Seal()

	fmt.Print("\nConfirm passphrase: ")
	confirm, err := readPassphrase()
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	defer seal.ClearBytes(confirm)

	passphrase, err := buf.Open()
	if err != nil {
		return fmt.Errorf("opening passphrase: %w", err)
	}
	defer passphrase.Destroy()

	if subtle.ConstantTimeCompare(passphrase.Bytes(), confirm) != 1 {
		return fmt.Errorf("passphrases do not match")
	}

	if err := store.Seal(passphrase.Bytes()); err != nil {
		return fmt.Errorf("sealing card: %w", err)
	}

	fmt.Println("\nCard sealed. Type the passphrase at the card front to open it.")
	return nil
}

func readPassphrase() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	return term.ReadPassword(fd)
}

func execUnseal() error {
	path, err := xdg.SealFile()
	if err != nil {
		return fmt.Errorf("finding seal file: %w", err)
	}
	store := seal.Store{Path: path}
	if !store.Sealed() {
		fmt.Println("The card is not sealed.")
		return nil
	}
	if err := store.Unseal(); err != nil {
		return err
	}
	fmt.Println("Seal removed.")
	return nil
}

func execJoke(cardFile string) error {
	cfg, err := config.Load(cardFile)
	if err != nil {
		return fmt.Errorf("loading card file: %w", err)
	}
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x1a))
	fmt.Println(card.NewPicker(rng, cfg.Jokes...).Random())
	return nil
}

// ---- Helpers

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// defaultPath returns fn's path, or "" when it cannot be resolved.
func defaultPath(fn func() (string, error)) string {
	p, err := fn()
	if err != nil {
		return ""
	}
	return p
}

// ---- CLI Setup

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := buildCLI()
	return rootCmd.ParseAndRun(context.Background(), os.Args[1:])
}

// cardFlags are shared by the root command and "run".
type cardFlags struct {
	fs         *flag.FlagSet
	cardFile   *string
	age        *int
	recipient  *string
	noMic      *bool
	noConfetti *bool
	sound      *bool
	threshold  *int
	logFile    *string
	verbose    *bool
}

func newCardFlags(name string) *cardFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &cardFlags{
		fs:         fs,
		cardFile:   fs.String("card", defaultPath(xdg.CardFile), "Card file (YAML)"),
		age:        fs.Int("age", config.DefaultAge, "Age to celebrate, one candle per year"),
		recipient:  fs.String("recipient", config.DefaultRecipient, "Who the card is for"),
		noMic:      fs.Bool("no-mic", false, "Disable blowing into the microphone"),
		noConfetti: fs.Bool("no-confetti", false, "Disable the confetti when the card opens"),
		sound:      fs.Bool("sound", false, "Play a tune when the last candle goes out"),
		threshold:  fs.Int("threshold", candle.DefaultThreshold, "Microphone level (0-255) that counts as a blow"),
		logFile:    fs.String("log-file", defaultPath(xdg.LogFile), "Log file, empty to disable logging"),
		verbose:    fs.Bool("verbose", false, "Log at debug level"),
	}
}

// runConfig collects the flags. Only flags set explicitly, on the command
// line or through the environment, override the card file.
func (f *cardFlags) runConfig() runConfig {
	rc := runConfig{
		cardFile: *f.cardFile,
		logFile:  *f.logFile,
		verbose:  *f.verbose,
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "age":
			rc.overrides.Age = f.age
		case "recipient":
			rc.overrides.Recipient = f.recipient
		case "threshold":
			rc.overrides.Threshold = f.threshold
		case "no-mic":
			on := !*f.noMic
			rc.overrides.AmbientSensing = &on
		case "no-confetti":
			on := !*f.noConfetti
			rc.overrides.Celebration = &on
		case "sound":
			rc.overrides.Sound = f.sound
		}
	})
	return rc
}

func buildCLI() *ffcli.Command {
	// Run command
	runFlags := newCardFlags("birthday-card run")
	runCmd := &ffcli.Command{
		Name:       "run",
		ShortUsage: "birthday-card run [flags]",
		ShortHelp:  "Open the birthday card",
		FlagSet:    runFlags.fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, _ []string) error {
			return execCard(ctx, runFlags.runConfig())
		},
	}

	sealCmd := &ffcli.Command{
		Name:       "seal",
		ShortUsage: "birthday-card seal",
		ShortHelp:  "Protect the card front with a passphrase",
		Exec:       func(_ context.Context, _ []string) error { return execSeal() },
	}

	unsealCmd := &ffcli.Command{
		Name:       "unseal",
		ShortUsage: "birthday-card unseal",
		ShortHelp:  "Remove the passphrase",
		Exec:       func(_ context.Context, _ []string) error { return execUnseal() },
	}

	jokeFlagSet := flag.NewFlagSet("birthday-card joke", flag.ContinueOnError)
	jokeCard := jokeFlagSet.String("card", defaultPath(xdg.CardFile), "Card file (YAML) with extra jokes")
	jokeCmd := &ffcli.Command{
		Name:       "joke",
		ShortUsage: "birthday-card joke [flags]",
		ShortHelp:  "Print a dad joke",
		FlagSet:    jokeFlagSet,
		Exec:       func(_ context.Context, _ []string) error { return execJoke(*jokeCard) },
	}

	// Root command
	rootFlags := newCardFlags("birthday-card")
	return &ffcli.Command{
		ShortUsage: "birthday-card [flags] <subcommand>",
		ShortHelp:  "A birthday card for the terminal with candles to blow out",
		LongHelp: "Controls:\n" +
			"  Any key         Open the card (type the passphrase if sealed)\n" +
			"  1 2 3, Tab      Switch between message, jokes and candles\n" +
			"  Space, Enter    Blow the candles, next joke, skip typing\n" +
			"  r               Relight the candles\n" +
			"  Esc, q          Close the card\n\n" +
			"Blowing into the microphone also blows the candles out.",
		FlagSet:     rootFlags.fs,
		Options:     []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Subcommands: []*ffcli.Command{runCmd, sealCmd, unsealCmd, jokeCmd},
		Exec: func(ctx context.Context, _ []string) error {
			return execCard(ctx, rootFlags.runConfig())
		},
	}
}
