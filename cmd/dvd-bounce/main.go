package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/dvd-bounce/asset"
	"github.com/lixenwraith/dvd-bounce/audio"
	"github.com/lixenwraith/dvd-bounce/config"
	"github.com/lixenwraith/dvd-bounce/engine"
	"github.com/lixenwraith/dvd-bounce/input"
	"github.com/lixenwraith/dvd-bounce/palette"
	"github.com/lixenwraith/dvd-bounce/render"
	"github.com/lixenwraith/dvd-bounce/trajectory"
	"github.com/lixenwraith/dvd-bounce/vmath"
)

const (
	windowTitle = "DVD Bouncing Logo"

	// Arena used by -headless and -predict when no size is configured
	defaultArenaWidth  = 800
	defaultArenaHeight = 600

	// Headless runs with no predicted corner stop here unless max_frames is set
	headlessFrameCap = 100000
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, rf, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "dvd-bounce: %v\n", err)
		return 2
	}

	logger, logFile := setupLogging(rf.debug, cfg.LogLevel, cfg.LogFormat)
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := newScene(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "dvd-bounce: %v\n", err)
		return 1
	}

	var report engine.Report
	switch {
	case rf.predict:
		eng, err := sc.newEngine(headlessArena(cfg), rf.start)
		if err != nil {
			fmt.Fprintf(stderr, "dvd-bounce: %v\n", err)
			return 1
		}
		fmt.Fprint(stdout, predictText(eng))
		return 0
	case rf.headless:
		report, err = runHeadless(ctx, cfg, rf, sc, logger)
	default:
		report, err = runTerminal(ctx, cfg, rf, sc, logger)
	}

	// Terminal is restored by now; the summary goes to the real stdout
	if report.Reason != engine.ReasonNone {
		fmt.Fprint(stdout, report.Summary())
	}
	if err != nil {
		fmt.Fprintf(stderr, "dvd-bounce: %v\n", err)
		return 1
	}
	return 0
}

// scene holds everything built once from the configuration
type scene struct {
	cfg     *config.Config
	logger  *slog.Logger
	palette palette.Palette
	def     colorful.Color
	text    colorful.Color
	loader  *asset.Loader
	sprites *asset.Cache
	rng     *vmath.FastRand
}

func newScene(cfg *config.Config, logger *slog.Logger) (*scene, error) {
	pal, err := palette.Parse(cfg.Palette)
	if err != nil {
		return nil, err
	}
	def, err := palette.ParseColor(cfg.DefaultColor)
	if err != nil {
		return nil, err
	}
	text, err := palette.ParseColor(cfg.TextColor)
	if err != nil {
		return nil, err
	}

	opts := asset.Options{Width: cfg.LogoWidth, PixelAspect: cfg.PixelAspect}
	var loader *asset.Loader
	if cfg.Logo != "" {
		loader, err = asset.LoadFile(cfg.Logo, opts)
	} else {
		loader, err = asset.Default(opts)
	}
	if err != nil {
		return nil, err
	}

	sprites, err := asset.NewCache(loader, append(palette.Palette{def}, pal...)...)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	w, h := loader.Size()
	logger.Info("scene ready", "seed", seed, "sprite", fmt.Sprintf("%dx%d", w, h), "colors", sprites.Len())

	return &scene{
		cfg:     cfg,
		logger:  logger,
		palette: pal,
		def:     def,
		text:    text,
		loader:  loader,
		sprites: sprites,
		rng:     vmath.NewFastRand(seed),
	}, nil
}

// newEngine builds the trajectory engine, launched randomly or from start
func (s *scene) newEngine(arena trajectory.Arena, start string) (*trajectory.Engine, error) {
	w, h := s.loader.Size()
	eng, err := trajectory.New(arena, trajectory.Size{Width: w, Height: h}, trajectory.Options{
		Step:    s.cfg.Step,
		Palette: s.palette,
		Default: s.def,
		Rand:    s.rng,
	})
	if err != nil {
		return nil, err
	}
	if start != "" {
		pos, vel, err := parseStart(start)
		if err != nil {
			return nil, err
		}
		if err := eng.Place(pos, vel); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func (s *scene) loopOptions() engine.Options {
	return engine.Options{FPS: s.cfg.FPS, MaxFrames: s.cfg.MaxFrames, TextColor: s.text}
}

func headlessArena(cfg *config.Config) trajectory.Arena {
	a := trajectory.Arena{Width: cfg.ArenaWidth, Height: cfg.ArenaHeight}
	if a.Width == 0 {
		a.Width = defaultArenaWidth
	}
	if a.Height == 0 {
		a.Height = defaultArenaHeight
	}
	return a
}

// predictText reports the closed-form prediction and the exact solution without running
func predictText(eng *trajectory.Engine) string {
	r := engine.Report{
		Arena:    eng.Arena(),
		Sprite:   eng.Sprite(),
		Start:    eng.Pos(),
		Velocity: eng.Vel(),
		Horizon:  eng.PredictHorizon(),
	}
	r.ExactFrame, r.ExactOK = eng.SolveCornerHit()

	text := fmt.Sprintf("arena %dx%d, logo %dx%d, start (%d,%d) velocity (%d,%d)\n%s\n",
		r.Arena.Width, r.Arena.Height, r.Sprite.Width, r.Sprite.Height,
		r.Start.X, r.Start.Y, r.Velocity.DX, r.Velocity.DY, r.Prediction())
	if r.ExactOK {
		return text + fmt.Sprintf("Exact first corner hit: frame %d.\n", r.ExactFrame)
	}
	return text + "Exact solution: no corner is ever reached.\n"
}

func runHeadless(ctx context.Context, cfg *config.Config, rf *runFlags, sc *scene, logger *slog.Logger) (engine.Report, error) {
	eng, err := sc.newEngine(headlessArena(cfg), rf.start)
	if err != nil {
		return engine.Report{}, err
	}

	opts := sc.loopOptions()
	if opts.MaxFrames == 0 && !eng.PredictHorizon().IsFinite() {
		opts.MaxFrames = headlessFrameCap
		logger.Warn("no corner predicted, capping headless run", "max_frames", opts.MaxFrames)
	}

	loop := engine.NewLoop(eng, engine.Deps{
		Renderer: render.NewHeadlessRenderer(sc.sprites),
		Pacer:    engine.NopPacer{},
		Logger:   logger,
	}, opts)
	return loop.Run(ctx)
}

func runTerminal(ctx context.Context, cfg *config.Config, rf *runFlags, sc *scene, logger *slog.Logger) (report engine.Report, err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return report, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return report, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Panic Recovery: Ensure terminal is reset even if the loop crashes
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mDVD-BOUNCE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	screen.SetTitle(windowTitle)
	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	mode := render.ParseColorMode(cfg.ColorMode, screen)
	renderer := render.NewScreenRenderer(screen, sc.sprites, mode)

	arena := terminalArena(cfg, renderer)
	logger.Info("terminal ready", "arena", fmt.Sprintf("%dx%d", arena.Width, arena.Height), "truecolor", mode == render.ColorModeTrueColor)

	eng, err := sc.newEngine(arena, rf.start)
	if err != nil {
		return report, err
	}

	// Initialize sound; the run continues silently without a device
	var sound engine.Sound = audio.Silent{}
	sm := audio.NewSoundManager(cfg.Volume, cfg.Mute)
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio initialization failed, continuing without audio", "error", err)
	} else {
		defer sm.Cleanup()
		sound = sm
	}

	quit := input.NewSource(screen)
	muted := cfg.Mute
	quit.OnToggleMute(func() {
		muted = !muted
		sm.SetMuted(muted)
		logger.Debug("mute toggled", "muted", muted)
	})

	pacer := engine.NewTickerPacer(cfg.FPS)
	defer pacer.Stop()

	loop := engine.NewLoop(eng, engine.Deps{
		Renderer: renderer,
		Quit:     quit,
		Pacer:    pacer,
		Sound:    sound,
		Logger:   logger,
	}, sc.loopOptions())
	return loop.Run(ctx)
}

// terminalArena is the screen canvas, shrunk to the configured size when that is smaller
func terminalArena(cfg *config.Config, r *render.ScreenRenderer) trajectory.Arena {
	w, h := r.ArenaSize()
	if cfg.ArenaWidth > 0 && cfg.ArenaWidth < w {
		w = cfg.ArenaWidth
	}
	if cfg.ArenaHeight > 0 && cfg.ArenaHeight < h {
		h = cfg.ArenaHeight
	}
	return trajectory.Arena{Width: w, Height: h}
}
