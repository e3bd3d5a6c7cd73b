package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lixenwraith/dvd-bounce/config"
	"github.com/lixenwraith/dvd-bounce/trajectory"
)

var errStartFormat = errors.New("start must be x,y,dx,dy")

// runFlags are the switches that are not part of the persisted configuration
type runFlags struct {
	configPath string
	debug      bool
	headless   bool
	predict    bool
	start      string
}

// parseArgs loads defaults, overlays the -config file, then applies only the
// flags that were set on the command line
func parseArgs(args []string, stderr io.Writer) (*config.Config, *runFlags, error) {
	fs := flag.NewFlagSet("dvd-bounce", flag.ContinueOnError)
	fs.SetOutput(stderr)

	rf := &runFlags{}
	fs.StringVar(&rf.configPath, "config", "", "TOML configuration file")
	fs.BoolVar(&rf.debug, "debug", false, "Write logs to logs/dvd-bounce.log")
	fs.BoolVar(&rf.headless, "headless", false, "Run without a terminal (arena from -width/-height)")
	fs.BoolVar(&rf.predict, "predict", false, "Print the corner prediction and exit")
	fs.StringVar(&rf.start, "start", "", "Explicit start state x,y,dx,dy instead of a random one")

	fc := config.Default()
	var paletteFlag string
	fs.IntVar(&fc.FPS, "fps", fc.FPS, "Frames per second")
	fs.IntVar(&fc.Step, "step", fc.Step, "Pixels moved per frame on each axis")
	fs.Uint64Var(&fc.Seed, "seed", fc.Seed, "Random seed, 0 = time-based")
	fs.IntVar(&fc.MaxFrames, "max-frames", fc.MaxFrames, "Stop after this many frames, 0 = no limit")
	fs.StringVar(&fc.Logo, "logo", fc.Logo, "SVG logo path, empty = built-in DVD logo")
	fs.IntVar(&fc.LogoWidth, "logo-width", fc.LogoWidth, "Logo width in pixels")
	fs.Float64Var(&fc.PixelAspect, "pixel-aspect", fc.PixelAspect, "Pixel height/width ratio applied to the logo")
	fs.StringVar(&paletteFlag, "palette", "", "Comma-separated bounce colors (#rrggbb)")
	fs.StringVar(&fc.DefaultColor, "default-color", fc.DefaultColor, "Logo color before the first bounce")
	fs.StringVar(&fc.ColorMode, "color", fc.ColorMode, "Color mode: auto, truecolor, 256")
	fs.IntVar(&fc.ArenaWidth, "width", fc.ArenaWidth, "Arena width in pixels, 0 = terminal size")
	fs.IntVar(&fc.ArenaHeight, "height", fc.ArenaHeight, "Arena height in pixels, 0 = terminal size")
	fs.BoolVar(&fc.Mute, "mute", fc.Mute, "Start with sound muted")
	fs.StringVar(&fc.LogLevel, "log-level", fc.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := config.Default()
	if rf.configPath != "" {
		loaded, err := config.Load(rf.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fps":
			cfg.FPS = fc.FPS
		case "step":
			cfg.Step = fc.Step
		case "seed":
			cfg.Seed = fc.Seed
		case "max-frames":
			cfg.MaxFrames = fc.MaxFrames
		case "logo":
			cfg.Logo = fc.Logo
		case "logo-width":
			cfg.LogoWidth = fc.LogoWidth
		case "pixel-aspect":
			cfg.PixelAspect = fc.PixelAspect
		case "palette":
			cfg.Palette = splitList(paletteFlag)
		case "default-color":
			cfg.DefaultColor = fc.DefaultColor
		case "color":
			cfg.ColorMode = fc.ColorMode
		case "width":
			cfg.ArenaWidth = fc.ArenaWidth
		case "height":
			cfg.ArenaHeight = fc.ArenaHeight
		case "mute":
			cfg.Mute = fc.Mute
		case "log-level":
			cfg.LogLevel = fc.LogLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rf, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseStart reads "x,y,dx,dy"
func parseStart(s string) (trajectory.Pos, trajectory.Vel, error) {
	var pos trajectory.Pos
	var vel trajectory.Vel
	n, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "%d,%d,%d,%d", &pos.X, &pos.Y, &vel.DX, &vel.DY)
	if err != nil || n != 4 {
		return pos, vel, fmt.Errorf("%w: %q", errStartFormat, s)
	}
	return pos, vel, nil
}
