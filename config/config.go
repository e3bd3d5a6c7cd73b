package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/dvd-bounce/palette"
)

// Config holds every tunable of a run. Zero arena dimensions mean "fit the terminal"
type Config struct {
	FPS       int    `toml:"fps"`
	Step      int    `toml:"step"`
	Seed      uint64 `toml:"seed"`
	MaxFrames int    `toml:"max_frames"`

	Logo        string  `toml:"logo"`
	LogoWidth   int     `toml:"logo_width"`
	PixelAspect float64 `toml:"pixel_aspect"`

	Palette      []string `toml:"palette"`
	DefaultColor string   `toml:"default_color"`
	TextColor    string   `toml:"text_color"`

	ArenaWidth  int    `toml:"arena_width"`
	ArenaHeight int    `toml:"arena_height"`
	ColorMode   string `toml:"color_mode"`

	Mute   bool    `toml:"mute"`
	Volume float64 `toml:"volume"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FPS:          60,
		Step:         2,
		Seed:         0,
		MaxFrames:    0,
		LogoWidth:    32,
		PixelAspect:  0.5,
		Palette:      append([]string(nil), palette.DefaultHexes...),
		DefaultColor: palette.DefaultHex,
		TextColor:    "#ffffff",
		ColorMode:    "auto",
		Volume:       -1,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load overlays a TOML file on the defaults. Unknown keys are an error
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var errs []error
	if c.FPS < 1 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Step < 1 {
		errs = append(errs, fmt.Errorf("step must be positive, got %d", c.Step))
	}
	if c.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("max_frames must not be negative, got %d", c.MaxFrames))
	}
	if c.LogoWidth < 1 {
		errs = append(errs, fmt.Errorf("logo_width must be positive, got %d", c.LogoWidth))
	}
	if c.PixelAspect <= 0 {
		errs = append(errs, fmt.Errorf("pixel_aspect must be positive, got %v", c.PixelAspect))
	}
	if c.ArenaWidth < 0 || c.ArenaHeight < 0 {
		errs = append(errs, fmt.Errorf("arena size must not be negative, got %dx%d", c.ArenaWidth, c.ArenaHeight))
	}
	if _, err := palette.Parse(c.Palette); err != nil {
		errs = append(errs, err)
	}
	if _, err := palette.ParseColor(c.DefaultColor); err != nil {
		errs = append(errs, err)
	}
	if _, err := palette.ParseColor(c.TextColor); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.ColorMode) {
	case "auto", "256", "truecolor", "true", "24bit":
	default:
		errs = append(errs, fmt.Errorf("color_mode must be auto, truecolor or 256, got %q", c.ColorMode))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
