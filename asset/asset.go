package asset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"regexp"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// TemplateColor is the fill color in the logo artwork that gets recolored
const TemplateColor = "#00feff"

// DefaultPixelAspect compensates for terminal cells being about twice as tall as wide
const DefaultPixelAspect = 0.5

// AlphaThreshold is the minimum alpha for a raster pixel to count as part of the sprite
const AlphaThreshold = 128

//go:embed dvdlogo.svg
var defaultLogo []byte

var (
	ErrDecode      = errors.New("asset: cannot decode vector image")
	ErrInvalidSize = errors.New("asset: invalid target size")
	ErrNoSprite    = errors.New("asset: no sprite for color")
)

// Sprite is a rasterized logo in one fill color
type Sprite struct {
	Image  *image.RGBA
	Width  int
	Height int
}

// At returns the pixel color and whether it is opaque enough to draw
func (s *Sprite) At(x, y int) (color.RGBA, bool) {
	c := s.Image.RGBAAt(x, y)
	return c, c.A >= AlphaThreshold
}

// Options controls rasterization size
type Options struct {
	// Width is the sprite width in pixels
	Width int
	// PixelAspect scales the height derived from the view box; 0 means DefaultPixelAspect
	PixelAspect float64
}

// Loader rasterizes the logo artwork in arbitrary fill colors
type Loader struct {
	svg      []byte
	template *regexp.Regexp
	width    int
	height   int
}

// NewLoader parses the artwork once to validate it and fix the raster size
func NewLoader(svg []byte, opts Options) (*Loader, error) {
	if opts.Width <= 0 {
		return nil, fmt.Errorf("%w: width %d", ErrInvalidSize, opts.Width)
	}
	aspect := opts.PixelAspect
	if aspect == 0 {
		aspect = DefaultPixelAspect
	}
	if aspect < 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return nil, fmt.Errorf("%w: pixel aspect %v", ErrInvalidSize, aspect)
	}

	icon, err := parse(svg)
	if err != nil {
		return nil, err
	}
	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return nil, fmt.Errorf("%w: empty view box %vx%v", ErrDecode, vb.W, vb.H)
	}

	height := int(math.Round(float64(opts.Width) * vb.H / vb.W * aspect))
	if height < 1 {
		height = 1
	}

	return &Loader{
		svg:      svg,
		template: regexp.MustCompile("(?i)" + regexp.QuoteMeta(TemplateColor)),
		width:    opts.Width,
		height:   height,
	}, nil
}

// LoadFile reads artwork from disk
func LoadFile(path string, opts Options) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	return NewLoader(data, opts)
}

// Default uses the embedded DVD logo
func Default(opts Options) (*Loader, error) {
	return NewLoader(defaultLogo, opts)
}

// Size returns the sprite dimensions every Load produces
func (l *Loader) Size() (width, height int) {
	return l.width, l.height
}

// Load rasterizes the artwork with the template color replaced by hex
func (l *Loader) Load(hex string) (*Sprite, error) {
	recolored := l.template.ReplaceAll(l.svg, []byte(hex))
	icon, err := parse(recolored)
	if err != nil {
		return nil, fmt.Errorf("color %s: %w", hex, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	icon.SetTarget(0, 0, float64(l.width), float64(l.height))
	scanner := rasterx.NewScannerGV(l.width, l.height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(l.width, l.height, scanner), 1)

	return &Sprite{Image: img, Width: l.width, Height: l.height}, nil
}

func parse(svg []byte) (*oksvg.SvgIcon, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return icon, nil
}
