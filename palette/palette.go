package palette

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultHex is the logo's fill color in the source artwork and its color before the first bounce
const DefaultHex = "#00feff"

// DefaultHexes is the bounce palette: red, green, blue, yellow, orange, deep pink
var DefaultHexes = []string{
	"#ff0000",
	"#00ff00",
	"#0000ff",
	"#ffff00",
	"#ffa500",
	"#ff1493",
}

var ErrEmpty = errors.New("palette: no colors")

// Palette is the fixed set of colors the logo cycles through on bounces
type Palette []colorful.Color

// Parse converts hex strings ("#rrggbb" or "#rgb") to a palette
func Parse(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, ErrEmpty
	}
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

// ParseColor parses a single hex color
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("palette: invalid color %q: %w", hex, err)
	}
	return c, nil
}

// Default returns the built-in bounce palette
func Default() Palette {
	p, err := Parse(DefaultHexes)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultColor returns the artwork fill color
func DefaultColor() colorful.Color {
	c, err := ParseColor(DefaultHex)
	if err != nil {
		panic(err)
	}
	return c
}

// Pick selects a color uniformly at random. Repeats are allowed
func (p Palette) Pick(intn func(int) int) colorful.Color {
	return p[intn(len(p))]
}

// Hexes returns the lowercase "#rrggbb" form of every color
func (p Palette) Hexes() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = Key(c)
	}
	return out
}

// Key is the canonical map key for a color: lowercase "#rrggbb"
func Key(c colorful.Color) string {
	return c.Hex()
}
