package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/dvd-bounce/asset"
)

// ColorMode selects how canvas colors reach the terminal
type ColorMode uint8

const (
	ColorMode256 ColorMode = iota
	ColorModeTrueColor
)

// ParseColorMode maps the -color flag; "auto" defers to the screen
func ParseColorMode(s string, screen tcell.Screen) ColorMode {
	switch strings.ToLower(s) {
	case "256", "8", "8bit":
		return ColorMode256
	case "truecolor", "true", "24", "24bit":
		return ColorModeTrueColor
	}
	return DetectColorMode(screen)
}

// DetectColorMode reports truecolor when the screen advertises 24-bit color
func DetectColorMode(screen tcell.Screen) ColorMode {
	if screen.Colors() >= 1<<24 {
		return ColorModeTrueColor
	}
	return ColorMode256
}

// SpriteSource resolves the pre-rendered sprite for a color
type SpriteSource interface {
	Sprite(c colorful.Color) (*asset.Sprite, error)
}

type textItem struct {
	col, row int
	text     string
	fg       RGB
}

// ScreenRenderer composes each frame on a pixel canvas and flushes it to a
// tcell screen as quadrant glyphs, two canvas pixels per cell on each axis
type ScreenRenderer struct {
	screen  tcell.Screen
	canvas  *Canvas
	sprites SpriteSource
	mode    ColorMode
	texts   []textItem

	palette256 []tcell.Color
	lut        map[RGB]tcell.Color
}

// NewScreenRenderer sizes the canvas from the current screen dimensions
func NewScreenRenderer(screen tcell.Screen, sprites SpriteSource, mode ColorMode) *ScreenRenderer {
	cols, rows := screen.Size()
	r := &ScreenRenderer{
		screen:  screen,
		canvas:  NewCanvas(cols*PixelsPerCell, rows*PixelsPerCell, RGBBlack),
		sprites: sprites,
		mode:    mode,
		lut:     make(map[RGB]tcell.Color),
	}
	if mode == ColorMode256 {
		r.palette256 = make([]tcell.Color, 256)
		for i := range r.palette256 {
			r.palette256[i] = tcell.PaletteColor(i)
		}
	}
	return r
}

// ArenaSize returns the canvas size in pixels
func (r *ScreenRenderer) ArenaSize() (int, int) {
	return r.canvas.Size()
}

func (r *ScreenRenderer) Canvas() *Canvas {
	return r.canvas
}

// Clear resets the canvas and drops queued text
func (r *ScreenRenderer) Clear() {
	r.canvas.Clear()
	r.texts = r.texts[:0]
}

// DrawSprite blits the sprite for c at pixel (x, y)
func (r *ScreenRenderer) DrawSprite(c colorful.Color, x, y int) error {
	s, err := r.sprites.Sprite(c)
	if err != nil {
		return err
	}
	r.canvas.Blit(s, x, y)
	return nil
}

// DrawText queues text at cell (col, row), drawn over the canvas on Show
func (r *ScreenRenderer) DrawText(col, row int, text string, c colorful.Color) {
	r.texts = append(r.texts, textItem{col: col, row: row, text: text, fg: FromColorful(c)})
}

// Show flushes the canvas and text overlay to the screen
func (r *ScreenRenderer) Show() {
	cols, rows := r.screen.Size()
	canvasW, canvasH := r.canvas.Size()
	cols = min(cols, canvasW/PixelsPerCell)
	rows = min(rows, canvasH/PixelsPerCell)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			g := r.canvas.CellAt(col, row)
			style := tcell.StyleDefault.Foreground(r.color(g.Fg)).Background(r.color(g.Bg))
			r.screen.SetContent(col, row, g.Rune, nil, style)
		}
	}

	for _, t := range r.texts {
		if t.row < 0 || t.row >= rows {
			continue
		}
		col := t.col
		for _, ch := range t.text {
			if col >= cols {
				break
			}
			if col >= 0 {
				bg := r.canvas.CellAt(col, t.row).Bg
				style := tcell.StyleDefault.Foreground(r.color(t.fg)).Background(r.color(bg))
				r.screen.SetContent(col, t.row, ch, nil, style)
			}
			col++
		}
	}

	r.screen.Show()
}

// color maps canvas RGB to a tcell color for the active mode
func (r *ScreenRenderer) color(c RGB) tcell.Color {
	if r.mode == ColorModeTrueColor {
		return c.Tcell()
	}
	if tc, ok := r.lut[c]; ok {
		return tc
	}
	tc := tcell.FindColor(c.Tcell(), r.palette256)
	r.lut[c] = tc
	return tc
}
