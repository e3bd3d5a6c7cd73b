package render

import (
	"github.com/lixenwraith/dvd-bounce/asset"
)

// Canvas is a row-major pixel frame buffer the size of the arena
type Canvas struct {
	width  int
	height int
	bg     RGB
	pixels []RGB
}

func NewCanvas(width, height int, bg RGB) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		bg:     bg,
		pixels: make([]RGB, width*height),
	}
	c.Clear()
	return c
}

func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Clear fills the canvas with the background color
func (c *Canvas) Clear() {
	for i := range c.pixels {
		c.pixels[i] = c.bg
	}
}

// At returns the pixel at (x, y); out of bounds reads the background
func (c *Canvas) At(x, y int) RGB {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return c.bg
	}
	return c.pixels[y*c.width+x]
}

func (c *Canvas) Set(x, y int, rgb RGB) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.pixels[y*c.width+x] = rgb
}

// Blit copies the opaque sprite pixels with the sprite's top-left at (x, y), clipped
func (c *Canvas) Blit(s *asset.Sprite, x, y int) {
	for sy := 0; sy < s.Height; sy++ {
		py := y + sy
		if py < 0 || py >= c.height {
			continue
		}
		for sx := 0; sx < s.Width; sx++ {
			px := x + sx
			if px < 0 || px >= c.width {
				continue
			}
			if col, ok := s.At(sx, sy); ok {
				c.pixels[py*c.width+px] = FromColor(col)
			}
		}
	}
}
