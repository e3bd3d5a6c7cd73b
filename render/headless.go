package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

// HeadlessRenderer runs the frame protocol without a display. Sprite lookups
// still go through the cache so a missing color fails the same way
type HeadlessRenderer struct {
	sprites SpriteSource

	Frames   int
	Sprites  int
	LastText string
}

func NewHeadlessRenderer(sprites SpriteSource) *HeadlessRenderer {
	return &HeadlessRenderer{sprites: sprites}
}

func (r *HeadlessRenderer) Clear() {
	r.LastText = ""
}

func (r *HeadlessRenderer) DrawSprite(c colorful.Color, x, y int) error {
	if _, err := r.sprites.Sprite(c); err != nil {
		return err
	}
	r.Sprites++
	return nil
}

func (r *HeadlessRenderer) DrawText(col, row int, text string, c colorful.Color) {
	r.LastText = text
}

func (r *HeadlessRenderer) Show() {
	r.Frames++
}
