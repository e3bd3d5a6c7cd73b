package asset

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// SpriteLoader produces a sprite for a "#rrggbb" fill color
type SpriteLoader interface {
	Load(hex string) (*Sprite, error)
}

// Cache holds one pre-rendered sprite per color so recoloring is a lookup
type Cache struct {
	sprites map[string]*Sprite
}

// NewCache rasterizes every color up front. Any failure is fatal to the caller:
// there is no fallback color
func NewCache(loader SpriteLoader, colors ...colorful.Color) (*Cache, error) {
	c := &Cache{sprites: make(map[string]*Sprite, len(colors))}
	for _, col := range colors {
		key := col.Hex()
		if _, ok := c.sprites[key]; ok {
			continue
		}
		s, err := loader.Load(key)
		if err != nil {
			return nil, fmt.Errorf("asset: rasterize %s: %w", key, err)
		}
		c.sprites[key] = s
	}
	return c, nil
}

// Sprite returns the pre-rendered sprite for col
func (c *Cache) Sprite(col colorful.Color) (*Sprite, error) {
	s, ok := c.sprites[col.Hex()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSprite, col.Hex())
	}
	return s, nil
}

// Len returns the number of cached colors
func (c *Cache) Len() int {
	return len(c.sprites)
}
