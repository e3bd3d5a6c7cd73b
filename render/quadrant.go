package render

// QuadrantChars maps 4-bit patterns to Unicode quadrant characters
// Bit order: 0=UL, 1=UR, 2=LL, 3=LR (1 = foreground)
var QuadrantChars = [16]rune{
	' ', // 0000 - empty
	'▘', // 0001 - upper-left
	'▝', // 0010 - upper-right
	'▀', // 0011 - upper half
	'▖', // 0100 - lower-left
	'▌', // 0101 - left half
	'▞', // 0110 - anti-diagonal
	'▛', // 0111 - UL + UR + LL
	'▗', // 1000 - lower-right
	'▚', // 1001 - diagonal
	'▐', // 1010 - right half
	'▜', // 1011 - UL + UR + LR
	'▄', // 1100 - lower half
	'▙', // 1101 - UL + LL + LR
	'▟', // 1110 - UR + LL + LR
	'█', // 1111 - full block
}

// PixelsPerCell is the canvas resolution of one terminal cell on each axis
const PixelsPerCell = 2

// Glyph is one terminal cell worth of canvas
type Glyph struct {
	Rune rune
	Fg   RGB
	Bg   RGB
}

// CellAt converts the 2x2 canvas block under terminal cell (col, row)
func (c *Canvas) CellAt(col, row int) Glyph {
	px, py := col*PixelsPerCell, row*PixelsPerCell
	pixels := [4]RGB{
		c.At(px, py),
		c.At(px+1, py),
		c.At(px, py+1),
		c.At(px+1, py+1),
	}

	// Uniform blocks are by far the common case: skip the search
	if pixels[0] == pixels[1] && pixels[1] == pixels[2] && pixels[2] == pixels[3] {
		return Glyph{Rune: ' ', Fg: pixels[0], Bg: pixels[0]}
	}

	r, fg, bg := findBestQuadrant(pixels)
	return Glyph{Rune: r, Fg: fg, Bg: bg}
}

// findBestQuadrant finds the optimal quadrant character and fg/bg colors for 4 pixels
// Uses exhaustive search over all 16 patterns to minimize color error
func findBestQuadrant(pixels [4]RGB) (rune, RGB, RGB) {
	bestError := int(^uint(0) >> 1)
	bestPattern := 0
	var bestFg, bestBg RGB

	for pattern := 0; pattern < 16; pattern++ {
		fg, bg, err := patternColors(pixels, pattern)
		if err < bestError {
			bestError = err
			bestPattern = pattern
			bestFg = fg
			bestBg = bg
		}
	}

	return QuadrantChars[bestPattern], bestFg, bestBg
}

// patternColors averages each group of a bit pattern and returns the total squared error
func patternColors(pixels [4]RGB, pattern int) (fg, bg RGB, totalError int) {
	var fgR, fgG, fgB, fgCount int
	var bgR, bgG, bgB, bgCount int

	for i := 0; i < 4; i++ {
		p := pixels[i]
		if pattern&(1<<i) != 0 {
			fgR += int(p.R)
			fgG += int(p.G)
			fgB += int(p.B)
			fgCount++
		} else {
			bgR += int(p.R)
			bgG += int(p.G)
			bgB += int(p.B)
			bgCount++
		}
	}

	if fgCount > 0 {
		fg = RGB{uint8(fgR / fgCount), uint8(fgG / fgCount), uint8(fgB / fgCount)}
	}
	if bgCount > 0 {
		bg = RGB{uint8(bgR / bgCount), uint8(bgG / bgCount), uint8(bgB / bgCount)}
	}

	for i := 0; i < 4; i++ {
		target := bg
		if pattern&(1<<i) != 0 {
			target = fg
		}
		totalError += distanceSq(pixels[i], target)
	}

	return fg, bg, totalError
}
