package trajectory

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/dvd-bounce/palette"
	"github.com/lixenwraith/dvd-bounce/vmath"
)

// DefaultStep is the per-tick pixel displacement on each axis
const DefaultStep = 2

var (
	ErrInvalidArena    = errors.New("trajectory: arena dimensions must be positive")
	ErrInvalidSprite   = errors.New("trajectory: sprite dimensions must be positive")
	ErrSpriteTooLarge  = errors.New("trajectory: sprite larger than arena")
	ErrDegenerateRange = errors.New("trajectory: sprite fills arena on an axis, no motion possible")
	ErrInvalidStep     = errors.New("trajectory: step must be at least 1")
	ErrNoRandom        = errors.New("trajectory: random source required")
	ErrOutOfBounds     = errors.New("trajectory: position outside travel range")
	ErrInvalidVelocity = errors.New("trajectory: velocity components must be ±step")
)

// Arena is the drawing surface in pixels
type Arena struct {
	Width, Height int
}

// Size is the sprite bounding box in pixels
type Size struct {
	Width, Height int
}

// Pos is the sprite's top-left corner in pixels
type Pos struct {
	X, Y int
}

// Vel is the per-tick displacement in pixels
type Vel struct {
	DX, DY int
}

// Rand is the injected random source; *vmath.FastRand and *rand.Rand satisfy it
type Rand interface {
	Intn(n int) int
}

// Drawer receives the sprite draw request for the current frame
type Drawer interface {
	DrawSprite(color colorful.Color, x, y int) error
}

// Options configures an Engine. Zero Step means DefaultStep, empty Palette is rejected
type Options struct {
	Step    int
	Palette palette.Palette
	Default colorful.Color
	Rand    Rand
}

// TickResult reports the boundary events of one Advance
type TickResult struct {
	HitX, HitY   bool
	ColorChanged bool
}

// Hit reports whether any axis reflected
func (r TickResult) Hit() bool {
	return r.HitX || r.HitY
}

// Engine owns the logo's motion state inside the arena.
// Position stays within [0, XRange]x[0, YRange]: overshoot past an edge is
// mirrored back, so the folded motion equals the unfolded billiard line
// x0 + dx*t reflected into range, which PredictHorizon and SolveCornerHit model.
type Engine struct {
	arena  Arena
	sprite Size
	xRange int
	yRange int
	step   int

	palette palette.Palette
	def     colorful.Color
	rng     Rand

	pos   Pos
	vel   Vel
	color colorful.Color

	tick       int
	colorTick  int // tick of the last color change, -1 before any
	cornerTick int // tick of the last acknowledged corner hit, -1 before any

	bounces      int
	cornerHits   int
	colorChanges int
}

// New validates the geometry and launches the logo from a random position
func New(arena Arena, sprite Size, opts Options) (*Engine, error) {
	if arena.Width <= 0 || arena.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidArena, arena.Width, arena.Height)
	}
	if sprite.Width <= 0 || sprite.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSprite, sprite.Width, sprite.Height)
	}
	xRange := arena.Width - sprite.Width
	yRange := arena.Height - sprite.Height
	if xRange < 0 || yRange < 0 {
		return nil, fmt.Errorf("%w: sprite %dx%d, arena %dx%d",
			ErrSpriteTooLarge, sprite.Width, sprite.Height, arena.Width, arena.Height)
	}
	if xRange == 0 || yRange == 0 {
		return nil, fmt.Errorf("%w: ranges %dx%d", ErrDegenerateRange, xRange, yRange)
	}

	step := opts.Step
	if step == 0 {
		step = DefaultStep
	}
	if step < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	if len(opts.Palette) == 0 {
		return nil, palette.ErrEmpty
	}
	if opts.Rand == nil {
		return nil, ErrNoRandom
	}

	e := &Engine{
		arena:   arena,
		sprite:  sprite,
		xRange:  xRange,
		yRange:  yRange,
		step:    step,
		palette: opts.Palette,
		def:     opts.Default,
		rng:     opts.Rand,
	}
	e.Reset()
	return e, nil
}

// Reset picks a uniform random position in range and a random sign per axis,
// restores the default color and clears counters
func (e *Engine) Reset() {
	pos := Pos{
		X: e.rng.Intn(e.xRange + 1),
		Y: e.rng.Intn(e.yRange + 1),
	}
	vel := Vel{DX: e.randomSign() * e.step, DY: e.randomSign() * e.step}
	e.launch(pos, vel)
}

// Place launches the logo from an explicit state
func (e *Engine) Place(pos Pos, vel Vel) error {
	if pos.X < 0 || pos.X > e.xRange || pos.Y < 0 || pos.Y > e.yRange {
		return fmt.Errorf("%w: (%d,%d) not in [0,%d]x[0,%d]",
			ErrOutOfBounds, pos.X, pos.Y, e.xRange, e.yRange)
	}
	if vmath.Abs(vel.DX) != e.step || vmath.Abs(vel.DY) != e.step {
		return fmt.Errorf("%w: (%d,%d) with step %d", ErrInvalidVelocity, vel.DX, vel.DY, e.step)
	}
	e.launch(pos, vel)
	return nil
}

func (e *Engine) launch(pos Pos, vel Vel) {
	e.pos = pos
	e.vel = vel
	e.color = e.def
	e.tick = 0
	e.colorTick = -1
	e.cornerTick = -1
	e.bounces = 0
	e.cornerHits = 0
	e.colorChanges = 0
}

func (e *Engine) randomSign() int {
	if e.rng.Intn(2) == 0 {
		return -1
	}
	return 1
}

// Advance moves the logo one tick and reflects off any edge it reaches.
// At most one color change per tick, even when both axes reflect
func (e *Engine) Advance() TickResult {
	e.tick++

	var res TickResult
	e.pos.X, e.vel.DX, res.HitX = reflect(e.pos.X, e.vel.DX, e.xRange)
	e.pos.Y, e.vel.DY, res.HitY = reflect(e.pos.Y, e.vel.DY, e.yRange)

	if res.Hit() {
		e.bounces++
		e.ChangeColor()
		res.ColorChanged = true
	}
	return res
}

// reflect applies one step on a single axis with travel range [0, r]
func reflect(p, v, r int) (int, int, bool) {
	p += v
	hit := p <= 0 || p >= r
	for p < 0 || p > r {
		if p < 0 {
			p = -p
		} else {
			p = 2*r - p
		}
		v = -v
	}
	// Landing exactly on an edge still bounces
	if (p == 0 && v < 0) || (p == r && v > 0) {
		v = -v
	}
	return p, v, hit
}

// ChangeColor picks a palette color uniformly; the same color may repeat
func (e *Engine) ChangeColor() {
	e.color = e.palette.Pick(e.rng.Intn)
	e.colorTick = e.tick
	e.colorChanges++
}

// AtCorner reports whether the logo exactly occupies one of the four corners
func (e *Engine) AtCorner() bool {
	onX := e.pos.X == 0 || e.pos.X == e.xRange
	onY := e.pos.Y == 0 || e.pos.Y == e.yRange
	return onX && onY
}

// OnCornerHit records a corner hit for the current tick. Returns false when
// the logo is not at a corner or the hit was already recorded this tick.
// The color changes only if the tick's bounce did not already change it
func (e *Engine) OnCornerHit() bool {
	if !e.AtCorner() || e.cornerTick == e.tick {
		return false
	}
	e.cornerTick = e.tick
	e.cornerHits++
	if e.colorTick != e.tick {
		e.ChangeColor()
	}
	return true
}

// PredictHorizon returns the frames until the next corner hit from the
// current state, or Never when the residues rule one out.
//
// Each axis is a triangle wave over its range; a corner needs both axes at an
// endpoint together. With g = gcd(XRange, YRange) and l = lcm(XRange, YRange),
// same-direction motion requires (x - y) ≡ 0 (mod g) and opposite-direction
// motion (x + y) ≡ 0 (mod g). When compatible the horizon is l / (|dx| + |dy|).
// The residue test is necessary, not sufficient; SolveCornerHit is exact
func (e *Engine) PredictHorizon() Horizon {
	g := vmath.GCD(e.xRange, e.yRange)
	l := vmath.LCM(e.xRange, e.yRange)

	if e.vel.DX*e.vel.DY > 0 {
		if vmath.Mod(e.pos.X-e.pos.Y, g) != 0 {
			return Never
		}
	} else {
		if vmath.Mod(e.pos.X+e.pos.Y, g) != 0 {
			return Never
		}
	}

	return Horizon(float64(l) / float64(vmath.Abs(e.vel.DX)+vmath.Abs(e.vel.DY)))
}

// SolveCornerHit returns the exact number of ticks (≥ 1) until Advance lands
// the logo on a corner, solving x + dx*t ≡ 0 (mod XRange) and
// y + dy*t ≡ 0 (mod YRange) over the unfolded path
func (e *Engine) SolveCornerHit() (int, bool) {
	tx, mx, ok := solveLinear(e.vel.DX, -e.pos.X, e.xRange)
	if !ok {
		return 0, false
	}
	ty, my, ok := solveLinear(e.vel.DY, -e.pos.Y, e.yRange)
	if !ok {
		return 0, false
	}
	t, m, ok := crt(tx, mx, ty, my)
	if !ok {
		return 0, false
	}
	if t == 0 {
		t = m
	}
	return t, true
}

// solveLinear solves a*t ≡ b (mod m) as t ≡ r (mod n)
func solveLinear(a, b, m int) (r, n int, ok bool) {
	g := vmath.GCD(a, m)
	if vmath.Mod(b, g) != 0 {
		return 0, 0, false
	}
	n = m / g
	if n == 1 {
		return 0, 1, true
	}
	inv, _ := vmath.ModInverse(a/g, n)
	return vmath.Mod(vmath.Mod(b/g, n)*inv, n), n, true
}

// crt merges t ≡ r1 (mod m1) and t ≡ r2 (mod m2) for non-coprime moduli
func crt(r1, m1, r2, m2 int) (r, m int, ok bool) {
	g := vmath.GCD(m1, m2)
	if vmath.Mod(r2-r1, g) != 0 {
		return 0, 0, false
	}
	m = m1 / g * m2
	n := m2 / g
	inv, _ := vmath.ModInverse(m1/g, n)
	k := vmath.Mod(vmath.Mod((r2-r1)/g, n)*inv, n)
	return vmath.Mod(r1+m1*k, m), m, true
}

// Render asks the drawer to draw the logo in its current color and position
func (e *Engine) Render(d Drawer) error {
	return d.DrawSprite(e.color, e.pos.X, e.pos.Y)
}

func (e *Engine) Pos() Pos                 { return e.pos }
func (e *Engine) Vel() Vel                 { return e.vel }
func (e *Engine) Color() colorful.Color    { return e.color }
func (e *Engine) Arena() Arena             { return e.arena }
func (e *Engine) Sprite() Size             { return e.sprite }
func (e *Engine) XRange() int              { return e.xRange }
func (e *Engine) YRange() int              { return e.yRange }
func (e *Engine) Step() int                { return e.step }
func (e *Engine) Tick() int                { return e.tick }
func (e *Engine) Bounces() int             { return e.bounces }
func (e *Engine) CornerHits() int          { return e.cornerHits }
func (e *Engine) ColorChanges() int        { return e.colorChanges }
func (e *Engine) Palette() palette.Palette { return e.palette }
