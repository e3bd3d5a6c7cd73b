package trajectory

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dvd-bounce/palette"
	"github.com/lixenwraith/dvd-bounce/vmath"
)

var (
	specArena  = Arena{Width: 800, Height: 600}
	specSprite = Size{Width: 100, Height: 100}
)

func newEngine(t *testing.T, arena Arena, sprite Size, seed uint64) *Engine {
	t.Helper()
	e, err := New(arena, sprite, Options{
		Palette: palette.Default(),
		Default: palette.DefaultColor(),
		Rand:    vmath.NewFastRand(seed),
	})
	require.NoError(t, err)
	return e
}

func placed(t *testing.T, arena Arena, sprite Size, pos Pos, vel Vel) *Engine {
	t.Helper()
	e := newEngine(t, arena, sprite, 1)
	require.NoError(t, e.Place(pos, vel))
	return e
}

func TestNewRejectsInvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		arena  Arena
		sprite Size
		opts   func(*Options)
		err    error
	}{
		{"zero arena", Arena{0, 600}, Size{10, 10}, nil, ErrInvalidArena},
		{"zero sprite", Arena{800, 600}, Size{10, 0}, nil, ErrInvalidSprite},
		{"sprite too wide", Arena{100, 600}, Size{101, 10}, nil, ErrSpriteTooLarge},
		{"sprite too tall", Arena{800, 50}, Size{10, 51}, nil, ErrSpriteTooLarge},
		{"sprite fills width", Arena{100, 600}, Size{100, 10}, nil, ErrDegenerateRange},
		{"sprite fills arena", Arena{100, 100}, Size{100, 100}, nil, ErrDegenerateRange},
		{"negative step", specArena, specSprite, func(o *Options) { o.Step = -2 }, ErrInvalidStep},
		{"empty palette", specArena, specSprite, func(o *Options) { o.Palette = nil }, palette.ErrEmpty},
		{"nil rand", specArena, specSprite, func(o *Options) { o.Rand = nil }, ErrNoRandom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{
				Palette: palette.Default(),
				Default: palette.DefaultColor(),
				Rand:    vmath.NewFastRand(7),
			}
			if tt.opts != nil {
				tt.opts(&opts)
			}
			_, err := New(tt.arena, tt.sprite, opts)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestResetWithinRangeAndDefaultColor(t *testing.T) {
	for seed := uint64(1); seed < 200; seed++ {
		e := newEngine(t, specArena, specSprite, seed)
		p, v := e.Pos(), e.Vel()
		if p.X < 0 || p.X > e.XRange() || p.Y < 0 || p.Y > e.YRange() {
			t.Fatalf("seed %d: initial position %+v out of range", seed, p)
		}
		if vmath.Abs(v.DX) != DefaultStep || vmath.Abs(v.DY) != DefaultStep {
			t.Fatalf("seed %d: initial velocity %+v not ±%d", seed, v, DefaultStep)
		}
		assert.Equal(t, palette.DefaultHex, palette.Key(e.Color()))
	}
}

func TestResetIsDeterministicPerSeed(t *testing.T) {
	a := newEngine(t, specArena, specSprite, 99)
	b := newEngine(t, specArena, specSprite, 99)
	assert.Equal(t, a.Pos(), b.Pos())
	assert.Equal(t, a.Vel(), b.Vel())
}

func TestPlaceValidation(t *testing.T) {
	e := newEngine(t, specArena, specSprite, 3)
	assert.ErrorIs(t, e.Place(Pos{-1, 0}, Vel{2, 2}), ErrOutOfBounds)
	assert.ErrorIs(t, e.Place(Pos{0, 501}, Vel{2, 2}), ErrOutOfBounds)
	assert.ErrorIs(t, e.Place(Pos{0, 0}, Vel{2, 3}), ErrInvalidVelocity)
	assert.NoError(t, e.Place(Pos{700, 500}, Vel{-2, 2}))
}

func TestAdvanceReflection(t *testing.T) {
	tests := []struct {
		name    string
		pos     Pos
		vel     Vel
		wantPos Pos
		wantVel Vel
		hitX    bool
		hitY    bool
	}{
		{"free flight", Pos{10, 10}, Vel{2, -2}, Pos{12, 8}, Vel{2, -2}, false, false},
		{"land on left edge", Pos{2, 10}, Vel{-2, 2}, Pos{0, 12}, Vel{2, 2}, true, false},
		{"land on right edge", Pos{698, 10}, Vel{2, 2}, Pos{700, 12}, Vel{-2, 2}, true, false},
		{"overshoot right is mirrored", Pos{699, 10}, Vel{2, 2}, Pos{699, 12}, Vel{-2, 2}, true, false},
		{"overshoot top is mirrored", Pos{10, 1}, Vel{2, -2}, Pos{12, 1}, Vel{2, 2}, false, true},
		{"corner", Pos{698, 498}, Vel{2, 2}, Pos{700, 500}, Vel{-2, -2}, true, true},
		{"leave edge inward", Pos{0, 10}, Vel{2, 2}, Pos{2, 12}, Vel{2, 2}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := placed(t, specArena, specSprite, tt.pos, tt.vel)
			res := e.Advance()
			assert.Equal(t, tt.wantPos, e.Pos())
			assert.Equal(t, tt.wantVel, e.Vel())
			assert.Equal(t, tt.hitX, res.HitX)
			assert.Equal(t, tt.hitY, res.HitY)
			assert.Equal(t, res.Hit(), res.ColorChanged)
		})
	}
}

func TestReflectStepLargerThanRange(t *testing.T) {
	p, v, hit := reflect(1, 5, 2)
	assert.True(t, hit)
	assert.GreaterOrEqual(t, p, 0)
	assert.LessOrEqual(t, p, 2)
	// Unfolded 6 folds to 2 on a [0,2] triangle wave, heading back down
	assert.Equal(t, 2, p)
	assert.Equal(t, -5, v)
}

func TestInvariantsOverLongRun(t *testing.T) {
	arenas := []struct {
		arena  Arena
		sprite Size
	}{
		{specArena, specSprite},
		{Arena{81, 47}, Size{10, 6}},
		{Arena{33, 21}, Size{4, 4}},
	}

	for _, a := range arenas {
		for seed := uint64(1); seed <= 20; seed++ {
			e := newEngine(t, a.arena, a.sprite, seed)
			step := e.Step()
			for tick := 0; tick < 5000; tick++ {
				before := e.ColorChanges()
				res := e.Advance()
				p, v := e.Pos(), e.Vel()

				if vmath.Abs(v.DX) != step || vmath.Abs(v.DY) != step {
					t.Fatalf("tick %d: speed changed: %+v", tick, v)
				}
				if p.X < 0 || p.X > e.XRange() || p.Y < 0 || p.Y > e.YRange() {
					t.Fatalf("tick %d: position %+v outside [0,%d]x[0,%d]", tick, p, e.XRange(), e.YRange())
				}
				changes := e.ColorChanges() - before
				if res.Hit() && changes != 1 {
					t.Fatalf("tick %d: reflecting tick changed color %d times", tick, changes)
				}
				if !res.Hit() && changes != 0 {
					t.Fatalf("tick %d: non-reflecting tick changed color %d times", tick, changes)
				}
			}
		}
	}
}

func TestAtCornerExact(t *testing.T) {
	e := newEngine(t, specArena, specSprite, 5)
	corners := []Pos{{0, 0}, {0, 500}, {700, 0}, {700, 500}}
	for _, c := range corners {
		require.NoError(t, e.Place(c, Vel{2, 2}))
		assert.True(t, e.AtCorner(), "corner %+v", c)
	}

	near := []Pos{{1, 0}, {0, 1}, {699, 500}, {700, 499}, {350, 250}, {0, 250}}
	for _, p := range near {
		require.NoError(t, e.Place(p, Vel{2, 2}))
		assert.False(t, e.AtCorner(), "position %+v", p)
	}
}

func TestAtCornerIsPure(t *testing.T) {
	e := placed(t, specArena, specSprite, Pos{0, 0}, Vel{2, 2})
	color := e.Color()
	for i := 0; i < 3; i++ {
		assert.True(t, e.AtCorner())
	}
	assert.Equal(t, color, e.Color())
	assert.Equal(t, 0, e.ColorChanges())
}

func TestOnCornerHitFiresOncePerTick(t *testing.T) {
	e := placed(t, specArena, specSprite, Pos{698, 498}, Vel{2, 2})
	res := e.Advance()
	require.True(t, res.HitX && res.HitY)
	require.Equal(t, 1, e.ColorChanges())

	assert.True(t, e.AtCorner())
	assert.True(t, e.OnCornerHit())
	// Bounce already changed the color this tick
	assert.Equal(t, 1, e.ColorChanges())
	assert.False(t, e.OnCornerHit())
	assert.Equal(t, 1, e.CornerHits())
	assert.Equal(t, 1, e.ColorChanges())
}

func TestOnCornerHitAwayFromCorner(t *testing.T) {
	e := placed(t, specArena, specSprite, Pos{10, 10}, Vel{2, 2})
	assert.False(t, e.OnCornerHit())
	assert.Equal(t, 0, e.CornerHits())
}

func TestOnCornerHitWithoutBounceChangesColor(t *testing.T) {
	e := placed(t, specArena, specSprite, Pos{0, 0}, Vel{2, 2})
	assert.True(t, e.OnCornerHit())
	assert.Equal(t, 1, e.ColorChanges())
	assert.Equal(t, 1, e.CornerHits())
}

func TestPredictHorizonReachable(t *testing.T) {
	e := placed(t, specArena, specSprite, Pos{0, 0}, Vel{2, 2})
	require.Equal(t, 700, e.XRange())
	require.Equal(t, 500, e.YRange())

	h := e.PredictHorizon()
	assert.True(t, h.IsFinite())
	assert.Equal(t, Horizon(875.0), h)
	assert.Equal(t, 875, h.Frames())
}

func TestPredictHorizonResidues(t *testing.T) {
	tests := []struct {
		name      string
		pos       Pos
		vel       Vel
		reachable bool
	}{
		{"same direction, aligned", Pos{150, 50}, Vel{2, 2}, true},
		{"same direction negative, aligned", Pos{150, 50}, Vel{-2, -2}, true},
		{"same direction, misaligned", Pos{151, 50}, Vel{2, 2}, false},
		{"opposite direction, aligned", Pos{130, 70}, Vel{2, -2}, true},
		{"opposite direction, misaligned", Pos{130, 71}, Vel{2, -2}, false},
		{"opposite direction, difference aligned only", Pos{160, 60}, Vel{-2, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := placed(t, specArena, specSprite, tt.pos, tt.vel)
			h := e.PredictHorizon()
			assert.Equal(t, tt.reachable, h.IsFinite())
			if tt.reachable {
				assert.Equal(t, Horizon(875.0), h)
			} else {
				assert.True(t, math.IsInf(float64(h), 1))
			}
		})
	}
}

func TestPredictHorizonFractional(t *testing.T) {
	// ranges 7 and 5: lcm 35 over |dx|+|dy| = 4
	e := placed(t, Arena{17, 15}, Size{10, 10}, Pos{0, 0}, Vel{2, 2})
	assert.Equal(t, Horizon(8.75), e.PredictHorizon())
	assert.Equal(t, 9, e.PredictHorizon().Frames())
}

func TestPredictHorizonIdempotent(t *testing.T) {
	for seed := uint64(1); seed < 50; seed++ {
		e := newEngine(t, specArena, specSprite, seed)
		first := e.PredictHorizon()
		second := e.PredictHorizon()
		assert.Equal(t, first.IsFinite(), second.IsFinite())
		if first.IsFinite() {
			assert.Equal(t, first, second)
		}
	}
}

func TestUnreachableNeverHitsCorner(t *testing.T) {
	// (x0 + y0) mod 100 = 1 with opposite signs
	e := placed(t, specArena, specSprite, Pos{201, 100}, Vel{2, -2})
	require.False(t, e.PredictHorizon().IsFinite())

	for tick := 0; tick < 20000; tick++ {
		e.Advance()
		if e.AtCorner() {
			t.Fatalf("corner reached at tick %d from an unreachable residue class", tick+1)
		}
	}
}

// firstCornerBySimulation steps until a corner or the limit
func firstCornerBySimulation(e *Engine, limit int) (int, bool) {
	for tick := 1; tick <= limit; tick++ {
		e.Advance()
		if e.AtCorner() {
			return tick, true
		}
	}
	return 0, false
}

func TestSolveCornerHitMatchesSimulation(t *testing.T) {
	arenas := []struct {
		arena  Arena
		sprite Size
	}{
		{Arena{17, 15}, Size{10, 10}},
		{Arena{30, 20}, Size{6, 8}},
		{Arena{41, 29}, Size{5, 5}},
		{Arena{64, 48}, Size{16, 12}},
	}

	for _, a := range arenas {
		for seed := uint64(1); seed <= 40; seed++ {
			e := newEngine(t, a.arena, a.sprite, seed)
			start, vel := e.Pos(), e.Vel()

			want, ok := e.SolveCornerHit()
			limit := 4 * vmath.LCM(e.XRange(), e.YRange())
			got, simOK := firstCornerBySimulation(e, limit)

			require.Equal(t, ok, simOK, "arena %+v start %+v vel %+v", a.arena, start, vel)
			if ok {
				assert.Equal(t, want, got, "arena %+v start %+v vel %+v", a.arena, start, vel)
			}
		}
	}
}

func TestSolveCornerHitFromCorner(t *testing.T) {
	e := placed(t, specArena, specSprite, Pos{0, 0}, Vel{2, 2})
	ticks, ok := e.SolveCornerHit()
	require.True(t, ok)
	assert.Equal(t, 1750, ticks)
}

type recordingDrawer struct {
	color colorful.Color
	x, y  int
	calls int
}

func (d *recordingDrawer) DrawSprite(c colorful.Color, x, y int) error {
	d.color, d.x, d.y = c, x, y
	d.calls++
	return nil
}

func TestRender(t *testing.T) {
	e := placed(t, specArena, specSprite, Pos{12, 34}, Vel{2, 2})
	d := &recordingDrawer{}
	require.NoError(t, e.Render(d))
	assert.Equal(t, 1, d.calls)
	assert.Equal(t, 12, d.x)
	assert.Equal(t, 34, d.y)
	assert.Equal(t, palette.DefaultHex, palette.Key(d.color))
}

func TestHorizonHelpers(t *testing.T) {
	h := Horizon(875)
	assert.Equal(t, Horizon(375), h.Remaining(500))
	assert.False(t, h.Reached(874))
	assert.True(t, h.Reached(875))
	assert.Equal(t, "875.00 frames", h.String())

	assert.False(t, Never.IsFinite())
	assert.False(t, Never.Reached(1<<30))
	assert.Equal(t, Never, Never.Remaining(10))
	assert.Equal(t, -1, Never.Frames())
	assert.Equal(t, "never", Never.String())
}
