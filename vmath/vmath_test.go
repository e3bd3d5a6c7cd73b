package vmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCDLCM(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		gcd, lcm int
	}{
		{"800x600 arena with 100px logo", 700, 500, 100, 3500},
		{"coprime", 7, 5, 1, 35},
		{"equal", 12, 12, 12, 12},
		{"one zero", 0, 9, 9, 0},
		{"both zero", 0, 0, 0, 0},
		{"negative operand", -12, 18, 6, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.gcd, GCD(tt.a, tt.b))
			assert.Equal(t, tt.lcm, LCM(tt.a, tt.b))
		})
	}
}

func TestMod(t *testing.T) {
	assert.Equal(t, 3, Mod(-7, 10))
	assert.Equal(t, 0, Mod(-100, 100))
	assert.Equal(t, 7, Mod(7, 10))
	assert.Equal(t, 0, Mod(0, 3))
}

func TestExtGCD(t *testing.T) {
	pairs := [][2]int{{700, 500}, {240, 46}, {17, 5}, {5, 17}, {1, 1}, {9, 0}}
	for _, p := range pairs {
		g, x, y := ExtGCD(p[0], p[1])
		assert.Equal(t, GCD(p[0], p[1]), g, "gcd of %v", p)
		assert.Equal(t, g, p[0]*x+p[1]*y, "bezout identity of %v", p)
	}
}

func TestModInverse(t *testing.T) {
	inv, ok := ModInverse(3, 7)
	assert.True(t, ok)
	assert.Equal(t, 5, inv)

	inv, ok = ModInverse(-3, 7)
	assert.True(t, ok)
	assert.Equal(t, 1, Mod(-3*inv, 7))

	_, ok = ModInverse(4, 8)
	assert.False(t, ok)
}

func TestFastRandDeterministic(t *testing.T) {
	a := NewFastRand(42)
	b := NewFastRand(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Intn(1000), b.Intn(1000)
		if va != vb {
			t.Fatalf("sequence diverged at %d: %d != %d", i, va, vb)
		}
		if va < 0 || va >= 1000 {
			t.Fatalf("Intn out of range: %d", va)
		}
	}
	assert.Equal(t, 0, NewFastRand(0).Intn(0))
}
