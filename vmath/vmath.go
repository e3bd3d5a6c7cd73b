package vmath

// --- Integer number theory ---

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0
func GCD(a, b int) int {
	a, b = Abs(a), Abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of |a| and |b|, 0 if either is 0
func LCM(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	g := GCD(a, b)
	return Abs(a/g) * Abs(b)
}

// Mod returns a mod m in [0, m) for m > 0. Go's % keeps the dividend sign
func Mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// ExtGCD returns g = gcd(a, b) and Bezout coefficients x, y with a*x + b*y = g
func ExtGCD(a, b int) (g, x, y int) {
	oldR, r := a, b
	oldS, s := 1, 0
	oldT, t := 0, 1
	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
		oldT, t = t, oldT-q*t
	}
	if oldR < 0 {
		oldR, oldS, oldT = -oldR, -oldS, -oldT
	}
	return oldR, oldS, oldT
}

// ModInverse returns the inverse of a modulo m (m > 0) and false when none exists
func ModInverse(a, m int) (int, bool) {
	g, x, _ := ExtGCD(Mod(a, m), m)
	if g != 1 {
		return 0, false
	}
	return Mod(x, m), true
}

// Abs returns |a|
func Abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Sign returns -1, 0 or 1
func Sign(a int) int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	}
	return 0
}

// --- Random ---

// FastRand is a xorshift64 generator. Deterministic for a given seed, not safe for concurrent use
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}
