package trajectory

import (
	"fmt"
	"math"
)

// Horizon is the predicted number of frames until a corner hit, possibly fractional
type Horizon float64

// Never is the horizon of a trajectory that cannot reach a corner
var Never = Horizon(math.Inf(1))

func (h Horizon) IsFinite() bool {
	return !math.IsInf(float64(h), 0) && !math.IsNaN(float64(h))
}

// Remaining returns horizon minus elapsed frames; Never stays Never
func (h Horizon) Remaining(frames int) Horizon {
	if !h.IsFinite() {
		return h
	}
	return h - Horizon(frames)
}

// Reached reports whether the elapsed frame count is at or past the horizon
func (h Horizon) Reached(frames int) bool {
	return h.IsFinite() && float64(frames) >= float64(h)
}

// Frames returns the first whole frame at or after the horizon, -1 for Never
func (h Horizon) Frames() int {
	if !h.IsFinite() {
		return -1
	}
	return int(math.Ceil(float64(h)))
}

func (h Horizon) String() string {
	if !h.IsFinite() {
		return "never"
	}
	return fmt.Sprintf("%.2f frames", float64(h))
}
