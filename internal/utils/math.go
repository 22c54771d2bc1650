package utils

import (
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Clamp constrains v to the range [minVal, maxVal].
func Clamp[T constraints.Ordered](v, minVal, maxVal T) T {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampIndex bounds idx to the valid range for a slice of length.
func ClampIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Rand is the subset of *rand.Rand the layout and motion code draws from.
// Tests inject a seeded generator to make layouts and turns reproducible.
type Rand interface {
	Float64() float64
}

// NewRand returns a generator seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform draws a value in [lo, hi) from r.
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// CoinFlip returns -1 or +1 with equal probability.
func CoinFlip(r Rand) float64 {
	if r.Float64() < 0.5 {
		return -1
	}
	return 1
}
