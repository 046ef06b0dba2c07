// Package rng wraps math/rand/v2 with the deterministic seeding and labeled
// sub-seed derivation the generators depend on. A single RNG instance is
// owned by one generation call tree at a time.
package rng

import (
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic
// seeding.
type RNG struct {
	r *rand.Rand
}

// New creates a deterministic RNG using the provided seed.
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a uniform sample in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Uniform returns a uniform sample in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

// Normal returns a Gaussian sample with the given mean and standard deviation.
func (r *RNG) Normal(mean, stddev float64) float64 {
	return mean + stddev*r.r.NormFloat64()
}

// IntN returns a uniform integer in [0, n). n must be positive.
func (r *RNG) IntN(n int) int { return r.r.IntN(n) }

// Shuffle pseudo-randomizes the order of n elements using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) { r.r.Shuffle(n, swap) }

// FillNormal fills buf with independent N(0, stddev) samples.
func (r *RNG) FillNormal(buf []float64, stddev float64) {
	for i := range buf {
		buf[i] = stddev * r.r.NormFloat64()
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }

// DeriveSeed maps a parent seed and a label to a stable sub-seed. The mapping
// is a pure function of its arguments, so derived streams do not depend on
// the order in which siblings are created.
func DeriveSeed(parent int64, label string) int64 {
	return int64(xxhash.Sum64String(fmt.Sprintf("%s:%d", label, parent)))
}

// ForLabel returns a fresh RNG seeded from DeriveSeed(parent, label).
func ForLabel(parent int64, label string) *RNG {
	return New(DeriveSeed(parent, label))
}
