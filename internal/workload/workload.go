// Package workload generates reproducible block access sequences.
package workload

import (
	"fmt"
	"math/bits"
	"math/rand"
	"slices"
)

type (
	// Generator returns a sequence of block numbers
	// shaped against a cache of the given capacity (in blocks).
	Generator = func(rng *rand.Rand, capacity int) []uint64
	// Pattern is a named [Generator].
	Pattern struct {
		Name     string
		Generate Generator
	}
)

// SequenceLength is the number of accesses each pattern produces.
// Power of two for cheap masking.
const SequenceLength = 1 << 16

var patterns = []Pattern{
	{
		"sequential",
		func(_ *rand.Rand, capacity int) []uint64 {
			universe := capacity * 4 // Key space large enough to force misses.
			return Sequential(universe, SequenceLength)
		},
	},
	{
		"loop",
		func(rng *rand.Rand, capacity int) []uint64 {
			const hotRatio = 0.9 // 90% of accesses hit hot set.
			universe := capacity * 8
			return Looping(rng, capacity, universe, SequenceLength, hotRatio)
		},
	},
	{
		"zipf",
		func(rng *rand.Rand, capacity int) []uint64 {
			const (
				skew = 1.2
				bias = 1.0
			)
			universe := capacity * 16 // Large enough to show skew.
			return Zipf(rng, universe, SequenceLength, skew, bias)
		},
	},
	{
		"uniform",
		func(rng *rand.Rand, capacity int) []uint64 {
			upperBound := capacity * 4 // Universe bigger than capacity.
			return Uniform(rng, upperBound, SequenceLength)
		},
	},
}

// Names returns the names of every pattern.
func Names() []string {
	names := make([]string, len(patterns))
	for i, pattern := range patterns {
		names[i] = pattern.Name
	}
	return names
}

// Patterns returns every pattern.
func Patterns() []Pattern { return slices.Clone(patterns) }

// Lookup returns the pattern registered as name.
func Lookup(name string) (Pattern, error) {
	for _, pattern := range patterns {
		if pattern.Name == name {
			return pattern, nil
		}
	}
	return Pattern{}, fmt.Errorf(
		"unknown pattern %q, expected one of %v",
		name, Names())
}

// NewRNG returns a deterministic source for the seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Sequential cycles through the universe in order.
func Sequential(universe, seqLen int) []uint64 {
	seq := make([]uint64, NextPow2(seqLen))
	for i := range seq {
		seq[i] = uint64(i % universe)
	}
	return seq
}

// Looping draws from a hot set of size capacity with
// probability hotRatio, otherwise from the rest of the universe.
func Looping(rng *rand.Rand, capacity, universe, seqLen int, hotRatio float64) []uint64 {
	var (
		seq      = make([]uint64, NextPow2(seqLen))
		hotSize  = max(1, capacity)
		coldSize = max(1, universe-hotSize)
	)
	for i := range seq {
		if rng.Float64() < hotRatio {
			seq[i] = uint64(rng.Intn(hotSize))
		} else {
			seq[i] = uint64(hotSize + rng.Intn(coldSize))
		}
	}
	return seq
}

// Zipf draws from a Zipf distribution over the universe.
func Zipf(rng *rand.Rand, universe, seqLen int, skew, bias float64) []uint64 {
	var (
		seq  = make([]uint64, NextPow2(seqLen))
		imax = uint64(max(universe, 2) - 1)
		zipf = rand.NewZipf(rng, skew, bias, imax)
	)
	for i := range seq {
		seq[i] = zipf.Uint64()
	}
	return seq
}

// Uniform draws uniformly from `[0, upperBound)`.
func Uniform(rng *rand.Rand, upperBound, seqLen int) []uint64 {
	seq := make([]uint64, NextPow2(seqLen))
	for i := range seq {
		seq[i] = uint64(rng.Intn(upperBound))
	}
	return seq
}

// NextPow2 rounds x up to a power of two.
func NextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x)-1)
}
