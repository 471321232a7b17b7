package workload_test

import (
	"testing"

	"github.com/djdv/go-lruipv/internal/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPow2(t *testing.T) {
	for input, want := range map[int]int{
		-1: 1, 0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 1024: 1024, 1025: 2048,
	} {
		assert.Equal(t, want, workload.NextPow2(input), "input %d", input)
	}
}

func TestSequentialWraps(t *testing.T) {
	seq := workload.Sequential(3, 6)
	assert.Equal(t, []uint64{0, 1, 2, 0, 1, 2, 0, 1}, seq)
}

func TestPatternsAreReproducible(t *testing.T) {
	const (
		capacity = 64
		seed     = 1
	)
	for _, pattern := range workload.Patterns() {
		t.Run(pattern.Name, func(t *testing.T) {
			var (
				first  = pattern.Generate(workload.NewRNG(seed), capacity)
				second = pattern.Generate(workload.NewRNG(seed), capacity)
			)
			require.Len(t, first, workload.SequenceLength)
			assert.Equal(t, first, second)
		})
	}
}

func TestUniformBounds(t *testing.T) {
	const upperBound = 10
	for _, block := range workload.Uniform(workload.NewRNG(1), upperBound, 128) {
		assert.Less(t, block, uint64(upperBound))
	}
}

func TestLookup(t *testing.T) {
	for _, name := range workload.Names() {
		pattern, err := workload.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, pattern.Name)
	}
	_, err := workload.Lookup("nonexistent")
	assert.Error(t, err)
}
