package sim_test

import (
	"testing"

	lruipv "github.com/djdv/go-lruipv"
	"github.com/djdv/go-lruipv/internal/sim"
	"github.com/djdv/go-lruipv/internal/workload"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blockSize = 64

func newCache(t *testing.T, sets int, options ...lruipv.Option) *sim.Cache {
	t.Helper()
	cache, err := sim.New(sets, blockSize, zerolog.Nop(), options...)
	require.NoError(t, err)
	return cache
}

// setAddress returns the address of the n-th distinct block mapping to set 0.
func setAddress(sets, n int) uint64 {
	return uint64(n*sets) * blockSize
}

func TestNewRejectsGeometry(t *testing.T) {
	for _, geometry := range []struct {
		name            string
		sets, blockSize int
	}{
		{"zero sets", 0, blockSize},
		{"odd sets", 3, blockSize},
		{"odd block size", 4, 48},
		{"negative block size", 4, -64},
	} {
		t.Run(geometry.name, func(t *testing.T) {
			_, err := sim.New(geometry.sets, geometry.blockSize, zerolog.Nop())
			assert.ErrorIs(t, err, sim.ErrInvalidGeometry)
		})
	}
}

func TestNewRejectsSetCount(t *testing.T) {
	_, err := sim.New(lruipv.MaxSets*2, blockSize, zerolog.Nop())
	assert.ErrorIs(t, err, lruipv.ErrInvalidSet)
}

func TestNewRejectsVector(t *testing.T) {
	vector := lruipv.DefaultVector
	vector[2] = lruipv.Sentinel
	_, err := sim.New(1, blockSize, zerolog.Nop(), lruipv.WithVector(vector))
	assert.ErrorIs(t, err, lruipv.ErrInvalidVector)
}

func TestNewStartsEmpty(t *testing.T) {
	const sets = 4
	cache := newCache(t, sets)
	assert.Equal(t, sets*lruipv.Associativity, cache.Capacity())
	policy := cache.Policy()
	require.Equal(t, sets, policy.Sets())
	for set := range sets {
		for entry, rank := range policy.Ranks(set) {
			assert.Equal(t, lruipv.Sentinel, rank, "%s", entry)
		}
	}
}

func TestFillThenHit(t *testing.T) {
	const sets = 2
	cache := newCache(t, sets)
	for n := range lruipv.Associativity {
		hit, err := cache.Access(setAddress(sets, n))
		require.NoError(t, err)
		assert.False(t, hit)
	}
	for n := range lruipv.Associativity {
		hit, err := cache.Access(setAddress(sets, n))
		require.NoError(t, err)
		assert.True(t, hit)
	}
	hits, misses, evictions := cache.Counters()
	assert.EqualValues(t, lruipv.Associativity, hits)
	assert.EqualValues(t, lruipv.Associativity, misses)
	assert.Zero(t, evictions)
	assert.InDelta(t, 50.0, cache.HitRate(), 0.001)

	ranks := make(map[lruipv.Rank]bool)
	for _, rank := range cache.Policy().Ranks(0) {
		ranks[rank] = true
	}
	assert.Len(t, ranks, lruipv.Associativity, "resident ranks must be distinct")
}

func TestEvictsDeepestRank(t *testing.T) {
	const sets = 1
	cache := newCache(t, sets)
	for n := range lruipv.Associativity {
		_, err := cache.Access(setAddress(sets, n))
		require.NoError(t, err)
	}
	var deepest lruipv.Entry
	for entry, rank := range cache.Policy().Ranks(0) {
		if rank == lruipv.Associativity-1 {
			deepest = entry
		}
	}
	_, err := cache.Access(setAddress(sets, lruipv.Associativity))
	require.NoError(t, err)
	_, _, evictions := cache.Counters()
	assert.EqualValues(t, 1, evictions)

	rank, err := cache.Policy().Rank(deepest)
	require.NoError(t, err)
	assert.Equal(t, lruipv.InsertionRank, rank, "refilled way should sit at the insertion rank")
}

func TestInvalidateFreesWay(t *testing.T) {
	const sets = 1
	cache := newCache(t, sets)
	for n := range lruipv.Associativity {
		_, err := cache.Access(setAddress(sets, n))
		require.NoError(t, err)
	}
	present, err := cache.Invalidate(setAddress(sets, 3))
	require.NoError(t, err)
	assert.True(t, present)

	present, err = cache.Invalidate(setAddress(sets, 3))
	require.NoError(t, err)
	assert.False(t, present)

	hit, err := cache.Access(setAddress(sets, lruipv.Associativity))
	require.NoError(t, err)
	assert.False(t, hit)
	_, _, evictions := cache.Counters()
	assert.Zero(t, evictions, "fill should reuse the invalidated way")

	cache.ResetCounters()
	hits, misses, evictions := cache.Counters()
	assert.Zero(t, hits+misses+evictions)
}

// With an LRU vector and insertion at the top of the stack,
// a single set behaves exactly like a fully associative LRU cache.
func TestLRUVectorMatchesLRU(t *testing.T) {
	const sets = 1
	cache := newCache(t, sets,
		lruipv.WithVector(lruipv.LRUVector),
		lruipv.WithInsertionRank(0),
	)
	reference, err := simplelru.NewLRU[uint64, struct{}](lruipv.Associativity, nil)
	require.NoError(t, err)

	rng := workload.NewRNG(1)
	for i, block := range workload.Uniform(rng, lruipv.Associativity*2, 4096) {
		hit, err := cache.Access(block * blockSize)
		require.NoError(t, err)
		_, want := reference.Get(block)
		if !want {
			reference.Add(block, struct{}{})
		}
		require.Equal(t, want, hit, "access %d (block %d)", i, block)
	}
}

func TestDefaultVectorKeepsRanksDistinct(t *testing.T) {
	const sets = 4
	cache := newCache(t, sets)
	rng := workload.NewRNG(2)
	for _, block := range workload.Zipf(rng, sets*lruipv.Associativity*8, 8192, 1.2, 1.0) {
		_, err := cache.Access(block * blockSize)
		require.NoError(t, err)
	}
	for set := range sets {
		var (
			seen     = make(map[lruipv.Rank]bool)
			resident int
		)
		for _, rank := range cache.Policy().Ranks(set) {
			if rank == lruipv.Sentinel {
				continue
			}
			resident++
			require.False(t, seen[rank], "duplicate rank %d in set %d", rank, set)
			seen[rank] = true
		}
		for rank := range seen {
			assert.Less(t, int(rank), resident, "rank outside of the resident window")
		}
	}
}
