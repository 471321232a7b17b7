// Package sim models the host side of a set-associative cache:
// the tag array and address split which drive an [lruipv.Policy].
package sim

import (
	"cmp"
	"errors"
	"fmt"
	"math/bits"
	"slices"

	lruipv "github.com/djdv/go-lruipv"
	"github.com/rs/zerolog"
)

type (
	// Block is the tag state of one way.
	Block struct {
		Tag   uint64
		Valid bool
		entry lruipv.Entry
	}
	// Cache holds only tags; no data is stored.
	// Concurrent access must be guarded by the caller.
	Cache struct {
		log        zerolog.Logger
		policy     *lruipv.Policy
		sets       [][lruipv.Associativity]Block
		candidates []lruipv.Entry
		blockSize  uint64
		hits, misses,
		evictions uint64
	}
)

// ErrInvalidGeometry is returned from [New]
// when the set count or block size is not a power of two.
var ErrInvalidGeometry = errors.New("invalid cache geometry")

// New creates a cache of sets × [lruipv.Associativity] blocks.
// Every way starts invalid.
func New(sets, blockSize int, log zerolog.Logger, options ...lruipv.Option) (*Cache, error) {
	if !isPow2(sets) || !isPow2(blockSize) {
		return nil, fmt.Errorf(
			"%w: sets (%d) and block size (%d) must be powers of two",
			ErrInvalidGeometry, sets, blockSize)
	}
	policy, err := lruipv.New(
		append([]lruipv.Option{lruipv.WithSets(sets)}, options...)...,
	)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		log:        log,
		policy:     policy,
		sets:       make([][lruipv.Associativity]Block, sets),
		candidates: make([]lruipv.Entry, 0, lruipv.Associativity),
		blockSize:  uint64(blockSize),
	}
	for set := range c.sets {
		for way := range c.sets[set] {
			entry, err := policy.InstantiateEntry()
			if err != nil {
				return nil, err
			}
			c.sets[set][way].entry = entry
		}
	}
	// Fresh entries are resident; mark them empty
	// so fills prefer them over valid blocks.
	for set := range c.sets {
		for way := range c.sets[set] {
			if err := policy.Invalidate(c.sets[set][way].entry); err != nil {
				return nil, err
			}
		}
	}
	log.Debug().
		Int("sets", sets).
		Int("ways", lruipv.Associativity).
		Int("block_size", blockSize).
		Msg("cache created")
	return c, nil
}

// Policy returns the replacement policy of the cache.
func (c *Cache) Policy() *lruipv.Policy { return c.policy }

// Capacity returns the number of blocks the cache can hold.
func (c *Cache) Capacity() int { return len(c.sets) * lruipv.Associativity }

// locate splits an address into its set and tag.
func (c *Cache) locate(address uint64) (set int, tag uint64) {
	var (
		block = address / c.blockSize
		count = uint64(len(c.sets))
	)
	return int(block % count), block / count
}

func (c *Cache) lookup(set int, tag uint64) *Block {
	for way := range c.sets[set] {
		block := &c.sets[set][way]
		if block.Valid && block.Tag == tag {
			return block
		}
	}
	return nil
}

// Access references address, filling it on a miss.
func (c *Cache) Access(address uint64) (hit bool, err error) {
	set, tag := c.locate(address)
	if block := c.lookup(set, tag); block != nil {
		c.hits++
		return true, c.policy.Touch(block.entry)
	}
	c.misses++
	victim, err := c.victim(set)
	if err != nil {
		return false, err
	}
	block := &c.sets[set][victim.Way()]
	if block.Valid {
		c.evictions++
		c.log.Trace().
			Int("set", set).
			Int("way", victim.Way()).
			Uint64("tag", block.Tag).
			Msg("evict")
		if err := c.policy.Invalidate(block.entry); err != nil {
			return false, err
		}
	}
	block.Tag = tag
	block.Valid = true
	return false, c.policy.Reset(block.entry)
}

// victim presents the set's ways deepest rank first,
// so the policy's first-candidate fallback evicts the deepest way.
func (c *Cache) victim(set int) (lruipv.Entry, error) {
	candidates := c.candidates[:0]
	for way := range c.sets[set] {
		candidates = append(candidates, c.sets[set][way].entry)
	}
	var rankErr error
	slices.SortStableFunc(candidates, func(a, b lruipv.Entry) int {
		aRank, aErr := c.policy.Rank(a)
		bRank, bErr := c.policy.Rank(b)
		rankErr = cmp.Or(rankErr, aErr, bErr)
		return cmp.Compare(bRank, aRank)
	})
	if rankErr != nil {
		return lruipv.Entry{}, rankErr
	}
	c.candidates = candidates
	return c.policy.Victim(candidates)
}

// Replay accesses every block of the sequence in order.
func (c *Cache) Replay(blocks []uint64) error {
	for i, block := range blocks {
		if _, err := c.Access(block * c.blockSize); err != nil {
			return fmt.Errorf("access %d (block %d): %w", i, block, err)
		}
	}
	return nil
}

// Invalidate drops address from the cache,
// reporting whether it was present.
func (c *Cache) Invalidate(address uint64) (bool, error) {
	set, tag := c.locate(address)
	block := c.lookup(set, tag)
	if block == nil {
		return false, nil
	}
	block.Valid = false
	return true, c.policy.Invalidate(block.entry)
}

// Counters returns the hit, miss, and eviction counts.
func (c *Cache) Counters() (hits, misses, evictions uint64) {
	return c.hits, c.misses, c.evictions
}

// HitRate returns the percentage of accesses that hit.
func (c *Cache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100.0
}

// ResetCounters zeroes the hit, miss, and eviction counts.
func (c *Cache) ResetCounters() {
	c.hits, c.misses, c.evictions = 0, 0, 0
}

func isPow2(x int) bool {
	return x > 0 && bits.OnesCount(uint(x)) == 1
}
