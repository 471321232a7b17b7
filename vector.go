package lruipv

type (
	// Rank is the position of an entry within its set's recency stack.
	// Ranks `0..Associativity-1` are resident, [Sentinel] is not.
	Rank uint8
	// Vector is an Insertion/Promotion Vector.
	// Index is the current rank of an entry, value is
	// the rank it moves to when touched.
	// The value at index [Sentinel] is never consulted.
	Vector [Associativity + 1]Rank
)

const (
	// Associativity is the number of ways in each set.
	Associativity = 16
	// Sentinel is the rank held by entries with no valid data.
	Sentinel Rank = Associativity
	// MaxSets is the default and largest set count of a [Policy].
	MaxSets = 1 << 20
	// InsertionRank is the rank given to entries on [Policy.Reset]
	// unless overridden by [WithInsertionRank].
	InsertionRank Rank = 13
)

var (
	// DefaultVector favors entries which are hit while
	// deep in the stack, without always promoting to the top.
	// Its final element mirrors [InsertionRank] and is not consulted.
	DefaultVector = Vector{0, 0, 1, 0, 3, 0, 1, 2, 1, 0, 5, 1, 0, 0, 1, 11, 13}
	// LRUVector promotes every hit to rank 0.
	LRUVector = Vector{}
)

// Validate returns an error if any resident rank
// would be promoted outside of the stack.
func (v Vector) Validate() error {
	for index, rank := range v[:Associativity] {
		if rank >= Associativity {
			return vectorError(index, rank)
		}
	}
	return nil
}

// Promote returns the rank an entry at rank moves to when touched.
func (v Vector) Promote(rank Rank) Rank { return v[rank] }
