package lruipv

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog"
)

type (
	// Policy decides which way of a set to evict,
	// maintaining a recency stack for every set.
	// Concurrent access must be guarded by the caller.
	// Constructed by [New].
	Policy struct {
		log       zerolog.Logger
		stacks    []stack
		vector    Vector
		insertion Rank
		maxSets   int
		created   int
	}
	// Entry is the replacement data handle of one way.
	// Entries are created by [Policy.Instantiate]
	// or [Policy.InstantiateEntry].
	Entry struct {
		set, way int
	}
	// Option configures a [Policy] during [New].
	Option func(*Policy)
)

// WithVector replaces [DefaultVector].
func WithVector(vector Vector) Option {
	return func(p *Policy) { p.vector = vector }
}

// WithInsertionRank replaces [InsertionRank].
func WithInsertionRank(rank Rank) Option {
	return func(p *Policy) { p.insertion = rank }
}

// WithSets limits set identifiers to `0..sets-1`
// instead of `0..MaxSets-1`.
func WithSets(sets int) Option {
	return func(p *Policy) { p.maxSets = sets }
}

// WithLogger receives a Trace level event for
// every shift of a recency stack.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Policy) { p.log = log }
}

// New creates a [Policy] using [DefaultVector] and [InsertionRank]
// unless overridden by options.
func New(options ...Option) (*Policy, error) {
	policy := &Policy{
		log:       zerolog.Nop(),
		vector:    DefaultVector,
		insertion: InsertionRank,
		maxSets:   MaxSets,
	}
	for _, apply := range options {
		apply(policy)
	}
	if err := policy.vector.Validate(); err != nil {
		return nil, err
	}
	if policy.insertion >= Associativity {
		return nil, rankError(policy.insertion)
	}
	if policy.maxSets < 1 || policy.maxSets > MaxSets {
		return nil, setCountError(policy.maxSets)
	}
	return policy, nil
}

// Set returns the set the entry belongs to.
func (e Entry) Set() int { return e.set }

// Way returns the position of the entry within its set.
func (e Entry) Way() int { return e.way }

func (e Entry) String() string {
	return fmt.Sprintf("set %d way %d", e.set, e.way)
}

// Vector returns the promotion vector in use.
func (p *Policy) Vector() Vector { return p.vector }

// Sets returns the number of allocated sets, which is one past
// the highest set instantiated so far. Lower sets may be empty.
func (p *Policy) Sets() int { return len(p.stacks) }

// Instantiate creates a new entry in set.
// The entry is inserted at the insertion rank
// against the entries already in the set.
func (p *Policy) Instantiate(set int) (Entry, error) {
	if set < 0 || set >= p.maxSets {
		return Entry{}, setError(set, p.maxSets)
	}
	if set >= len(p.stacks) {
		p.stacks = append(p.stacks,
			make([]stack, set-len(p.stacks)+1)...)
	}
	stack := &p.stacks[set]
	if stack.placed == Associativity {
		return Entry{}, setFullError(set)
	}
	var (
		before        = stack.ranks
		peers         = stack.placed
		way, from, to = stack.push(p.insertion)
		entry         = Entry{set: set, way: way}
	)
	p.trace("instantiate", entry, from, to,
		before[:peers], stack.ranks[:stack.placed])
	return entry, nil
}

// InstantiateEntry creates entries in creation order;
// every [Associativity] calls begin a new set.
// If mixed with [Policy.Instantiate], the set
// chosen by the running count may already be full.
func (p *Policy) InstantiateEntry() (Entry, error) {
	set := p.created / Associativity
	entry, err := p.Instantiate(set)
	if err != nil {
		return Entry{}, err
	}
	p.created++
	return entry, nil
}

// Reset inserts the entry at the insertion rank.
// Should be called when the way is filled.
func (p *Policy) Reset(entry Entry) error {
	return p.move("reset", entry, p.insertion)
}

// Touch promotes the entry according to the vector.
// Should be called when the way is hit.
// Returns [ErrNotResident] for entries holding [Sentinel].
func (p *Policy) Touch(entry Entry) error {
	stack, err := p.stack(entry)
	if err != nil {
		return err
	}
	rank := stack.ranks[entry.way]
	if rank == Sentinel {
		return notResidentError(entry)
	}
	return p.move("touch", entry, p.vector.Promote(rank))
}

// Invalidate moves the entry to [Sentinel].
// Should be called when the way's data is invalidated.
func (p *Policy) Invalidate(entry Entry) error {
	return p.move("invalidate", entry, Sentinel)
}

// Victim returns the first candidate holding [Sentinel] if any,
// otherwise the first candidate.
// Candidates must all belong to the same set.
func (p *Policy) Victim(candidates []Entry) (Entry, error) {
	if len(candidates) == 0 {
		return Entry{}, ErrNoCandidates
	}
	var (
		set    = candidates[0].set
		victim = -1
	)
	for i, candidate := range candidates {
		if candidate.set != set {
			return Entry{}, mixedSetsError(set, candidate.set)
		}
		stack, err := p.stack(candidate)
		if err != nil {
			return Entry{}, err
		}
		if victim == -1 &&
			stack.ranks[candidate.way] == Sentinel {
			victim = i
		}
	}
	if victim == -1 {
		victim = 0
	}
	return candidates[victim], nil
}

// Rank returns the current rank of the entry.
func (p *Policy) Rank(entry Entry) (Rank, error) {
	stack, err := p.stack(entry)
	if err != nil {
		return Sentinel, err
	}
	return stack.ranks[entry.way], nil
}

// Ranks returns an iterator over the entries of set
// (in creation order) and their ranks.
func (p *Policy) Ranks(set int) iter.Seq2[Entry, Rank] {
	return func(yield func(Entry, Rank) bool) {
		if set < 0 || set >= len(p.stacks) {
			return
		}
		stack := &p.stacks[set]
		for way, rank := range stack.ranks[:stack.placed] {
			if !yield(Entry{set: set, way: way}, rank) {
				return
			}
		}
	}
}

func (p *Policy) stack(entry Entry) (*stack, error) {
	if entry.set < 0 || entry.set >= len(p.stacks) ||
		entry.way < 0 || entry.way >= p.stacks[entry.set].placed {
		return nil, unknownEntryError(entry)
	}
	return &p.stacks[entry.set], nil
}

func (p *Policy) move(op string, entry Entry, to Rank) error {
	stack, err := p.stack(entry)
	if err != nil {
		return err
	}
	if debugging {
		assert(stack.placed == Associativity,
			"shift on a partially populated stack")
	}
	before := stack.ranks
	from, to := stack.move(entry.way, to)
	if debugging {
		assert(stack.distinct(),
			"resident ranks are not distinct after shift")
	}
	p.trace(op, entry, from, to,
		before[:stack.placed], stack.ranks[:stack.placed])
	return nil
}
