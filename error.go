package lruipv

import "fmt"

type constError string

const (
	// ErrInvalidVector may be returned from [New] when given a [Vector]
	// that promotes into a rank outside of the stack.
	ErrInvalidVector = constError("invalid promotion vector")
	// ErrInvalidRank may be returned from [New] for an insertion rank
	// outside of the stack.
	ErrInvalidRank = constError("invalid rank")
	// ErrInvalidSet is returned when a set identifier is outside of
	// the range given to [WithSets], or from [New] for a set count
	// outside of `1..MaxSets`.
	ErrInvalidSet = constError("invalid set")
	// ErrSetFull is returned by [Policy.Instantiate] when the set
	// already holds [Associativity] entries.
	ErrSetFull = constError("set is full")
	// ErrUnknownEntry is returned when an [Entry] refers to
	// a set or way the [Policy] has not instantiated.
	ErrUnknownEntry = constError("unknown entry")
	// ErrNotResident is returned by [Policy.Touch] for an entry
	// holding the [Sentinel] rank.
	ErrNotResident = constError("entry is not resident")
	// ErrNoCandidates is returned by [Policy.Victim] when given no candidates.
	ErrNoCandidates = constError("no replacement candidates")
	// ErrMixedSets is returned by [Policy.Victim] when
	// candidates do not share a single set.
	ErrMixedSets = constError("candidates span multiple sets")
)

func (errStr constError) Error() string { return string(errStr) }

func vectorError(index int, rank Rank) error {
	return fmt.Errorf(
		"%w: vector[%d] is %d but must be <%d",
		ErrInvalidVector, index, rank, Associativity)
}

func rankError(rank Rank) error {
	return fmt.Errorf(
		"%w: must be <%d but %d was requested",
		ErrInvalidRank, Associativity, rank)
}

func setError(set, sets int) error {
	return fmt.Errorf(
		"%w: must be in [0,%d) but %d was requested",
		ErrInvalidSet, sets, set)
}

func setCountError(sets int) error {
	return fmt.Errorf(
		"%w: set count must be in [1,%d] but %d was requested",
		ErrInvalidSet, MaxSets, sets)
}

func setFullError(set int) error {
	return fmt.Errorf(
		"%w: set %d already holds %d entries",
		ErrSetFull, set, Associativity)
}

func unknownEntryError(entry Entry) error {
	return fmt.Errorf("%w: %s", ErrUnknownEntry, entry)
}

func notResidentError(entry Entry) error {
	return fmt.Errorf("%w: %s", ErrNotResident, entry)
}

func mixedSetsError(want, got int) error {
	return fmt.Errorf(
		"%w: expected set %d but got %d",
		ErrMixedSets, want, got)
}
