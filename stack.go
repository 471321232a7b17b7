package lruipv

// stack is the recency stack of one set.
// Resident ranks always form the window `0..depth-1`,
// every other placed entry holds [Sentinel].
type stack struct {
	ranks  [Associativity]Rank
	placed int
}

// depth returns the number of resident entries.
func (s *stack) depth() Rank {
	var depth Rank
	for _, rank := range s.ranks[:s.placed] {
		if rank != Sentinel {
			depth++
		}
	}
	return depth
}

// bound translates a requested move of way into
// the source and destination ranks used by [stack.shift].
// A sentinel way is treated as occupying the first slot below
// the resident window, and no destination may leave a gap in it.
func (s *stack) bound(from, to Rank) (Rank, Rank) {
	depth := s.depth()
	switch {
	case from == Sentinel && to == Sentinel:
		return Sentinel, Sentinel
	case from == Sentinel:
		return depth, min(to, depth)
	case to == Sentinel:
		return from, Sentinel
	default:
		return from, min(to, depth-1)
	}
}

// shift keeps resident ranks distinct while the entry at way
// moves from one rank to another. It must be called before
// the entry's own rank is written, and never modifies it.
//
// Moving up (to < from) pushes peers in `[to, from)` down by one.
// Moving down (to > from) pulls peers in `(from, to]` up by one.
// Sentinel peers never move.
func (s *stack) shift(way int, from, to Rank) {
	if from == to {
		return
	}
	for i := range s.ranks[:s.placed] {
		rank := &s.ranks[i]
		if i == way || *rank == Sentinel {
			continue
		}
		switch {
		case to < from:
			if *rank >= to && *rank < from {
				*rank++
			}
		case *rank > from && *rank <= to:
			*rank--
		}
	}
}

// move relocates the entry at way and returns the ranks it moved between.
func (s *stack) move(way int, to Rank) (Rank, Rank) {
	from, to := s.bound(s.ranks[way], to)
	s.shift(way, from, to)
	s.ranks[way] = to
	return from, to
}

// push appends a new entry, inserting it at rank
// against the peers already placed.
func (s *stack) push(rank Rank) (way int, from, to Rank) {
	way = s.placed
	from, to = s.bound(Sentinel, rank)
	s.shift(way, from, to)
	s.ranks[way] = to
	s.placed++
	return way, from, to
}

// distinct reports whether every resident rank is unique
// and within the resident window.
func (s *stack) distinct() bool {
	var (
		seen  [Associativity]bool
		depth = s.depth()
	)
	for _, rank := range s.ranks[:s.placed] {
		if rank == Sentinel {
			continue
		}
		if rank >= depth || seen[rank] {
			return false
		}
		seen[rank] = true
	}
	return true
}
