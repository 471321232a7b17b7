// Package lruipv implements a set-associative cache replacement [Policy]
// driven by an Insertion/Promotion Vector (IPV).
//
// Plain LRU promotes every hit to the top of its set's recency stack.
// An IPV instead maps the rank an entry holds when it is hit to the rank
// it moves to, allowing non-monotonic promotion schedules.
// [LRUVector] reproduces LRU promotion; [DefaultVector] does not.
//
// The following is a summary intended for maintainers.
//
// Glossary and invariants:
//
//   - Way
//
//     One storage slot of a set; represented by an [Entry].
//
//   - Rank
//
//     Position of an entry in its set's recency stack.
//     `0..Associativity-1` when resident, [Sentinel] when the way holds no valid data.
//
//   - Recency stack
//
//     Fixed array of [Associativity] ranks per set.
//     Resident ranks are pairwise distinct and always form the window `0..n-1`,
//     where n is the number of resident entries. Sentinel entries never shift.
//
//   - Shift
//
//     When one entry moves from rank `from` to rank `to`, every peer
//     between them moves one step towards `from`, so the window stays dense.
//     Linear in [Associativity].
//
// Operations:
//
//   - Instantiate
//
//     Places a new entry in a set at the insertion rank
//     (clamped to the resident window), shifting peers already placed.
//
//   - Reset
//
//     On fill. Moves the entry to the insertion rank.
//
//   - Touch
//
//     On hit. Moves the entry from rank r to vector[r].
//     Touching a sentinel entry is an error.
//
//   - Invalidate
//
//     Moves the entry to [Sentinel]; peers below it move up.
//
//   - Victim
//
//     Returns the first sentinel candidate, otherwise the first candidate.
//     Ranks do not break ties; hosts wanting rank-ordered eviction
//     present candidates deepest first.
//
// Build with the `lruipv_debug` tag to assert stack invariants after every shift.
package lruipv
