package satsls

import "math/rand"

// A Falselist is an unordered set of clause indices (the currently
// unsatisfied clauses) supporting O(1) Add, Remove, and Contains.
//
// It is represented as a dense slice plus an index map, the same
// "slice + position map" idiom this package's Scoreboard uses for its
// score buckets.
type Falselist struct {
	lst []int
	pos map[int]int
}

// NewFalselist returns an empty Falselist.
func NewFalselist() *Falselist {
	return &Falselist{pos: make(map[int]int)}
}

// Len returns the number of clause indices currently in the set.
func (fl *Falselist) Len() int { return len(fl.lst) }

// Contains reports whether x is in the set.
func (fl *Falselist) Contains(x int) bool {
	_, ok := fl.pos[x]
	return ok
}

// Add inserts x into the set. x must not already be present.
func (fl *Falselist) Add(x int) {
	if _, ok := fl.pos[x]; ok {
		panic("satsls: Falselist.Add of element already present")
	}
	fl.pos[x] = len(fl.lst)
	fl.lst = append(fl.lst, x)
}

// Remove deletes x from the set via swap-with-last. x must be present.
// Iteration order is not preserved across Remove calls.
func (fl *Falselist) Remove(x int) {
	i, ok := fl.pos[x]
	if !ok {
		panic("satsls: Falselist.Remove of element not present")
	}
	last := len(fl.lst) - 1
	if i != last {
		moved := fl.lst[last]
		fl.lst[i] = moved
		fl.pos[moved] = i
	}
	fl.lst = fl.lst[:last]
	delete(fl.pos, x)
}

// Each calls f once for every clause index currently in the set, in
// insertion-with-swap order. This order is explicitly unspecified and may
// change across Add/Remove calls; do not rely on it for anything other
// than visiting every element once.
func (fl *Falselist) Each(f func(x int)) {
	for _, x := range fl.lst {
		f(x)
	}
}

// Sample returns a uniformly random element of the set using rng. The set
// must be non-empty. Heuristics that need a stable random choice must use
// Sample, not Each, since Each's order is not random.
func (fl *Falselist) Sample(rng *rand.Rand) int {
	if len(fl.lst) == 0 {
		panic("satsls: Sample of empty Falselist")
	}
	return fl.lst[rng.Intn(len(fl.lst))]
}
