package satsls

import (
	"fmt"
	"io"

	"github.com/kr/pretty"
)

// Mode selects which score function a Scoreboard maintains.
type Mode int

const (
	// Diff scores a variable as make(v) - break(v), the GSAT-style score.
	Diff Mode = iota
	// BreakOnly scores a variable as break(v) alone (always >= 0), the
	// WalkSAT/ProbSAT-style score; lower is better.
	BreakOnly
)

func (m Mode) String() string {
	switch m {
	case Diff:
		return "diff"
	case BreakOnly:
		return "break-only"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// A Scoreboard incrementally maintains, for a Formula under evolution by
// single-variable flips: per-clause true-literal counts and critical
// variables, per-variable scores, and a best-score bucket index. It
// co-owns the Assignment and Falselist passed to NewScoreboard; flips must go
// through Scoreboard.Flip, not directly through the Assignment.
type Scoreboard struct {
	formula    *Formula
	assignment *Assignment
	falselist  *Falselist
	mode       Mode

	numTrueLit []int
	critVar    []int

	score []int // score[v], 1-indexed; score[0] unused

	// buckets[s] is the set of variables whose current score is s,
	// represented the same "dense slice + index map" way Falselist
	// represents the unsatisfied-clause set.
	buckets map[int][]int
	varPos  map[int]int

	bestScore int
}

// NewScoreboard constructs a Scoreboard for formula, given a freshly initialized
// assignment and an empty falselist. It performs the single
// construction pass described by the package: for every clause, it
// determines the clause's true-literal count and (if exactly one) its
// critical variable, adds newly-unsatisfied clauses to falselist, and
// brings every variable's score and bucket membership up to date.
func NewScoreboard(formula *Formula, assignment *Assignment, falselist *Falselist, mode Mode) *Scoreboard {
	if formula.NumVars != assignment.N() {
		panic("satsls: formula and assignment widths disagree")
	}
	n := formula.NumVars
	sb := &Scoreboard{
		formula:    formula,
		assignment: assignment,
		falselist:  falselist,
		mode:       mode,
		numTrueLit: make([]int, len(formula.Clauses)),
		critVar:    make([]int, len(formula.Clauses)),
		score:      make([]int, n+1),
		buckets:    make(map[int][]int),
		varPos:     make(map[int]int),
	}
	for v := 1; v <= n; v++ {
		sb.addToBucket(v, 0)
	}
	for c, cls := range formula.Clauses {
		t, cv := 0, 0
		for _, lit := range cls {
			if assignment.IsTrue(lit) {
				t++
				cv = abs(lit)
			}
		}
		sb.numTrueLit[c] = t
		switch t {
		case 1:
			sb.critVar[c] = cv
			if mode == Diff {
				sb.scoreDown(cv)
			} else {
				sb.scoreUp(cv)
			}
		case 0:
			falselist.Add(c)
			if mode == Diff {
				for _, lit := range cls {
					sb.scoreUp(abs(lit))
				}
			}
		}
	}
	return sb
}

// Mode reports the scoring mode the Scoreboard was constructed with.
func (sb *Scoreboard) Mode() Mode { return sb.mode }

// Formula returns the (immutable) formula this Scoreboard scores.
func (sb *Scoreboard) Formula() *Formula { return sb.formula }

// Assignment returns the Assignment co-owned by this Scoreboard. Callers
// must not flip variables on it directly; use Flip.
func (sb *Scoreboard) Assignment() *Assignment { return sb.assignment }

// Falselist returns the Falselist co-owned by this Scoreboard.
func (sb *Scoreboard) Falselist() *Falselist { return sb.falselist }

// Score returns variable v's current score.
func (sb *Scoreboard) Score(v int) int { return sb.score[v] }

// NumTrueLit returns the number of currently-true literals in clause c.
func (sb *Scoreboard) NumTrueLit(c int) int { return sb.numTrueLit[c] }

// CritVar returns clause c's critical variable. It is only meaningful
// when NumTrueLit(c) == 1.
func (sb *Scoreboard) CritVar(c int) int { return sb.critVar[c] }

// BestBucket returns the current best score and the (read-only) slice of
// variables sharing it. "Best" means maximal in Diff mode and minimal in
// BreakOnly mode. The returned slice must not be modified and is
// invalidated by the next Flip.
func (sb *Scoreboard) BestBucket() (int, []int) {
	return sb.bestScore, sb.buckets[sb.bestScore]
}

func (sb *Scoreboard) addToBucket(v, s int) {
	b := sb.buckets[s]
	sb.varPos[v] = len(b)
	sb.buckets[s] = append(b, v)
}

func (sb *Scoreboard) removeFromBucket(v, s int) {
	b := sb.buckets[s]
	i := sb.varPos[v]
	last := len(b) - 1
	if i != last {
		moved := b[last]
		b[i] = moved
		sb.varPos[moved] = i
	}
	b = b[:last]
	if len(b) == 0 {
		delete(sb.buckets, s)
	} else {
		sb.buckets[s] = b
	}
	delete(sb.varPos, v)
}

// scoreUp increases v's score by 1, keeping bucket membership and
// bestScore consistent per the package's bucketed best-score invariant.
func (sb *Scoreboard) scoreUp(v int) {
	old := sb.score[v]
	switch sb.mode {
	case Diff:
		if sb.bestScore == old {
			sb.bestScore++
		}
		sb.removeFromBucket(v, old)
	case BreakOnly:
		sb.removeFromBucket(v, old)
		if sb.bestScore == old && len(sb.buckets[old]) == 0 {
			sb.bestScore++
		}
	}
	sb.score[v] = old + 1
	sb.addToBucket(v, old+1)
}

// scoreDown decreases v's score by 1, keeping bucket membership and
// bestScore consistent.
func (sb *Scoreboard) scoreDown(v int) {
	old := sb.score[v]
	sb.removeFromBucket(v, old)
	switch sb.mode {
	case Diff:
		if sb.bestScore == old && len(sb.buckets[old]) == 0 {
			sb.bestScore--
		}
	case BreakOnly:
		// best tracks minimum break: a variable entering a strictly
		// lower bucket is eagerly the new best, regardless of whether
		// its old bucket emptied.
		if old-1 < sb.bestScore {
			sb.bestScore = old - 1
		}
	}
	sb.score[v] = old - 1
	sb.addToBucket(v, old-1)
}

// Flip applies a single-variable flip of v, updating the Assignment,
// per-clause counters, scores/buckets, and Falselist in amortized
// sub-linear time. The two occurrence scans (satisfying literal, then
// falsifying literal) run in this order, each over the ascending clause
// indices of Formula.Occurrences.
func (sb *Scoreboard) Flip(v int) {
	sb.assignment.Flip(v)
	var sat, unsat int
	if sb.assignment.Value(v) {
		sat, unsat = v, -v
	} else {
		sat, unsat = -v, v
	}

	for _, c := range sb.formula.Occurrences(sat) {
		switch sb.numTrueLit[c] {
		case 0:
			sb.falselist.Remove(c)
			if sb.mode == Diff {
				for _, lit := range sb.formula.Clauses[c] {
					sb.scoreDown(abs(lit))
				}
				sb.scoreDown(v)
			} else {
				sb.scoreUp(v)
			}
			sb.critVar[c] = v
		case 1:
			if sb.mode == Diff {
				sb.scoreUp(sb.critVar[c])
			} else {
				sb.scoreDown(sb.critVar[c])
			}
		}
		sb.numTrueLit[c]++
	}

	for _, c := range sb.formula.Occurrences(unsat) {
		switch sb.numTrueLit[c] {
		case 1:
			sb.falselist.Add(c)
			if sb.mode == Diff {
				for _, lit := range sb.formula.Clauses[c] {
					sb.scoreUp(abs(lit))
				}
				sb.scoreUp(v)
			} else {
				sb.scoreDown(v)
			}
			sb.critVar[c] = v
		case 2:
			// l stays v when no literal of c is true any more: the
			// remaining count belongs to another occurrence of v's
			// duplicated literal, which the next visit of c resolves.
			l := v
			for _, lit := range sb.formula.Clauses[c] {
				if sb.assignment.IsTrue(lit) {
					l = lit
					break
				}
			}
			sb.critVar[c] = abs(l)
			if sb.mode == Diff {
				sb.scoreDown(abs(l))
			} else {
				sb.scoreUp(abs(l))
			}
		}
		sb.numTrueLit[c]--
	}
}

// SelfTest recomputes every incremental field from first principles
// (O(N + sum of clause lengths)) and reports the first discrepancy found,
// or nil if the Scoreboard is fully consistent. It is intended for tests
// and debugging, not the hot flip path.
func (sb *Scoreboard) SelfTest() error {
	n := sb.formula.NumVars
	wantNumTrueLit := make([]int, len(sb.formula.Clauses))
	wantCritVar := make([]int, len(sb.formula.Clauses))
	wantMake := make([]int, n+1)
	wantBreak := make([]int, n+1)
	for c, cls := range sb.formula.Clauses {
		t, cv := 0, 0
		for _, lit := range cls {
			if sb.assignment.IsTrue(lit) {
				t++
				cv = abs(lit)
			}
		}
		wantNumTrueLit[c] = t
		switch t {
		case 1:
			wantCritVar[c] = cv
			wantBreak[cv]++
		case 0:
			for _, lit := range cls {
				wantMake[abs(lit)]++
			}
		}
	}
	for c := range sb.formula.Clauses {
		if sb.numTrueLit[c] != wantNumTrueLit[c] {
			return fmt.Errorf("clause %d: numTrueLit = %d, want %d", c, sb.numTrueLit[c], wantNumTrueLit[c])
		}
		if wantNumTrueLit[c] == 1 && sb.critVar[c] != wantCritVar[c] {
			return fmt.Errorf("clause %d: critVar = %d, want %d", c, sb.critVar[c], wantCritVar[c])
		}
		inFalselist := sb.falselist.Contains(c)
		isUnsat := wantNumTrueLit[c] == 0
		if inFalselist != isUnsat {
			return fmt.Errorf("clause %d: in falselist = %v, want %v", c, inFalselist, isUnsat)
		}
	}
	for v := 1; v <= n; v++ {
		var want int
		if sb.mode == Diff {
			want = wantMake[v] - wantBreak[v]
		} else {
			want = wantBreak[v]
		}
		if sb.score[v] != want {
			return fmt.Errorf("var %d: score = %d, want %d", v, sb.score[v], want)
		}
		found := false
		for _, x := range sb.buckets[sb.score[v]] {
			if x == v {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("var %d: missing from bucket %d", v, sb.score[v])
		}
	}
	for s, b := range sb.buckets {
		if len(b) == 0 {
			continue
		}
		switch sb.mode {
		case Diff:
			if s > sb.bestScore {
				return fmt.Errorf("bucket %d nonempty but bestScore = %d", s, sb.bestScore)
			}
		case BreakOnly:
			if s < sb.bestScore {
				return fmt.Errorf("bucket %d nonempty but bestScore = %d", s, sb.bestScore)
			}
		}
	}
	if n > 0 && len(sb.buckets[sb.bestScore]) == 0 {
		return fmt.Errorf("bucket at bestScore = %d is empty", sb.bestScore)
	}
	return nil
}

// DumpState writes a structured dump of the Scoreboard's internal state
// to w, for use by CLI verbose modes and failing-test diagnostics.
func (sb *Scoreboard) DumpState(w io.Writer) {
	fmt.Fprintf(w, "scoreboard mode=%s bestScore=%d\n", sb.mode, sb.bestScore)
	fmt.Fprintf(w, "buckets: %# v\n", pretty.Formatter(sb.buckets))
	fmt.Fprintf(w, "falselist: %# v\n", pretty.Formatter(sb.falselist.lst))
}
