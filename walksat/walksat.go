// Package walksat implements a minimal WalkSAT/GSAT-family outer search
// loop on top of the satsls scoring core. It is deliberately small: the
// core's job is the incremental scoring substrate, and this package is
// just one of many possible consumers of its BestBucket/Score/Falselist
// surface.
package walksat

import (
	"math/rand"

	"github.com/cespare/satsls"
)

// Options configures Run.
type Options struct {
	// MaxFlips bounds the number of variable flips attempted before
	// giving up.
	MaxFlips int
	// NoiseProb is the probability, on each step, of making a uniformly
	// random "noise" move (flip a random variable from the chosen
	// unsatisfied clause) instead of the greedy move.
	NoiseProb float64
	// Mode selects the Scoreboard's scoring function. BreakOnly is the
	// conventional WalkSAT/ProbSAT choice; Diff is the GSAT choice.
	Mode satsls.Mode
	// Rand is the PRNG used for clause sampling and noise moves. It must
	// be non-nil.
	Rand *rand.Rand
}

// Result is the outcome of a Run.
type Result struct {
	Assignment *satsls.Assignment
	Flips      int
	Sat        bool

	// Scoreboard is the engine's final internal state, exposed for
	// verbose/debug reporting (see Scoreboard.DumpState).
	Scoreboard *satsls.Scoreboard
}

// Run starts from start and repeatedly flips a single variable, chosen by
// a WalkSAT-style clause-then-variable policy, until formula is satisfied
// or opts.MaxFlips is exhausted.
//
// On each step it samples a currently unsatisfied clause uniformly at
// random (via Falselist.Sample, never by iterating Falselist, since
// iteration order is not random) and either flips a uniformly random
// variable from that clause (with probability opts.NoiseProb) or the
// variable from that clause whose current score is most preferred by
// opts.Mode (a greedy GSAT-family pick restricted to the clause's
// variables; see bestVarInClause).
func Run(formula *satsls.Formula, start *satsls.Assignment, opts Options) Result {
	if opts.Rand == nil {
		panic("walksat: Options.Rand must not be nil")
	}
	assignment := start.Clone()
	falselist := satsls.NewFalselist()
	sb := satsls.NewScoreboard(formula, assignment, falselist, opts.Mode)

	for flips := 0; flips < opts.MaxFlips; flips++ {
		if falselist.Len() == 0 {
			return Result{Assignment: assignment, Flips: flips, Sat: true, Scoreboard: sb}
		}
		c := falselist.Sample(opts.Rand)
		clause := formula.Clauses[c]

		var v int
		if opts.Rand.Float64() < opts.NoiseProb {
			v = abs(clause[opts.Rand.Intn(len(clause))])
		} else {
			v = bestVarInClause(sb, clause, opts.Mode)
		}
		sb.Flip(v)
	}
	return Result{Assignment: assignment, Flips: opts.MaxFlips, Sat: falselist.Len() == 0, Scoreboard: sb}
}

// bestVarInClause picks the variable from clause whose current score is
// most preferred by mode (max for Diff, min break for BreakOnly), i.e. the
// variable whose flip is predicted to do the least additional damage
// (BreakOnly) or the most net good (Diff). Ties break toward the first
// variable encountered.
func bestVarInClause(sb *satsls.Scoreboard, clause []int, mode satsls.Mode) int {
	best := abs(clause[0])
	bestScore := sb.Score(best)
	for _, lit := range clause[1:] {
		v := abs(lit)
		s := sb.Score(v)
		switch mode {
		case satsls.Diff:
			if s > bestScore {
				best, bestScore = v, s
			}
		case satsls.BreakOnly:
			if s < bestScore {
				best, bestScore = v, s
			}
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
