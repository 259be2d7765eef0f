package satsls

import "math/rand"

// signWeight3 gives the unnormalized weight table w(x) for k=3 clauses,
// where x is the number of literals in a candidate clause that are true
// under the planted witness. Clauses with x == 0 are never candidates
// (they would falsify the witness) and have no entry here.
var signWeight3 = map[int]float64{1: 0.191, 2: 0.118, 3: 0.073}

// GeneratorOptions configures Generate. The zero value selects the
// defaults (k=3, M+1 clauses per the preserved reference off-by-one).
type GeneratorOptions struct {
	// ExactCount, if true, emits exactly floor(ratio*N) clauses instead
	// of the reference implementation's floor(ratio*N)+1. Default false,
	// preserving the original off-by-one for compatibility with existing
	// fixtures.
	ExactCount bool
}

// Generate produces a random planted-satisfiable 3-CNF formula over n
// variables at the given clause/variable ratio, using rng. The returned
// Formula's SatisfyingAssignment is guaranteed to satisfy it; Generate
// panics if the construction fails this guarantee, since that indicates
// an implementation bug rather than a recoverable condition.
//
// With an *rand.Rand constructed from the same seed, Generate is
// deterministic: it draws from rng in a fixed order and never touches the
// package-global math/rand source.
func Generate(n int, ratio float64, rng *rand.Rand, opts GeneratorOptions) *Formula {
	const k = 3
	if n < k {
		panic("satsls: Generate requires at least k variables")
	}
	if ratio <= 0 {
		panic("satsls: Generate requires a positive ratio")
	}
	witness := Random(n, rng)

	m := int(ratio * float64(n))
	count := m + 1
	if opts.ExactCount {
		count = m
	}

	clauses := make([][]int, 0, count)
	vars := make([]int, n)
	for i := range vars {
		vars[i] = i + 1
	}
	for i := 0; i < count; i++ {
		clauses = append(clauses, sampleClause(vars, witness, rng))
	}

	f := FromClauses(clauses, n, witness)
	if !f.IsSatisfiedBy(witness) {
		panic("satsls: generated formula does not satisfy its own witness")
	}
	return f
}

// sampleClause draws k=3 distinct variables uniformly without replacement,
// enumerates all 2^k sign patterns, discards any pattern that would
// falsify witness, and samples one surviving pattern with probability
// proportional to the renormalized sign-weight table.
func sampleClause(vars []int, witness *Assignment, rng *rand.Rand) []int {
	const k = 3
	chosen := choose(vars, k, rng)

	var candidates [][]int
	var weights []float64
	for mask := 0; mask < 1<<k; mask++ {
		cls := make([]int, k)
		x := 0
		for i, v := range chosen {
			lit := v
			if mask&(1<<uint(i)) != 0 {
				lit = -v
			}
			cls[i] = lit
			if witness.IsTrue(lit) {
				x++
			}
		}
		if x == 0 {
			continue
		}
		candidates = append(candidates, cls)
		weights = append(weights, signWeight3[x])
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	pick := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if pick < acc {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// choose draws k distinct elements of vars uniformly without replacement,
// via a partial Fisher-Yates shuffle over the first k positions. The swaps
// reorder vars in place (the slice is a scratch buffer owned by the caller
// across calls), including positions beyond the first k.
func choose(vars []int, k int, rng *rand.Rand) []int {
	n := len(vars)
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		vars[i], vars[j] = vars[j], vars[i]
		out[i] = vars[i]
	}
	return out
}
