package satsls

import (
	"math/big"
	"math/rand"
	"testing"
)

func newScoreboard(t *testing.T, clauses [][]int, n int, number int64, mode Mode) (*Scoreboard, *Assignment, *Falselist) {
	t.Helper()
	f := FromClauses(clauses, n, nil)
	a := New(big.NewInt(number), n)
	fl := NewFalselist()
	sb := NewScoreboard(f, a, fl, mode)
	return sb, a, fl
}

// S1: single clause, all false.
func TestScoreboardS1(t *testing.T) {
	sb, _, fl := newScoreboard(t, [][]int{{1, 2, 3}}, 3, 0, Diff)
	if fl.Len() != 1 || !fl.Contains(0) {
		t.Fatalf("expected falselist = {0}, got len=%d", fl.Len())
	}
	if sb.NumTrueLit(0) != 0 {
		t.Fatalf("NumTrueLit(0) = %d, want 0", sb.NumTrueLit(0))
	}
	for v, want := range map[int]int{1: 1, 2: 1, 3: 1} {
		if got := sb.Score(v); got != want {
			t.Errorf("Score(%d) = %d, want %d", v, got, want)
		}
	}
	if best, _ := sb.BestBucket(); best != 1 {
		t.Fatalf("bestScore = %d, want 1", best)
	}

	sb.Flip(1)
	if fl.Len() != 0 {
		t.Fatalf("expected empty falselist after Flip(1), got len=%d", fl.Len())
	}
	if sb.NumTrueLit(0) != 1 {
		t.Fatalf("NumTrueLit(0) = %d, want 1", sb.NumTrueLit(0))
	}
	if sb.CritVar(0) != 1 {
		t.Fatalf("CritVar(0) = %d, want 1", sb.CritVar(0))
	}
	for v, want := range map[int]int{1: -1, 2: 0, 3: 0} {
		if got := sb.Score(v); got != want {
			t.Errorf("Score(%d) = %d, want %d", v, got, want)
		}
	}
	if best, _ := sb.BestBucket(); best != 0 {
		t.Fatalf("bestScore = %d, want 0", best)
	}
	if err := sb.SelfTest(); err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
}

// S2: unit transition.
func TestScoreboardS2(t *testing.T) {
	sb, _, fl := newScoreboard(t, [][]int{{1, 2}, {-1, 2}}, 2, 0b01, Diff)
	if sb.NumTrueLit(0) != 1 || sb.NumTrueLit(1) != 0 {
		t.Fatalf("numTrueLit = [%d %d], want [1 0]", sb.NumTrueLit(0), sb.NumTrueLit(1))
	}
	if sb.CritVar(0) != 1 {
		t.Fatalf("CritVar(0) = %d, want 1", sb.CritVar(0))
	}
	if fl.Len() != 1 || !fl.Contains(1) {
		t.Fatalf("expected falselist = {1}")
	}
	if got := sb.Score(1); got != 0 {
		t.Fatalf("Score(1) = %d, want 0", got)
	}
	if got := sb.Score(2); got != 1 {
		t.Fatalf("Score(2) = %d, want 1", got)
	}
	best, bucket := sb.BestBucket()
	if best != 1 || len(bucket) != 1 || bucket[0] != 2 {
		t.Fatalf("BestBucket = (%d, %v), want (1, [2])", best, bucket)
	}
	if err := sb.SelfTest(); err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
}

// S3: flip involution.
func TestScoreboardS3FlipInvolution(t *testing.T) {
	sb, a, fl := newScoreboard(t, [][]int{{1, 2}, {-1, 2}}, 2, 0b01, Diff)
	preAssignment := a.Clone()
	preScores := map[int]int{1: sb.Score(1), 2: sb.Score(2)}
	preFalse := snapshotFalselist(fl)
	preBest, _ := sb.BestBucket()

	sb.Flip(2)
	sb.Flip(2)

	if !a.Equal(preAssignment) {
		t.Fatal("assignment not restored after double flip")
	}
	for v, want := range preScores {
		if got := sb.Score(v); got != want {
			t.Errorf("Score(%d) = %d, want %d (pre-flip)", v, got, want)
		}
	}
	if got := snapshotFalselist(fl); !sameSet(got, preFalse) {
		t.Fatalf("falselist not restored: got %v, want %v", got, preFalse)
	}
	if best, _ := sb.BestBucket(); best != preBest {
		t.Fatalf("bestScore = %d, want %d", best, preBest)
	}
	if err := sb.SelfTest(); err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
}

func snapshotFalselist(fl *Falselist) []int {
	var xs []int
	fl.Each(func(x int) { xs = append(xs, x) })
	return xs
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	ma := make(map[int]int)
	for _, x := range a {
		ma[x]++
	}
	for _, x := range b {
		ma[x]--
	}
	for _, c := range ma {
		if c != 0 {
			return false
		}
	}
	return true
}

func TestScoreboardRandomFlipSequenceSelfConsistent(t *testing.T) {
	for _, mode := range []Mode{Diff, BreakOnly} {
		for seed := int64(0); seed < 20; seed++ {
			rng := rand.New(rand.NewSource(seed))
			n := 6
			clauses := randomClauses(rng, n, 15)
			f := FromClauses(clauses, n, nil)
			a := Random(n, rng)
			fl := NewFalselist()
			sb := NewScoreboard(f, a, fl, mode)
			if err := sb.SelfTest(); err != nil {
				t.Fatalf("mode=%v seed=%d: initial SelfTest: %v", mode, seed, err)
			}
			for i := 0; i < 50; i++ {
				v := rng.Intn(n) + 1
				sb.Flip(v)
				if err := sb.SelfTest(); err != nil {
					t.Fatalf("mode=%v seed=%d flip#%d(v=%d): %v", mode, seed, i, v, err)
				}
			}
		}
	}
}

func TestScoreboardFlipInvolutionRandomized(t *testing.T) {
	for _, mode := range []Mode{Diff, BreakOnly} {
		rng := rand.New(rand.NewSource(7))
		n := 8
		clauses := randomClauses(rng, n, 20)
		f := FromClauses(clauses, n, nil)
		a := Random(n, rng)
		fl := NewFalselist()
		sb := NewScoreboard(f, a, fl, mode)

		for v := 1; v <= n; v++ {
			before := a.Clone()
			beforeScores := make([]int, n+1)
			for i := 1; i <= n; i++ {
				beforeScores[i] = sb.Score(i)
			}
			beforeFalse := snapshotFalselist(fl)

			sb.Flip(v)
			sb.Flip(v)

			if !a.Equal(before) {
				t.Fatalf("mode=%v var=%d: assignment not restored", mode, v)
			}
			for i := 1; i <= n; i++ {
				if sb.Score(i) != beforeScores[i] {
					t.Fatalf("mode=%v var=%d: score[%d] = %d, want %d", mode, v, i, sb.Score(i), beforeScores[i])
				}
			}
			if !sameSet(snapshotFalselist(fl), beforeFalse) {
				t.Fatalf("mode=%v var=%d: falselist not restored", mode, v)
			}
			if err := sb.SelfTest(); err != nil {
				t.Fatalf("mode=%v var=%d: SelfTest: %v", mode, v, err)
			}
		}
	}
}

func TestScoreboardBestBucketMaximalityAcrossFlips(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 10
	clauses := randomClauses(rng, n, 25)
	f := FromClauses(clauses, n, nil)
	a := Random(n, rng)
	fl := NewFalselist()
	sb := NewScoreboard(f, a, fl, BreakOnly)

	for i := 0; i < 100; i++ {
		v := rng.Intn(n) + 1
		sb.Flip(v)
		best, bucket := sb.BestBucket()
		if len(bucket) == 0 {
			t.Fatalf("flip#%d: bestBucket empty at bestScore=%d", i, best)
		}
		for _, x := range bucket {
			if sb.Score(x) != best {
				t.Fatalf("flip#%d: var %d in bucket %d but has score %d", i, x, best, sb.Score(x))
			}
		}
	}
}

func randomClauses(rng *rand.Rand, n, numClauses int) [][]int {
	clauses := make([][]int, numClauses)
	for i := range clauses {
		length := rng.Intn(3) + 1
		cls := make([]int, length)
		for j := range cls {
			v := rng.Intn(n) + 1
			if rng.Intn(2) == 0 {
				v = -v
			}
			cls[j] = v
		}
		clauses[i] = cls
	}
	return clauses
}

func TestScoreboardPanicsOnWidthMismatch(t *testing.T) {
	f := FromClauses([][]int{{1, 2}}, 2, nil)
	a := New(big.NewInt(0), 3)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on width mismatch")
		}
	}()
	NewScoreboard(f, a, NewFalselist(), Diff)
}
