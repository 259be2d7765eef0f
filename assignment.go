package satsls

import (
	"math/big"
	"math/bits"
	"math/rand"
)

// An Assignment is a packed truth assignment over variables 1..N.
//
// The zero value is not usable; construct one with New or Random. Once
// constructed, an Assignment's length is fixed for its lifetime.
type Assignment struct {
	n     int
	words []uint64
}

// New returns an Assignment of width n whose bit i (0-indexed, so variable
// i+1) equals bit i of number, extended with false beyond number's bit
// length.
func New(number *big.Int, n int) *Assignment {
	if n <= 0 {
		panic("satsls: Assignment width must be positive")
	}
	a := &Assignment{n: n, words: make([]uint64, wordsFor(n))}
	if number == nil {
		return a
	}
	if number.Sign() < 0 {
		panic("satsls: Assignment number must be non-negative")
	}
	bitLen := number.BitLen()
	for i := 0; i < bitLen && i < n; i++ {
		if number.Bit(i) == 1 {
			a.setBit(i)
		}
	}
	return a
}

// Random draws a uniform integer in [0, 2^n) from rng and returns the
// Assignment it encodes.
func Random(n int, rng *rand.Rand) *Assignment {
	if n <= 0 {
		panic("satsls: Assignment width must be positive")
	}
	a := &Assignment{n: n, words: make([]uint64, wordsFor(n))}
	for i := range a.words {
		a.words[i] = rng.Uint64()
	}
	a.maskTail()
	return a
}

func wordsFor(n int) int { return (n + 63) / 64 }

func (a *Assignment) maskTail() {
	if a.n%64 == 0 {
		return
	}
	last := len(a.words) - 1
	a.words[last] &= (uint64(1) << uint(a.n%64)) - 1
}

func (a *Assignment) setBit(i int)   { a.words[i/64] |= uint64(1) << uint(i%64) }
func (a *Assignment) clearBit(i int) { a.words[i/64] &^= uint64(1) << uint(i%64) }
func (a *Assignment) bit(i int) bool { return a.words[i/64]&(uint64(1)<<uint(i%64)) != 0 }

// N returns the width of the assignment.
func (a *Assignment) N() int { return a.n }

func (a *Assignment) checkVar(v int) {
	if v < 1 || v > a.n {
		panic("satsls: variable out of range")
	}
}

// Value reports the current truth value of variable v.
func (a *Assignment) Value(v int) bool {
	a.checkVar(v)
	return a.bit(v - 1)
}

// Flip toggles the value of variable v in place.
func (a *Assignment) Flip(v int) {
	a.checkVar(v)
	i := v - 1
	if a.bit(i) {
		a.clearBit(i)
	} else {
		a.setBit(i)
	}
}

// IsTrue reports whether literal lit is satisfied under the assignment.
// lit must be nonzero and |lit| <= N.
func (a *Assignment) IsTrue(lit int) bool {
	if lit == 0 {
		panic("satsls: literal must not be zero")
	}
	v := lit
	neg := false
	if v < 0 {
		v, neg = -v, true
	}
	a.checkVar(v)
	val := a.bit(v - 1)
	if neg {
		return !val
	}
	return val
}

// Hamming returns the Hamming distance between a and other, the number of
// variables on which they disagree. Both assignments must have equal N.
func (a *Assignment) Hamming(other *Assignment) int {
	if a.n != other.n {
		panic("satsls: Hamming requires equal-width assignments")
	}
	dist := 0
	for i := range a.words {
		dist += bits.OnesCount64(a.words[i] ^ other.words[i])
	}
	return dist
}

// Clone returns an independent copy of a.
func (a *Assignment) Clone() *Assignment {
	words := make([]uint64, len(a.words))
	copy(words, a.words)
	return &Assignment{n: a.n, words: words}
}

// Equal reports whether a and other have the same width and the same bits.
func (a *Assignment) Equal(other *Assignment) bool {
	if a.n != other.n {
		return false
	}
	for i := range a.words {
		if a.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Int returns the assignment's bits as a non-negative big.Int, bit i (LSB
// first) equal to variable i+1's value.
func (a *Assignment) Int() *big.Int {
	x := new(big.Int)
	for i := 0; i < a.n; i++ {
		if a.bit(i) {
			x.SetBit(x, i, 1)
		}
	}
	return x
}

// String renders the assignment as a hexadecimal integer with a "0x"
// prefix, as used in the "c assgn 0x..." DIMACS comment.
func (a *Assignment) String() string {
	return "0x" + a.Int().Text(16)
}
