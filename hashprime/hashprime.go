// Package hashprime provides fast division and modulo by a fixed prime,
// using a single 64x64->128 multiply and a shift in place of a hardware
// division instruction, plus the integer hash / hash-combine functions used
// to turn column-selection values into hash-table addresses.
package hashprime

import (
	"errors"
	"math/big"
	"math/bits"
)

// ErrNotPositive is returned when a prime or search bound is not positive.
var ErrNotPositive = errors.New("hashprime: value must be positive")

// HashPrime divides and reduces modulo a fixed prime using a precomputed
// multiplier and shift instead of a division instruction. The zero value is
// invalid; construct with New or one of the GetPrimeXX helpers.
type HashPrime struct {
	prime  uint64
	muldiv uint64
	shift  uint
}

// Prime returns the prime this HashPrime reduces modulo.
func (h HashPrime) Prime() uint64 { return h.prime }

// Div returns n / Prime(), computed with one 128-bit multiply and a shift.
func (h HashPrime) Div(n uint64) uint64 {
	hi, _ := bits.Mul64(n, h.muldiv)
	return hi >> h.shift
}

// Mod returns n % Prime(), computed as n - Div(n)*Prime().
func (h HashPrime) Mod(n uint64) uint64 {
	return n - h.Div(n)*h.prime
}

// New builds a HashPrime for p by computing the smallest shift and
// multiplier such that Div reproduces exact unsigned division by p for every
// uint64 input. p is not checked for primality, but callers should pass an
// actual prime to get good distribution out of Mod. Not every modulus admits
// a multiplier that fits in 64 bits (1, 2 and 7 do not, nor do many larger
// primes); New returns an error for those.
func New(p uint64) (HashPrime, error) {
	if p == 0 {
		return HashPrime{}, ErrNotPositive
	}

	bigP := new(big.Int).SetUint64(p)
	one := big.NewInt(1)
	maxUint64 := new(big.Int).Lsh(one, 64)

	// muldiv only grows with shift, so the search ends at the first shift
	// whose multiplier no longer fits in 64 bits.
	for shift := uint(0); ; shift++ {
		// muldiv = floor(2^(64+shift) / p) + 1
		numerator := new(big.Int).Lsh(one, 64+shift)
		muldiv := new(big.Int).Div(numerator, bigP)
		muldiv.Add(muldiv, one)

		if muldiv.Cmp(maxUint64) >= 0 {
			return HashPrime{}, errors.New("hashprime: no 64-bit multiplier for this modulus")
		}
		// verify correctness at the two boundary points that can fail:
		// the largest uint64 value, and the largest exact multiple of p.
		hp := HashPrime{prime: p, muldiv: muldiv.Uint64(), shift: shift}
		if hp.verifiesAgainst(bigP) {
			return hp, nil
		}
	}
}

// verifiesAgainst checks Div/Mod correctness on boundary values: the all-ones
// uint64, and every multiple of p near the top of the uint64 range.
func (h HashPrime) verifiesAgainst(bigP *big.Int) bool {
	p := h.prime
	maxN := uint64(0xFFFFFFFFFFFFFFFF)
	if h.Div(maxN) != maxN/p {
		return false
	}
	// check a handful of multiples of p near the range boundary, where
	// rounding errors in the approximate multiplier are most likely to show.
	k := maxN / p
	for i := uint64(0); i < 4 && k >= i; i++ {
		n := (k - i) * p
		if h.Div(n) != n/p {
			return false
		}
		if n+p-1 >= n && h.Div(n+p-1) != (n+p-1)/p {
			return false
		}
	}
	return true
}

// isPrime is a simple deterministic Miller-Rabin test, adequate for the
// small (<2^50) search space hash table sizing needs.
func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for _, p := range []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		if n == p {
			return true
		}
		if n%p == 0 {
			return false
		}
	}
	d := n - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}
	witnesses := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}
	bigN := new(big.Int).SetUint64(n)
	bigD := new(big.Int).SetUint64(d)
	for _, a := range witnesses {
		if a >= n {
			continue
		}
		x := new(big.Int).Exp(big.NewInt(int64(a)), bigD, bigN)
		if x.Cmp(one1) == 0 || x.Cmp(new(big.Int).Sub(bigN, one1)) == 0 {
			continue
		}
		composite := true
		for i := 0; i < r-1; i++ {
			x.Mul(x, x)
			x.Mod(x, bigN)
			if x.Cmp(new(big.Int).Sub(bigN, one1)) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

var one1 = big.NewInt(1)

// GetPrimeGE returns the smallest HashPrime with Prime() >= n, skipping
// primes for which New finds no 64-bit multiplier.
func GetPrimeGE(n uint64) (HashPrime, error) {
	if n == 0 {
		return HashPrime{}, ErrNotPositive
	}
	for p := n; ; p++ {
		if !isPrime(p) {
			continue
		}
		if hp, err := New(p); err == nil {
			return hp, nil
		}
	}
}

// GetPrimeGT returns the smallest HashPrime with Prime() > n.
func GetPrimeGT(n uint64) (HashPrime, error) {
	return GetPrimeGE(n + 1)
}

// GetPrimeLE returns the largest HashPrime with Prime() <= n, by scanning
// downward from n and skipping primes for which New finds no 64-bit
// multiplier.
func GetPrimeLE(n uint64) (HashPrime, error) {
	for p := n; p >= 2; p-- {
		if !isPrime(p) {
			continue
		}
		if hp, err := New(p); err == nil {
			return hp, nil
		}
	}
	return HashPrime{}, ErrNotPositive
}

// GetPrimeLT returns the largest HashPrime with Prime() < n.
func GetPrimeLT(n uint64) (HashPrime, error) {
	if n == 0 {
		return HashPrime{}, ErrNotPositive
	}
	return GetPrimeLE(n - 1)
}

// Hash returns the identity hash of x: ISD addresses are already
// well-distributed linear-algebra byproducts, so no avalanche mixing is
// needed for a single value.
func Hash(x uint64) uint64 { return x }

// HashCombine folds a second hashed value y into an existing hash x using
// fixed odd multipliers, for building addresses out of several column
// values at once.
func HashCombine(x, y uint64) uint64 {
	return 4611686018427388039*x + 268435459*y + 2147483659
}
