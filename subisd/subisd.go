// Package subisd provides the pluggable inner enumeration strategies that
// plug into the outer information-set-decoding driver. Each strategy is
// handed the ISD-side columns of H (H12T), the number of those columns that
// fall in the l-bit "free" window (H2T), the target partial syndrome S2, and
// a maximum weight, and is expected to call back with every combination of
// row indices whose XOR plausibly extends to a full-weight solution.
//
// The split mirrors the reference decoder's subISDT_API: an outer driver
// (see package isd) owns the echelon form and column permutation, while a
// subISD here only ever sees the small H12T/S2 window and a flat list of
// row indices.
package subisd

import (
	"errors"

	"github.com/gf2decode/isd/gf2"
)

// ErrUnsupportedL is returned by Initialize when l (the H2T column count)
// falls outside a strategy's supported range.
var ErrUnsupportedL = errors.New("subisd: l value not supported by this strategy")

// ErrUnsupportedP is returned by Initialize when p (the combination size
// parameter) falls outside a strategy's supported range.
var ErrUnsupportedP = errors.New("subisd: p value not supported by this strategy")

// Callback is invoked once per candidate combination of ISD row indices.
// idx holds the (absolute, 0-based within H12T) row indices XORed together;
// w1partial is the Hamming weight already known to contribute from the
// strategy's own bookkeeping (0 when the strategy leaves that computation
// to the driver). Returning false asks the strategy to stop searching.
type Callback func(idx []int, w1partial int) bool

// SubISD is a pluggable inner search strategy. Initialize is called once
// per outer echelon form; PrepareLoop resets any per-iteration state (fresh
// random splits, cleared hash tables); LoopNext runs one search pass and
// returns whether it is internally exhausted (strategies here are
// stateless across iterations and always return false, matching the
// reference's "subISD never stops the outer loop by itself" contract);
// Solve runs PrepareLoop followed by a single LoopNext, for standalone use
// outside the driver.
type SubISD interface {
	Initialize(h12t gf2.Matrix, h2tColumns int, s2 gf2.Vector, w int, cb Callback) error
	PrepareLoop()
	LoopNext() bool
	Solve()
}

// numWords returns the number of 64-bit words needed to hold cols bits,
// following the reference's (columns+63)/64.
func numWords(cols int) int {
	return (cols + 63) / 64
}

// lastWordMask returns a mask with the low (cols mod 64) bits set, all bits
// set when cols is a positive multiple of 64. Matches gf2's private helper
// of the same contract; duplicated here since subisd has no need for the
// rest of gf2's internals and the contract is one line.
func lastWordMask(cols int) uint64 {
	rem := cols % 64
	if rem == 0 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(rem)) - 1
}

// packIndices packs up to 4 row indices into a uint64, 16 bits each, with
// unused high slots left as all-ones so unpackIndices can find the end.
// Mirrors the reference's pack_indices/unpack_indices pair used by
// Stern/Dumer and MMT to store combination indices as hash-map payloads.
func packIndices(idx []int) uint64 {
	x := ^uint64(0)
	for _, v := range idx {
		x <<= 16
		x |= uint64(uint16(v))
	}
	return x
}

// unpackIndices reverses packIndices, reading up to max indices and
// stopping at the first all-ones sentinel slot.
func unpackIndices(x uint64, max int) []int {
	out := make([]int, 0, max)
	for i := 0; i < max; i++ {
		y := uint16(x & 0xFFFF)
		if y == 0xFFFF {
			break
		}
		out = append(out, int(y))
		x >>= 16
	}
	return out
}
