package subisd

import (
	"fmt"
	"math/bits"

	"github.com/gf2decode/isd/enumerate"
	"github.com/gf2decode/isd/gf2"
)

// LeeBrickell enumerates every combination of at most p row indices of H2T
// whose XOR equals S2, returning each as a candidate along with the weight
// contributed by the columns outside the l-bit window.
type LeeBrickell struct {
	p int

	h12t gf2.Matrix
	s2   gf2.Vector
	cb   Callback

	rows, words             int
	firstWordMask, padMask  uint64
	sVal                    uint64
	firstWords              []uint64
}

// NewLeeBrickell constructs a Lee-Brickell strategy with combination size p.
func NewLeeBrickell(p int) *LeeBrickell {
	return &LeeBrickell{p: p}
}

// Initialize implements SubISD.
func (lb *LeeBrickell) Initialize(h12t gf2.Matrix, h2tColumns int, s2 gf2.Vector, _ int, cb Callback) error {
	if lb.p == 0 {
		return fmt.Errorf("subisd.LeeBrickell.Initialize: %w (p=0 unsupported)", ErrUnsupportedP)
	}
	words := numWords(h2tColumns)
	if words > 1 {
		return fmt.Errorf("subisd.LeeBrickell.Initialize: %w (l>64 unsupported)", ErrUnsupportedL)
	}
	lb.h12t = h12t
	lb.s2 = s2
	lb.cb = cb
	lb.rows = h12t.Rows()
	lb.words = words
	lb.firstWordMask = lastWordMask(h2tColumns)
	lb.padMask = ^lb.firstWordMask
	return nil
}

// PrepareLoop implements SubISD.
func (lb *LeeBrickell) PrepareLoop() {
	lb.firstWords = make([]uint64, lb.rows)
	if lb.words > 0 {
		for i := 0; i < lb.rows; i++ {
			lb.firstWords[i] = lb.h12t.Row(i).Words()[0]
		}
		lb.sVal = lb.s2.Words()[0] & lb.firstWordMask
	}
}

// LoopNext implements SubISD.
func (lb *LeeBrickell) LoopNext() bool {
	if lb.words == 0 {
		// l=0: no H2T constraint to filter on, every combination is a
		// candidate and the driver computes the full weight itself.
		_ = enumerate.Enumerate(lb.firstWords, lb.p, func(idx []int, _ uint64) bool {
			return lb.cb(idx, 0)
		})
		return false
	}
	_ = enumerate.Enumerate(lb.firstWords, lb.p, func(idx []int, val uint64) bool {
		if val&lb.firstWordMask != lb.sVal {
			return true
		}
		w1 := bits.OnesCount64((val ^ lb.s2.Words()[0]) & lb.padMask)
		return lb.cb(idx, w1)
	})
	return false
}

// Solve implements SubISD.
func (lb *LeeBrickell) Solve() {
	lb.PrepareLoop()
	lb.LoopNext()
}
