package subisd

import (
	"fmt"

	"github.com/gf2decode/isd/gf2"
)

// Prange is the degenerate subISD strategy: it contributes nothing beyond
// the echelon form itself, firing the callback exactly once with an empty
// index set so the driver checks the syndrome column alone. It only makes
// sense with l=0 (no H2T columns at all).
type Prange struct {
	cb Callback
}

// NewPrange constructs a Prange strategy.
func NewPrange() *Prange {
	return &Prange{}
}

// Initialize implements SubISD.
func (p *Prange) Initialize(_ gf2.Matrix, h2tColumns int, _ gf2.Vector, _ int, cb Callback) error {
	if h2tColumns != 0 {
		return fmt.Errorf("subisd.Prange.Initialize: %w (requires l=0)", ErrUnsupportedL)
	}
	p.cb = cb
	return nil
}

// PrepareLoop implements SubISD; Prange keeps no per-iteration state.
func (p *Prange) PrepareLoop() {}

// LoopNext implements SubISD.
func (p *Prange) LoopNext() bool {
	p.cb(nil, 0)
	return false
}

// Solve implements SubISD.
func (p *Prange) Solve() {
	p.LoopNext()
}
