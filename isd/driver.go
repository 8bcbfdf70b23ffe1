// Package isd implements the generic information-set-decoding driver: the
// outer loop that maintains a randomly permuted echelon form of H and hands
// its ISD-side window to a pluggable subisd.SubISD strategy on every
// iteration, checking every candidate the strategy reports until one
// extends to a full weight-w solution.
//
// The driver is generic over the sub-ISD strategy (subisd.SubISD) so the
// strategy's concrete type is known at compile time, the same way the
// reference passes the sub-ISD as a template parameter to avoid a
// virtual-call indirection on its hottest path (see decoding.hpp's
// ISD_target_generic<data_t, subISD_t>).
package isd

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gf2decode/isd/gf2"
	"github.com/gf2decode/isd/isdform"
	"github.com/gf2decode/isd/problem"
	"github.com/gf2decode/isd/subisd"
)

// State is the driver's lifecycle state.
type State int

const (
	StateFresh State = iota
	StateInitialized
	StateLooping
	StateSolved
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateInitialized:
		return "initialized"
	case StateLooping:
		return "looping"
	case StateSolved:
		return "solved"
	default:
		return "unknown"
	}
}

var (
	// ErrWrongState is returned when a method is called out of sequence
	// relative to the FRESH -> INITIALIZED -> LOOPING -> SOLVED lifecycle.
	ErrWrongState = errors.New("isd: operation not valid in current state")
	// ErrNoSolution is returned by GetSolution/CheckSolution before a
	// solution has been found.
	ErrNoSolution = errors.New("isd: no solution available")
	// ErrSolutionInvalid is an internal-invariant error: the driver's own
	// reconstructed solution failed re-verification against (H,S,w).
	ErrSolutionInvalid = errors.New("isd: internal error: reconstructed solution is invalid")
	// ErrInternalCombination is an internal-invariant error: a sub-ISD
	// reported an H2T combination that summed to nonzero on the ℓ low
	// bits, which should be structurally impossible given the form's
	// invariants.
	ErrInternalCombination = errors.New("isd: internal error: H2T combination is nonzero")
)

// Stats counts how many times each driver phase has run. It is a plain
// counter bag, not a timing/statistics package (the reference's
// decoding_statistics/cpucycle_statistic machinery is deliberately not
// ported; see DESIGN.md).
type Stats struct {
	Initialize    int
	PrepareLoop   int
	LoopNext      int
	Solve         int
	Callback      int
	CheckSolution int
}

// Driver is the generic ISD solver, parameterized by the sub-ISD strategy S.
type Driver[S subisd.SubISD] struct {
	sub S
	cfg config
	rng *rand.Rand

	n, k, w int
	hOrg    gf2.Matrix
	sOrg    gf2.Vector

	form *isdform.Form
	c    *gf2.OwnedVector

	sol      []int
	solution *gf2.OwnedVector
	lastErr  error

	state State
	stats Stats
}

// NewDriver constructs a Driver around the given sub-ISD strategy and
// source of randomness, with optional configuration.
func NewDriver[S subisd.SubISD](sub S, rng *rand.Rand, opts ...Option) *Driver[S] {
	return &Driver[S]{sub: sub, cfg: newConfig(opts...), rng: rng, state: StateFresh}
}

// State reports the driver's current lifecycle state.
func (d *Driver[S]) State() State { return d.state }

// Stats returns a snapshot of the driver's phase counters.
func (d *Driver[S]) Stats() Stats { return d.stats }

// Initialize copies (H,S,w), builds the ISD-form state at the configured
// ℓ, and resets any previous solution. Valid from any state.
func (d *Driver[S]) Initialize(H gf2.Matrix, s gf2.Vector, w int) error {
	d.stats.Initialize++

	form, err := isdform.New(H, s, d.cfg.l, d.rng)
	if err != nil {
		return fmt.Errorf("isd.Driver.Initialize: %w", err)
	}

	c, err := gf2.NewOwnedVector(form.S().Cols())
	if err != nil {
		return fmt.Errorf("isd.Driver.Initialize: %w", err)
	}

	d.n = H.Cols()
	d.k = d.n - H.Rows()
	d.w = w
	d.hOrg = H
	d.sOrg = s
	d.form = form
	d.c = c
	d.sol = nil
	d.solution = nil
	d.lastErr = nil
	d.state = StateInitialized
	d.cfg.log.Infof("initialized: n=%d k=%d l=%d w=%d", d.n, d.k, d.cfg.l, d.w)
	return nil
}

// PrepareLoop hands the sub-ISD a view into the current H12ᵀ/S2 window and
// the driver's callback. Valid only from INITIALIZED.
func (d *Driver[S]) PrepareLoop() error {
	if d.state != StateInitialized {
		return fmt.Errorf("isd.Driver.PrepareLoop: %w (in state %s)", ErrWrongState, d.state)
	}
	d.stats.PrepareLoop++

	err := d.sub.Initialize(d.form.H12T(), d.form.H2T().Cols(), d.form.S2(), d.w, d.callback)
	if err != nil {
		return fmt.Errorf("isd.Driver.PrepareLoop: %w", err)
	}
	d.state = StateLooping
	d.cfg.log.Debugf("prepared loop: isdRows=%d echelonRows=%d", d.form.ISDRows(), d.form.EchelonRows())
	return nil
}

// LoopNext swaps u echelon/ISD columns per the configured update strategy,
// re-echelonizes, and runs the sub-ISD over the new window. It returns true
// iff the callback recorded a solution. Valid only from LOOPING.
func (d *Driver[S]) LoopNext() (bool, error) {
	if d.state != StateLooping {
		return false, fmt.Errorf("isd.Driver.LoopNext: %w (in state %s)", ErrWrongState, d.state)
	}
	d.stats.LoopNext++

	if err := d.form.Update(d.cfg.u, d.cfg.updateType); err != nil {
		return false, fmt.Errorf("isd.Driver.LoopNext: %w", err)
	}
	d.sub.Solve()
	if d.lastErr != nil {
		err := d.lastErr
		d.lastErr = nil
		return false, fmt.Errorf("isd.Driver.LoopNext: %w", err)
	}
	if d.solution != nil {
		d.state = StateSolved
		d.cfg.log.Infof("solved after %d loop iterations", d.stats.LoopNext)
		return true, nil
	}
	return false, nil
}

// Solve runs PrepareLoop followed by LoopNext until a solution is found.
func (d *Driver[S]) Solve() error {
	d.stats.Solve++
	if err := d.PrepareLoop(); err != nil {
		return err
	}
	for {
		found, err := d.LoopNext()
		if err != nil {
			return err
		}
		if found {
			return nil
		}
	}
}

// GetSolution returns the found solution. Valid only in SOLVED.
func (d *Driver[S]) GetSolution() (gf2.Vector, error) {
	if d.state != StateSolved || d.solution == nil {
		return gf2.Vector{}, fmt.Errorf("isd.Driver.GetSolution: %w", ErrNoSolution)
	}
	return d.solution.View(), nil
}

// CheckSolution independently re-verifies the found solution against the
// original (H,S,w), the same check the driver performs internally when
// WithVerifySolution is enabled (the default).
func (d *Driver[S]) CheckSolution() (bool, error) {
	d.stats.CheckSolution++
	if d.solution == nil {
		return false, fmt.Errorf("isd.Driver.CheckSolution: %w", ErrNoSolution)
	}
	inst, err := problem.NewInstance(d.hOrg, d.sOrg, d.w)
	if err != nil {
		return false, fmt.Errorf("isd.Driver.CheckSolution: %w", err)
	}
	return problem.CheckSolution(inst, d.solution.View())
}

// callback is handed to the sub-ISD at PrepareLoop time. It accumulates the
// candidate's full weight, and on success reconstructs the solution in the
// original (unpermuted) column coordinates.
func (d *Driver[S]) callback(idx []int, w1partial int) bool {
	d.stats.Callback++

	wsol := w1partial + len(idx)
	if wsol > d.w {
		return true
	}

	s := d.form.S()
	cv := d.c.Mutable()
	var err error
	switch {
	case len(idx) == 0:
		err = gf2.VCopy(cv, s)
	default:
		err = gf2.VXor(cv, s, d.form.H12T().Row(idx[0]))
		for i := 1; err == nil && i < len(idx); i++ {
			err = gf2.VXorInto(cv, d.form.H12T().Row(idx[i]))
		}
	}
	if err != nil {
		d.lastErr = fmt.Errorf("callback: %w", err)
		return false
	}

	wsol = len(idx) + gf2.VHammingWeight(cv.View())
	if wsol > d.w {
		return true
	}

	perm := d.form.Permutation()
	echelonRows := d.form.EchelonRows()
	htCols := d.form.HT().Cols()
	h2tCols := d.form.H2T().Cols()

	sol := make([]int, 0, wsol)
	for _, i := range idx {
		sol = append(sol, perm[echelonRows+i])
	}
	for c := 0; c < htCols; c++ {
		if !cv.GetBit(c) {
			continue
		}
		if c < h2tCols {
			d.lastErr = fmt.Errorf("callback: %w", ErrInternalCombination)
			return false
		}
		sol = append(sol, perm[htCols-1-c])
	}

	solution, err := gf2.NewOwnedVector(d.form.HT().Rows())
	if err != nil {
		d.lastErr = fmt.Errorf("callback: %w", err)
		return false
	}
	mv := solution.Mutable()
	for _, b := range sol {
		mv.SetBit(b)
	}
	d.sol = sol
	d.solution = solution

	if d.cfg.verifySolution {
		d.stats.CheckSolution++
		inst, err := problem.NewInstance(d.hOrg, d.sOrg, d.w)
		if err != nil {
			d.lastErr = fmt.Errorf("callback: %w", err)
			return false
		}
		ok, err := problem.CheckSolution(inst, d.solution.View())
		if err != nil {
			d.lastErr = fmt.Errorf("callback: %w", err)
			return false
		}
		if !ok {
			d.lastErr = fmt.Errorf("callback: %w", ErrSolutionInvalid)
			return false
		}
	}
	return false
}
