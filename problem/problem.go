// Package problem defines the Syndrome Decoding Problem instance type and
// the standalone solution checker used both by the driver's internal
// verification step and by callers who just want to sanity-check a
// candidate error vector against H and S.
package problem

import (
	"errors"
	"fmt"

	"github.com/gf2decode/isd/gf2"
)

// ErrDimensionMismatch is returned when H, S, and a candidate e do not agree
// on column/row counts.
var ErrDimensionMismatch = errors.New("problem: dimension mismatch")

// Instance is a syndrome decoding problem: find e with Hamming weight <= w
// such that H*e^T = S.
type Instance struct {
	H gf2.Matrix
	S gf2.Vector
	W int
}

// NewInstance validates and wraps H, S, and the target weight w into an
// Instance. H has (n-k) rows and n columns; S must have n-k columns (one
// entry per row of H).
func NewInstance(H gf2.Matrix, S gf2.Vector, w int) (Instance, error) {
	if H.Rows() != S.Cols() {
		return Instance{}, fmt.Errorf("problem.NewInstance: %w", ErrDimensionMismatch)
	}
	return Instance{H: H, S: S, W: w}, nil
}

// CheckSolution reports whether e is a valid solution to inst: e has at most
// inst.W set bits and inst.H * e^T equals inst.S.
func CheckSolution(inst Instance, e gf2.Vector) (bool, error) {
	if e.Cols() != inst.H.Cols() {
		return false, fmt.Errorf("problem.CheckSolution: %w", ErrDimensionMismatch)
	}
	if e.HammingWeight() > inst.W {
		return false, nil
	}
	acc, err := gf2.NewOwnedVector(inst.H.Rows())
	if err != nil {
		return false, err
	}
	accv := acc.Mutable()
	rows := inst.H.RowIter()
	for r := 0; r < inst.H.Rows(); r++ {
		row := rows.Row(r)
		parity := false
		for c := 0; c < e.Cols(); c++ {
			if row.GetBit(c) && e.GetBit(c) {
				parity = !parity
			}
		}
		if parity {
			accv.SetBit(r)
		}
	}
	for r := 0; r < inst.H.Rows(); r++ {
		if accv.GetBit(r) != inst.S.GetBit(r) {
			return false, nil
		}
	}
	return true, nil
}
