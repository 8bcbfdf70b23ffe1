// SPDX-License-Identifier: MIT
package gf2

import (
	"errors"
	"fmt"
)

// Sentinel errors for gf2 package operations.
var (
	// ErrInvalidDimensions indicates a requested row/column count is non-positive.
	ErrInvalidDimensions = errors.New("gf2: dimensions must be > 0")

	// ErrDimensionMismatch indicates two operands have incompatible shapes for the operation.
	ErrDimensionMismatch = errors.New("gf2: dimension mismatch")

	// ErrIndexOutOfBounds indicates a row, column, or bit index is outside its valid range.
	ErrIndexOutOfBounds = errors.New("gf2: index out of bounds")

	// ErrUnalignedOffset indicates a sub-view column offset is not a multiple of 64.
	ErrUnalignedOffset = errors.New("gf2: sub-view column offset must be a multiple of 64")

	// ErrAliasedOperands indicates an operation that forbids aliasing (e.g. transpose) was
	// given overlapping source and destination storage.
	ErrAliasedOperands = errors.New("gf2: source and destination must not alias")

	// ErrBorrowed indicates an owning vector or matrix was mutated while an outstanding
	// mutable view existed, violating the borrow discipline of §3.
	ErrBorrowed = errors.New("gf2: owner has an outstanding mutable borrow")
)

// opErrorf wraps an underlying error with method context, matching the teacher's
// denseErrorf convention.
func opErrorf(method string, err error) error {
	return fmt.Errorf("gf2.%s: %w", method, err)
}
