// SPDX-License-Identifier: MIT

// Package gf2 provides bit-packed GF(2) vector and matrix primitives: owning
// containers, borrowed views, in-place and three-argument bitwise operations,
// block-level transposition, column swapping, and row echelonization.
//
// Everything is word-packed (64 bits per machine word, LSB-first: bit i of
// word w is (w>>i)&1). A view never copies; it borrows a caller-owned slice
// of words together with a column count and, for matrices, a row stride
// measured in words. Sub-views are produced by re-slicing the backing word
// slice and adjusting stride/cols — never by copying. Column offsets for
// sub-matrix views must be multiples of 64 (one word), so a sub-view's first
// word coincides with a word boundary of the parent.
//
// Every binary operation comes in two forms: an in-place form that mutates
// its first (destination) operand, and a three-argument form that writes a
// fresh result. Bits at column positions >= a vector's Cols() within its
// last word are scratch unless an operation's contract says otherwise (see
// BlockTag).
package gf2
