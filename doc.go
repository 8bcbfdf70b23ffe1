// Package isd (module github.com/gf2decode/isd) is a solver for the
// Syndrome Decoding Problem over GF(2): given a parity-check matrix H, a
// target syndrome S, and a weight bound w, find an error vector e of
// Hamming weight at most w such that H*e^T = S.
//
// The solver is built from a small stack of subpackages:
//
//	gf2/     — word-packed GF(2) vectors and matrices (view/owner split)
//	rng/     — seeded randomness with independent per-component substreams
//	enumerate/ — cumulative fixed-weight index-combination enumeration
//	bitfield/  — staged bitfield filters used by the Stern/Dumer strategy
//	hashprime/ — prime sizing for open-addressed hash tables
//	cmap/      — a packed-key hash multimap used by Stern/Dumer
//	problem/   — Instance construction and solution verification
//	isdform/   — the (H|S)^T information-set working form and its row updates
//	subisd/    — pluggable sub-ISD strategies: Prange, Lee-Brickell,
//	             Stern/Dumer, MMT, and an experimental Sieving variant
//	isd/       — the generic driver tying a sub-ISD strategy to isdform
//	isdlog/    — a minimal leveled wrapper around the standard log package
//
// A typical caller builds a Driver over one sub-ISD strategy and drives it
// to completion:
//
//	d := isd.NewDriver[*subisd.LeeBrickell](subisd.NewLeeBrickell(p), rng, isd.WithL(l))
//	if err := d.Initialize(H, S, w); err != nil { ... }
//	if err := d.Solve(); err != nil { ... }
//	e, err := d.GetSolution()
package isd
