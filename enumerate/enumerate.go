// Package enumerate walks all size-p XOR combinations of a slice of packed
// column values (p in 1..4), in the split-loop order used by the sub-ISD
// enumerators: the combination index space is partitioned so that the
// innermost loop is as large as possible, which keeps the XOR accumulator
// warm across iterations.
//
// Two families are provided: the *Val functions call back with only the
// combined value, for callers that don't need to know which columns were
// combined; the plain functions additionally pass the selected indices.
// Every callback returns bool: true continues enumeration, false stops it
// early. ValueFunc wraps a void-style callback so it always continues.
package enumerate

import "fmt"

// ValueFunc adapts a callback with no early-stop signal into a
// func(val uint64) bool that always requests continuation.
func ValueFunc(f func(val uint64)) func(val uint64) bool {
	return func(val uint64) bool {
		f(val)
		return true
	}
}

// IndexFunc adapts a callback with no early-stop signal into a
// func(idx []int, val uint64) bool that always requests continuation.
func IndexFunc(f func(idx []int, val uint64)) func(idx []int, val uint64) bool {
	return func(idx []int, val uint64) bool {
		f(idx, val)
		return true
	}
}

// Enumerate1Val calls f once per element of vals.
func Enumerate1Val(vals []uint64, f func(val uint64) bool) {
	for _, v := range vals {
		if !f(v) {
			return
		}
	}
}

// Enumerate2Val calls f once for every unordered pair's XOR, excluding the
// singleton terms.
func Enumerate2Val(vals []uint64, f func(val uint64) bool) {
	n := len(vals)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !f(vals[i] ^ vals[j]) {
				return
			}
		}
	}
}

// Enumerate12Val calls f once per singleton, then once per unordered pair's
// XOR.
func Enumerate12Val(vals []uint64, f func(val uint64) bool) {
	n := len(vals)
	if n < 1 {
		return
	}
	for i := 0; i < n; i++ {
		if !f(vals[i]) {
			return
		}
		for j := i + 1; j < n; j++ {
			if !f(vals[i] ^ vals[j]) {
				return
			}
		}
	}
}

// Enumerate3Val calls f once per unordered triple's XOR.
func Enumerate3Val(vals []uint64, f func(val uint64) bool) {
	n := len(vals)
	if n < 3 {
		return
	}
	mid := n / 2
	// first half: fix the 2nd index below mid, innermost loop is the 3rd index
	for i2 := 1; i2 < mid; i2++ {
		for i1 := 0; i1 < i2; i1++ {
			val := vals[i2] ^ vals[i1]
			for i3 := i2 + 1; i3 < n; i3++ {
				if !f(val ^ vals[i3]) {
					return
				}
			}
		}
	}
	// second half: fix the 2nd index from mid onward, innermost loop is the 1st index
	for i2 := mid; i2 < n-1; i2++ {
		for i3 := i2 + 1; i3 < n; i3++ {
			val := vals[i2] ^ vals[i3]
			for i1 := 0; i1 < i2; i1++ {
				if !f(val ^ vals[i1]) {
					return
				}
			}
		}
	}
}

// splitPoint4 returns the boundary between the two halves of a 4-combination
// enumeration: the 2nd index runs up to min(32, count/3) in the first half.
func splitPoint4(n int) int {
	m := n / 3
	if m > 32 {
		m = 32
	}
	return m
}

// Enumerate4Val calls f once per unordered 4-tuple's XOR.
func Enumerate4Val(vals []uint64, f func(val uint64) bool) {
	n := len(vals)
	if n < 4 {
		return
	}
	mid := splitPoint4(n)
	// first half: fix the 2nd index below mid; innermost loop is the 4th index
	for i2 := 1; i2 < mid; i2++ {
		for i1 := 0; i1 < i2; i1++ {
			for i3 := i2 + 1; i3 < n-1; i3++ {
				val := vals[i1] ^ vals[i2] ^ vals[i3]
				for i4 := i3 + 1; i4 < n; i4++ {
					if !f(val ^ vals[i4]) {
						return
					}
				}
			}
		}
	}
	// second half: fix the 2nd index from mid onward; innermost loop is the 1st index
	for i2 := mid; i2 < n-2; i2++ {
		for i3 := i2 + 1; i3 < n-1; i3++ {
			for i4 := i3 + 1; i4 < n; i4++ {
				val := vals[i2] ^ vals[i3] ^ vals[i4]
				for i1 := 0; i1 < i2; i1++ {
					if !f(val ^ vals[i1]) {
						return
					}
				}
			}
		}
	}
}

// EnumerateVal dispatches by p, cumulatively covering every combination size
// up to p: p==1 visits singletons only; p==2 visits singletons and pairs
// (Enumerate12Val); p==3 additionally visits triples; p==4 additionally
// visits 4-tuples. p must be in 1..4.
func EnumerateVal(vals []uint64, p int, f func(val uint64) bool) error {
	stopped := false
	g := func(val uint64) bool {
		if !f(val) {
			stopped = true
		}
		return !stopped
	}
	switch p {
	case 1:
		Enumerate1Val(vals, f)
		return nil
	case 4:
		Enumerate4Val(vals, g)
		if stopped {
			return nil
		}
		fallthrough
	case 3:
		Enumerate3Val(vals, g)
		if stopped {
			return nil
		}
		fallthrough
	case 2:
		Enumerate12Val(vals, g)
	default:
		return fmt.Errorf("enumerate.EnumerateVal: unsupported p=%d (want 1<=p<=4)", p)
	}
	return nil
}

// Enumerate1 calls f once per element of vals, passing its single-element
// index slice.
func Enumerate1(vals []uint64, f func(idx []int, val uint64) bool) {
	idx := make([]int, 1)
	for i, v := range vals {
		idx[0] = i
		if !f(idx, v) {
			return
		}
	}
}

// Enumerate12 calls f once per singleton and once per unordered pair's XOR,
// passing the contributing indices.
func Enumerate12(vals []uint64, f func(idx []int, val uint64) bool) {
	n := len(vals)
	if n < 1 {
		return
	}
	idx1 := make([]int, 1)
	idx2 := make([]int, 2)
	for i := 0; i < n; i++ {
		idx1[0] = i
		if !f(idx1, vals[i]) {
			return
		}
		idx2[0] = i
		for j := i + 1; j < n; j++ {
			idx2[1] = j
			if !f(idx2, vals[i]^vals[j]) {
				return
			}
		}
	}
}

// Enumerate2 calls f once per unordered pair's XOR, passing the contributing
// indices.
func Enumerate2(vals []uint64, f func(idx []int, val uint64) bool) {
	n := len(vals)
	if n < 2 {
		return
	}
	idx := make([]int, 2)
	for i := 0; i < n; i++ {
		idx[0] = i
		for j := i + 1; j < n; j++ {
			idx[1] = j
			if !f(idx, vals[i]^vals[j]) {
				return
			}
		}
	}
}

// Enumerate3 calls f once per unordered triple's XOR, passing the
// contributing indices in increasing order.
func Enumerate3(vals []uint64, f func(idx []int, val uint64) bool) {
	n := len(vals)
	if n < 3 {
		return
	}
	mid := n / 2
	idx := make([]int, 3)
	for i2 := 1; i2 < mid; i2++ {
		idx[1] = i2
		for i1 := 0; i1 < i2; i1++ {
			idx[0] = i1
			val := vals[i2] ^ vals[i1]
			for i3 := i2 + 1; i3 < n; i3++ {
				idx[2] = i3
				if !f(idx, val^vals[i3]) {
					return
				}
			}
		}
	}
	for i2 := mid; i2 < n-1; i2++ {
		idx[1] = i2
		for i3 := i2 + 1; i3 < n; i3++ {
			idx[2] = i3
			val := vals[i2] ^ vals[i3]
			for i1 := 0; i1 < i2; i1++ {
				idx[0] = i1
				if !f(idx, val^vals[i1]) {
					return
				}
			}
		}
	}
}

// Enumerate4 calls f once per unordered 4-tuple's XOR, passing the
// contributing indices in increasing order.
func Enumerate4(vals []uint64, f func(idx []int, val uint64) bool) {
	n := len(vals)
	if n < 4 {
		return
	}
	mid := splitPoint4(n)
	idx := make([]int, 4)
	for i2 := 1; i2 < mid; i2++ {
		idx[1] = i2
		for i1 := 0; i1 < i2; i1++ {
			idx[0] = i1
			for i3 := i2 + 1; i3 < n-1; i3++ {
				idx[2] = i3
				val := vals[i1] ^ vals[i2] ^ vals[i3]
				for i4 := i3 + 1; i4 < n; i4++ {
					idx[3] = i4
					if !f(idx, val^vals[i4]) {
						return
					}
				}
			}
		}
	}
	for i2 := mid; i2 < n-2; i2++ {
		idx[1] = i2
		for i3 := i2 + 1; i3 < n-1; i3++ {
			idx[2] = i3
			for i4 := i3 + 1; i4 < n; i4++ {
				idx[3] = i4
				val := vals[i2] ^ vals[i3] ^ vals[i4]
				for i1 := 0; i1 < i2; i1++ {
					idx[0] = i1
					if !f(idx, val^vals[i1]) {
						return
					}
				}
			}
		}
	}
}

// Enumerate dispatches by p, cumulatively covering every combination size up
// to p (see EnumerateVal). p must be in 1..4.
func Enumerate(vals []uint64, p int, f func(idx []int, val uint64) bool) error {
	stopped := false
	g := func(idx []int, val uint64) bool {
		if !f(idx, val) {
			stopped = true
		}
		return !stopped
	}
	switch p {
	case 1:
		Enumerate1(vals, f)
		return nil
	case 4:
		Enumerate4(vals, g)
		if stopped {
			return nil
		}
		fallthrough
	case 3:
		Enumerate3(vals, g)
		if stopped {
			return nil
		}
		fallthrough
	case 2:
		Enumerate12(vals, g)
	default:
		return fmt.Errorf("enumerate.Enumerate: unsupported p=%d (want 1<=p<=4)", p)
	}
	return nil
}
