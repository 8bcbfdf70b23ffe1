package subisd

import (
	"fmt"
	"math/rand"

	"github.com/gf2decode/isd/enumerate"
	"github.com/gf2decode/isd/gf2"
)

// mmtLeftEntry is one bucketed entry of the direct-addressed first-level
// table: a p1-subset XOR value together with the row indices (relative to
// the left half of the row split) that produced it.
type mmtLeftEntry struct {
	val uint64
	idx []int
}

// mmtMidEntry is one entry of the second-level (true) hash table: the
// combined row indices of a right-half p1-subset and a matching
// first-level entry, keyed by their combined XOR shifted past the l1
// window.
type mmtMidEntry struct {
	idx []int
}

// MMT is the 4-way meet-in-the-middle strategy: rows are split in half,
// p1-subset XORs of the left half are bucketed directly by their low l1
// bits, p1-subset XORs of the right half are combined against two targets
// (a random l1-bit value iTl, and iTr = S2 XOR iTl) to build an intermediate
// collision table, and the final pass joins both sides into p=4*p1 subset
// candidates.
type MMT struct {
	p, p1, l1, bucketSize int

	h12t gf2.Matrix
	s2   gf2.Vector
	cb   Callback

	rows, rows1, rows2 int
	words              int
	firstWordMask, l1Mask, sVal, iTl, iTr uint64
	firstWords         []uint64

	buckets [][]mmtLeftEntry
	interHM map[uint64][]mmtMidEntry

	rng *rand.Rand
}

// NewMMT constructs an MMT strategy with combination size p (a multiple of
// 4), l1 bits of intermediate splitting, a per-bucket capacity, and a
// source of randomness for the target iTl (iTr is derived from it and S2).
func NewMMT(p, l1, bucketSize int, rng *rand.Rand) *MMT {
	return &MMT{p: p, l1: l1, bucketSize: bucketSize, rng: rng}
}

// Initialize implements SubISD.
func (m *MMT) Initialize(h12t gf2.Matrix, h2tColumns int, s2 gf2.Vector, _ int, cb Callback) error {
	if m.p%4 != 0 {
		return fmt.Errorf("subisd.MMT.Initialize: %w (p must be a multiple of 4)", ErrUnsupportedP)
	}
	m.p1 = m.p / 4
	if m.p1 > 3 {
		return fmt.Errorf("subisd.MMT.Initialize: %w (p>12 unsupported)", ErrUnsupportedP)
	}
	if h2tColumns < 6 {
		return fmt.Errorf("subisd.MMT.Initialize: %w (l<6 unsupported, needs the bitfield-sized window)", ErrUnsupportedL)
	}
	words := numWords(h2tColumns)
	if words > 1 {
		return fmt.Errorf("subisd.MMT.Initialize: %w (l>64 unsupported)", ErrUnsupportedL)
	}
	if m.l1 >= h2tColumns {
		return fmt.Errorf("subisd.MMT.Initialize: %w (l1 must be < l)", ErrUnsupportedL)
	}

	m.h12t = h12t
	m.s2 = s2
	m.cb = cb
	m.rows = h12t.Rows()
	m.rows1 = m.rows / 2
	m.rows2 = m.rows - m.rows1
	if m.rows1 >= 65535 || m.rows2 >= 65535 {
		return fmt.Errorf("subisd.MMT.Initialize: row half too large (>= 65535)")
	}
	m.words = words
	m.firstWordMask = lastWordMask(h2tColumns)
	m.l1Mask = lastWordMask(m.l1)

	m.buckets = make([][]mmtLeftEntry, 1<<uint(m.l1))
	m.interHM = make(map[uint64][]mmtMidEntry)
	return nil
}

// PrepareLoop implements SubISD.
func (m *MMT) PrepareLoop() {
	m.firstWords = make([]uint64, m.rows)
	for i := 0; i < m.rows; i++ {
		m.firstWords[i] = m.h12t.Row(i).Words()[0] & m.firstWordMask
	}
	m.sVal = m.s2.Words()[0] & m.firstWordMask
	m.iTl = m.rng.Uint64() & m.l1Mask
	m.iTr = m.sVal ^ m.iTl

	for i := range m.buckets {
		m.buckets[i] = nil
	}
	m.interHM = make(map[uint64][]mmtMidEntry)
}

// LoopNext implements SubISD.
func (m *MMT) LoopNext() bool {
	// rows2 is the split point: the reference splits rows the same way
	// (rows1 = rows/2, rows2 = rows - rows1), with the second half
	// starting at rows2.
	left := m.firstWords[:m.rows2]
	right := m.firstWords[m.rows2:]

	// fill the direct-addressed first-level table from the left half.
	_ = enumerate.Enumerate(left, m.p1, func(idx []int, val uint64) bool {
		key := val & m.l1Mask
		if len(m.buckets[key]) < m.bucketSize {
			m.buckets[key] = append(m.buckets[key], mmtLeftEntry{val: val, idx: append([]int(nil), idx...)})
		}
		return true
	})

	// fill the intermediate collision table from the right half XORed
	// against one target, joined with matching first-level entries.
	_ = enumerate.Enumerate(right, m.p1, func(idx []int, val uint64) bool {
		val ^= m.iTl
		key := val & m.l1Mask
		abs := make([]int, len(idx))
		for i, v := range idx {
			abs[i] = v + m.rows2
		}
		for _, e := range m.buckets[key] {
			val3 := val ^ e.val
			combined := make([]int, 0, len(abs)+len(e.idx))
			combined = append(combined, abs...)
			combined = append(combined, e.idx...)
			bucketKey := val3 >> uint(m.l1)
			m.interHM[bucketKey] = append(m.interHM[bucketKey], mmtMidEntry{idx: combined})
		}
		return true
	})

	// find collisions on the other target and join with the intermediate
	// table to produce full 4*p1-subset candidates.
	cont := true
	_ = enumerate.Enumerate(right, m.p1, func(idx []int, val uint64) bool {
		if !cont {
			return false
		}
		val ^= m.iTr
		key := val & m.l1Mask
		abs := make([]int, len(idx))
		for i, v := range idx {
			abs[i] = v + m.rows2
		}
		for _, e := range m.buckets[key] {
			val3 := (val ^ e.val) >> uint(m.l1)
			for _, mid := range m.interHM[val3] {
				if !cont {
					break
				}
				full := make([]int, 0, len(abs)+len(e.idx)+len(mid.idx))
				full = append(full, abs...)
				full = append(full, e.idx...)
				full = append(full, mid.idx...)
				if !m.cb(full, 0) {
					cont = false
				}
			}
		}
		return cont
	})
	return false
}

// Solve implements SubISD.
func (m *MMT) Solve() {
	m.PrepareLoop()
	m.LoopNext()
}
