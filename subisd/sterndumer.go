package subisd

import (
	"fmt"

	"github.com/gf2decode/isd/bitfield"
	"github.com/gf2decode/isd/cmap"
	"github.com/gf2decode/isd/enumerate"
	"github.com/gf2decode/isd/gf2"
)

// SternDumer splits the ISD rows into two halves, enumerates p1- and
// p2-subset XORs from each half, and uses a staged bitfield plus a hash
// multimap to find the pairs whose combined XOR equals S2.
type SternDumer struct {
	p int

	h12t gf2.Matrix
	s2   gf2.Vector
	cb   Callback

	rows, rows1, rows2, p1, p2 int
	words                      int
	firstWordMask, padMask     uint64
	sVal                       uint64
	firstWords                 []uint64

	bf *bitfield.StagedBitfield
	hm *cmap.Multimap
}

// NewSternDumer constructs a Stern/Dumer strategy with combination size p.
func NewSternDumer(p int) *SternDumer {
	return &SternDumer{p: p}
}

// Initialize implements SubISD.
func (sd *SternDumer) Initialize(h12t gf2.Matrix, h2tColumns int, s2 gf2.Vector, _ int, cb Callback) error {
	if sd.p < 2 {
		return fmt.Errorf("subisd.SternDumer.Initialize: %w (p<2 unsupported)", ErrUnsupportedP)
	}
	if sd.p > 8 {
		return fmt.Errorf("subisd.SternDumer.Initialize: %w (p>8 unsupported)", ErrUnsupportedP)
	}
	if h2tColumns < 6 {
		return fmt.Errorf("subisd.SternDumer.Initialize: %w (l<6 unsupported, needs the bitfield)", ErrUnsupportedL)
	}
	words := numWords(h2tColumns)
	if words > 1 {
		return fmt.Errorf("subisd.SternDumer.Initialize: %w (l>64 unsupported)", ErrUnsupportedL)
	}

	sd.h12t = h12t
	sd.s2 = s2
	sd.cb = cb
	sd.p1 = sd.p / 2
	sd.p2 = sd.p - sd.p1
	sd.rows = h12t.Rows()
	sd.rows1 = sd.rows / 2
	sd.rows2 = sd.rows - sd.rows1
	if sd.rows1 >= 65535 || sd.rows2 >= 65535 {
		return fmt.Errorf("subisd.SternDumer.Initialize: row half too large (>= 65535)")
	}
	sd.words = words
	sd.firstWordMask = lastWordMask(h2tColumns)
	sd.padMask = ^sd.firstWordMask

	sd.bf = bitfield.New(false, false)
	if err := sd.bf.Resize(h2tColumns, 0, 0); err != nil {
		return fmt.Errorf("subisd.SternDumer.Initialize: %w", err)
	}
	sd.hm = cmap.New(0.9, 2.0)
	return nil
}

// PrepareLoop implements SubISD.
func (sd *SternDumer) PrepareLoop() {
	sd.firstWords = make([]uint64, sd.rows)
	for i := 0; i < sd.rows; i++ {
		sd.firstWords[i] = sd.h12t.Row(i).Words()[0] & sd.firstWordMask
	}
	sd.sVal = sd.s2.Words()[0] & sd.firstWordMask
	sd.bf.Clear()
	sd.hm.Clear()
}

// LoopNext implements SubISD.
func (sd *SternDumer) LoopNext() bool {
	left := sd.firstWords[:sd.rows1]
	right := sd.firstWords[sd.rows1:]

	// stage 1: store the left half's p1-subset XORs in the bitfield.
	_ = enumerate.EnumerateVal(left, sd.p1, func(val uint64) bool {
		sd.bf.Stage1(val)
		return true
	})

	// stage 2: compare the right half's p2-subset XORs (complemented by
	// the target) against the bitfield, store survivors in the hash map.
	_ = enumerate.Enumerate(right, sd.p2, func(idx []int, val uint64) bool {
		val ^= sd.sVal
		if sd.bf.Stage2(val) {
			abs := make([]int, len(idx))
			for i, v := range idx {
				abs[i] = v + sd.rows1
			}
			packed := packIndices(abs)
			if !sd.hm.Insert(val, packed) {
				// the map starts without storage and grows when full
				if _, err := sd.hm.Rehash(4*sd.hm.BucketCount() + 16); err == nil {
					sd.hm.Insert(val, packed)
				}
			}
		}
		return true
	})

	// stage 3: retrieve matches from the left half and emit combined
	// candidates to the driver.
	cont := true
	_ = enumerate.Enumerate(left, sd.p1, func(idx []int, val uint64) bool {
		if !cont {
			return false
		}
		if sd.bf.Stage3(val) {
			sd.hm.Match(val, func(packed uint64) {
				if !cont {
					return
				}
				rightIdx := unpackIndices(packed, sd.p2)
				combined := make([]int, 0, len(idx)+len(rightIdx))
				combined = append(combined, idx...)
				combined = append(combined, rightIdx...)
				if !sd.cb(combined, 0) {
					cont = false
				}
			})
		}
		return cont
	})
	return false
}

// Solve implements SubISD.
func (sd *SternDumer) Solve() {
	sd.PrepareLoop()
	sd.LoopNext()
}
