// Package cmap implements a cacheline-bucketed multimap from uint64 keys to
// uint64 values, used by the meet-in-the-middle sub-ISD solvers to index one
// side of a collision search by hash value.
//
// Each bucket holds a small, fixed number of key/value pairs sized to fit a
// single 64-byte cacheline; buckets that fill up overflow into the next
// bucket (linear probing with wraparound). Lookups walk buckets starting at
// the key's hash-derived bucket until they find one that is not full,
// meaning every entry for that key has been seen.
package cmap

import (
	"errors"
	"math"

	"github.com/gf2decode/isd/hashprime"
)

// cachelineSize matches the architectural cacheline width the bucket layout
// is sized against.
const cachelineSize = 64

// bucketSize is the number of key/value uint64 pairs that fit in a single
// cacheline alongside a one-byte occupancy count: (64-1)/(8+8) = 3.
const bucketSize = (cachelineSize - 1) / 16

type bucket struct {
	keys   [bucketSize]uint64
	values [bucketSize]uint64
	size   uint8
	_      [cachelineSize - bucketSize*16 - 1]byte // pad to a full cacheline
}

// ErrNotEmpty is returned by operations that require an empty map, such as
// the internal reserve step.
var ErrNotEmpty = errors.New("cmap: multimap must be empty")

const (
	defaultMaxLoadFactor = 0.9
	defaultScaleFactor   = 1.5
	defaultGrowFactor    = 1.4
)

// Multimap is a simple (non-batched) cacheline-bucketed multimap.
type Multimap struct {
	maxLoadFactor float64
	growFactor    float64
	size          int
	maxSize       int
	reservedSize  int
	hp            hashprime.HashPrime
	buckets       []bucket
}

// New constructs an empty Multimap. Zero values for maxLoadFactor/growFactor
// select the defaults (0.9 and 1.4, matching the reference implementation).
func New(maxLoadFactor, growFactor float64) *Multimap {
	if maxLoadFactor <= 0 {
		maxLoadFactor = defaultMaxLoadFactor
	}
	if growFactor <= 0 {
		growFactor = defaultGrowFactor
	}
	return &Multimap{maxLoadFactor: maxLoadFactor, growFactor: growFactor, reservedSize: 1}
}

// Size returns the number of stored elements.
func (m *Multimap) Size() int { return m.size }

// Capacity returns the number of elements that can be stored before Insert
// starts failing.
func (m *Multimap) Capacity() int { return m.maxSize }

// BucketCount returns the number of cacheline buckets currently allocated.
func (m *Multimap) BucketCount() int { return len(m.buckets) }

// LoadFactor returns Size()/BucketCount's effective capacity, a fraction in
// [0,1] once allocated.
func (m *Multimap) LoadFactor() float64 {
	if m.reservedSize == 0 {
		return 0
	}
	return float64(m.size) / float64(m.reservedSize)
}

// Clear empties the multimap without releasing its backing storage.
func (m *Multimap) Clear() {
	m.size = 0
	for i := range m.buckets {
		m.buckets[i] = bucket{}
	}
}

// reserve allocates storage for at least the given number of buckets. The
// multimap must be empty.
func (m *Multimap) reserve(buckets int) error {
	if m.size != 0 {
		return ErrNotEmpty
	}
	if buckets < 1 {
		buckets = 1
	}
	hp, err := hashprime.GetPrimeGE(uint64(buckets))
	if err != nil {
		return err
	}
	m.hp = hp
	m.reservedSize = int(hp.Prime()) * bucketSize
	m.maxSize = int(float64(m.reservedSize) * m.maxLoadFactor)
	m.buckets = make([]bucket, hp.Prime()+1)
	m.size = 0
	return nil
}

// Reserve grows the multimap to hold at least elements entries, rehashing
// existing contents if necessary.
func (m *Multimap) Reserve(elements int, scale float64) error {
	if scale <= 0 {
		scale = defaultScaleFactor
	}
	if scale < 1.0/m.maxLoadFactor {
		scale = 1.0 / m.maxLoadFactor
	}
	buckets := int(math.Ceil(float64(elements) * scale / bucketSize))
	_, err := m.Rehash(buckets)
	return err
}

// Rehash resizes the multimap to the given number of buckets, re-inserting
// every stored element. It returns false without error if shrinking to
// buckets would violate the max load factor.
func (m *Multimap) Rehash(buckets int) (bool, error) {
	if m.size == 0 {
		return true, m.reserve(buckets)
	}
	if float64(buckets*bucketSize)*m.maxLoadFactor <= float64(m.size) {
		return false, nil
	}
	tmp := New(m.maxLoadFactor, m.growFactor)
	if err := tmp.reserve(buckets); err != nil {
		return false, err
	}
	for _, b := range m.buckets {
		for i := 0; i < int(b.size); i++ {
			tmp.Insert(b.keys[i], b.values[i])
		}
	}
	*m = *tmp
	return true, nil
}

func (m *Multimap) bucketFor(k uint64) uint64 {
	return m.hp.Mod(hashprime.Hash(k))
}

// Insert adds a key/value pair. It returns false if the multimap is at
// capacity (auto-grow is not enabled; callers should Reserve up front).
func (m *Multimap) Insert(k, v uint64) bool {
	if m.size >= m.maxSize {
		return false
	}
	m.size++
	b := m.bucketFor(k)
	for {
		bk := &m.buckets[b]
		if int(bk.size) == bucketSize {
			b++
			if b == m.hp.Prime() {
				b = 0
			}
			continue
		}
		j := bk.size
		bk.keys[j] = k
		bk.values[j] = v
		bk.size++
		return true
	}
}

// Match calls f once for every value stored under key k.
func (m *Multimap) Match(k uint64, f func(v uint64)) {
	b := m.bucketFor(k)
	for {
		bk := &m.buckets[b]
		if int(bk.size) < bucketSize {
			for j := 0; j < int(bk.size); j++ {
				if bk.keys[j] == k {
					f(bk.values[j])
				}
			}
			return
		}
		for j := 0; j < bucketSize; j++ {
			if bk.keys[j] == k {
				f(bk.values[j])
			}
		}
		b++
		if b == m.hp.Prime() {
			b = 0
		}
	}
}
