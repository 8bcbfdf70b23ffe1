package cmap

import (
	"math"

	"github.com/gf2decode/isd/hashprime"
)

const (
	defaultInsertBatchSize = 128
	defaultMatchBatchSize  = 128
)

type insertItem struct {
	key, value uint64
	bucket     uint64
}

type matchItem struct {
	key     uint64
	auxData uint64
	bucket  uint64
}

// BatchMultimap is a cacheline-bucketed multimap that queues inserts and
// matches so the target bucket's cacheline is touched once per batch
// instead of once per operation. Callers must invoke FinalizeInsert and
// FinalizeMatch once they are done queueing, or queued operations are lost.
type BatchMultimap struct {
	maxLoadFactor float64
	growFactor    float64
	size          int
	maxSize       int
	reservedSize  int
	hp            hashprime.HashPrime
	buckets       []bucket

	insertBatchSize int
	insertQueue     []insertItem
	insertQueueLen  int

	matchBatchSize int
	matchQueue     []matchItem
	matchQueueLen  int
}

// NewBatch constructs an empty BatchMultimap. Zero values select the
// defaults used throughout this package.
func NewBatch(maxLoadFactor, growFactor float64, insertBatchSize, matchBatchSize int) *BatchMultimap {
	if maxLoadFactor <= 0 {
		maxLoadFactor = defaultMaxLoadFactor
	}
	if growFactor <= 0 {
		growFactor = defaultGrowFactor
	}
	if insertBatchSize <= 0 {
		insertBatchSize = defaultInsertBatchSize
	}
	if matchBatchSize <= 0 {
		matchBatchSize = defaultMatchBatchSize
	}
	return &BatchMultimap{
		maxLoadFactor:   maxLoadFactor,
		growFactor:      growFactor,
		reservedSize:    1,
		insertBatchSize: insertBatchSize,
		insertQueue:     make([]insertItem, insertBatchSize),
		matchBatchSize:  matchBatchSize,
		matchQueue:      make([]matchItem, matchBatchSize),
	}
}

func (m *BatchMultimap) Size() int         { return m.size }
func (m *BatchMultimap) Capacity() int     { return m.maxSize }
func (m *BatchMultimap) BucketCount() int  { return len(m.buckets) }
func (m *BatchMultimap) LoadFactor() float64 {
	if m.reservedSize == 0 {
		return 0
	}
	return float64(m.size) / float64(m.reservedSize)
}

// Clear empties the multimap and both queues without releasing storage.
func (m *BatchMultimap) Clear() {
	m.size = 0
	for i := range m.buckets {
		m.buckets[i] = bucket{}
	}
	m.insertQueueLen = 0
	m.matchQueueLen = 0
}

func (m *BatchMultimap) reserve(buckets int) error {
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
	m.reservedSize = int(m.hp.Prime()) * bucketSize
	m.maxSize = int(float64(m.reservedSize) * m.maxLoadFactor)
	m.buckets = make([]bucket, m.hp.Prime()+1)
	m.size = 0
	return nil
}

// Reserve grows the multimap to hold at least elements entries.
func (m *BatchMultimap) Reserve(elements int, scale float64) error {
	if scale <= 0 {
		scale = defaultScaleFactor
	}
	if scale < 1.0/m.maxLoadFactor {
		scale = 1.0 / m.maxLoadFactor
	}
	buckets := int(math.Ceil(float64(elements) * scale / bucketSize))
	if m.size == 0 {
		return m.reserve(buckets)
	}
	_, err := m.Rehash(buckets)
	return err
}

// Rehash resizes the multimap to the given number of buckets, preserving the
// pending match queue and re-inserting every stored element through the
// insert queue.
func (m *BatchMultimap) Rehash(buckets int) (bool, error) {
	if float64(buckets)*m.maxLoadFactor <= float64(m.size) {
		return false, nil
	}
	m.FinalizeInsert()
	tmp := NewBatch(m.maxLoadFactor, m.growFactor, m.insertBatchSize, m.matchBatchSize)
	if err := tmp.reserve(buckets); err != nil {
		return false, err
	}
	tmp.matchQueue, m.matchQueue = m.matchQueue, tmp.matchQueue
	tmp.matchQueueLen, m.matchQueueLen = m.matchQueueLen, tmp.matchQueueLen
	for _, b := range m.buckets {
		for i := 0; i < int(b.size); i++ {
			tmp.QueueInsert(b.keys[i], b.values[i])
		}
	}
	tmp.FinalizeInsert()
	*m = *tmp
	return true, nil
}

func (m *BatchMultimap) bucketFor(k uint64) uint64 {
	return m.hp.Mod(hashprime.Hash(k))
}

// Insert is an alias for QueueInsert, matching the plain Multimap's API.
func (m *BatchMultimap) Insert(k, v uint64) bool {
	return m.QueueInsert(k, v)
}

// QueueInsert enqueues a key/value pair for insertion, flushing the queue
// automatically once it fills.
func (m *BatchMultimap) QueueInsert(k, v uint64) bool {
	if m.size >= m.maxSize {
		return false
	}
	m.size++
	b := m.bucketFor(k)
	item := &m.insertQueue[m.insertQueueLen]
	item.key = k
	item.value = v
	item.bucket = b
	m.insertQueueLen++
	if m.insertQueueLen == m.insertBatchSize {
		m.processInsertQueue()
	}
	return true
}

func (m *BatchMultimap) processInsertQueue() bool {
	for {
		end := m.insertQueueLen
		m.insertQueueLen = 0
		for i := 0; i < end; i++ {
			item := m.insertQueue[i]
			b := item.bucket
			bk := &m.buckets[b]
			if int(bk.size) == bucketSize {
				b++
				if b == m.hp.Prime() {
					b = 0
				}
				m.insertQueue[m.insertQueueLen] = insertItem{key: item.key, value: item.value, bucket: b}
				m.insertQueueLen++
				continue
			}
			j := bk.size
			bk.keys[j] = item.key
			bk.values[j] = item.value
			bk.size++
		}
		if m.insertQueueLen != m.insertBatchSize {
			break
		}
	}
	return m.insertQueueLen == 0
}

// FinalizeInsert drains the insert queue completely.
func (m *BatchMultimap) FinalizeInsert() {
	for !m.processInsertQueue() {
	}
}

// QueueMatch enqueues a key lookup carrying an opaque auxData value that the
// eventual callback receives alongside the match, flushing automatically
// once the queue fills.
func (m *BatchMultimap) QueueMatch(k uint64, auxData uint64, f func(auxData, key, value uint64)) {
	b := m.bucketFor(k)
	item := &m.matchQueue[m.matchQueueLen]
	item.key = k
	item.auxData = auxData
	item.bucket = b
	m.matchQueueLen++
	if m.matchQueueLen == m.matchBatchSize {
		m.processMatchQueue(f)
	}
}

func (m *BatchMultimap) processMatchQueue(f func(auxData, key, value uint64)) bool {
	for {
		end := m.matchQueueLen
		m.matchQueueLen = 0
		for i := 0; i < end; i++ {
			item := m.matchQueue[i]
			b := item.bucket
			bk := &m.buckets[b]
			if int(bk.size) < bucketSize {
				for j := 0; j < int(bk.size); j++ {
					if bk.keys[j] == item.key {
						f(item.auxData, item.key, bk.values[j])
					}
				}
				continue
			}
			for j := 0; j < bucketSize; j++ {
				if bk.keys[j] == item.key {
					f(item.auxData, item.key, bk.values[j])
				}
			}
			b++
			if b == m.hp.Prime() {
				b = 0
			}
			m.matchQueue[m.matchQueueLen] = matchItem{key: item.key, auxData: item.auxData, bucket: b}
			m.matchQueueLen++
		}
		if m.matchQueueLen != m.matchBatchSize {
			break
		}
	}
	return m.matchQueueLen == 0
}

// FinalizeMatch drains the match queue completely, calling f for every
// pending match.
func (m *BatchMultimap) FinalizeMatch(f func(auxData, key, value uint64)) {
	for !m.processMatchQueue(f) {
	}
}
