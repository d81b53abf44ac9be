// Package cache memoizes placement scores. Many candidate placements lead to
// the same locked board (symmetric shapes, or the same cells reached in a
// different order), and the lookahead term makes scoring expensive, so
// scores are remembered by board hash.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/kamstrup/intmap"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// approximate bytes per entry, including map overhead.
const entrySize = 32

const (
	minEntries = 1 << 10
	maxEntries = 1 << 22
)

// DefaultMemoryFraction is the share of system memory an automatically
// sized cache may use.
const DefaultMemoryFraction = 1.0 / 64

// ScoreCache maps a board hash to its score. It is safe for concurrent use.
type ScoreCache struct {
	sync.Mutex
	scores   *intmap.Map[uint64, int]
	capacity int

	lookups atomic.Uint64
	hits    atomic.Uint64
}

// New creates a cache holding at most capacity scores. A capacity of 0 or
// less sizes the cache from system memory.
func New(capacity int) *ScoreCache {
	if capacity <= 0 {
		capacity = SizeFromMemory(DefaultMemoryFraction)
	}
	return &ScoreCache{
		scores:   intmap.New[uint64, int](min(capacity, minEntries)),
		capacity: capacity,
	}
}

// SizeFromMemory returns how many entries fit in the given fraction of
// system memory.
func SizeFromMemory(fraction float64) int {
	totalMem := memory.TotalMemory()
	n := int(fraction * float64(totalMem) / entrySize)
	n = max(minEntries, min(n, maxEntries))
	log.Debug().Int("num-elems", n).Uint64("total-system-memory-bytes", totalMem).
		Msg("score-cache-size")
	return n
}

func (c *ScoreCache) Get(key uint64) (int, bool) {
	c.Lock()
	defer c.Unlock()
	c.lookups.Add(1)
	v, ok := c.scores.Get(key)
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

// Put stores a score. When the cache is full it is emptied first; scores
// are cheap enough to recompute that nothing smarter is needed.
func (c *ScoreCache) Put(key uint64, score int) {
	c.Lock()
	defer c.Unlock()
	if c.scores.Len() >= c.capacity {
		log.Debug().Int("capacity", c.capacity).Msg("score-cache-full")
		c.scores.Clear()
	}
	c.scores.Put(key, score)
}

// Load returns the cached score for key, computing and storing it with fn
// on a miss. fn runs without the lock held, so two goroutines may compute
// the same score; they will agree.
func (c *ScoreCache) Load(key uint64, fn func() int) int {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := fn()
	c.Put(key, v)
	return v
}

func (c *ScoreCache) Len() int {
	c.Lock()
	defer c.Unlock()
	return c.scores.Len()
}

func (c *ScoreCache) Capacity() int { return c.capacity }

// Stats returns the number of lookups and hits since the last Reset.
func (c *ScoreCache) Stats() (lookups, hits uint64) {
	return c.lookups.Load(), c.hits.Load()
}

func (c *ScoreCache) Reset() {
	c.Lock()
	defer c.Unlock()
	c.scores.Clear()
	c.lookups.Store(0)
	c.hits.Store(0)
}
