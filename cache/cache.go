// Package cache implements a bounded LRU cache of per-query null
// distributions, keyed by a content hash of the query PWM plus quantizer
// parameters, so that a repeated query skips re-convolution.
//
// Eviction order is tracked with an LLRB tree ordered by last-use sequence
// number, the same structure github.com/biogo/store/llrb backs
// grailbio-bio's bampair.ShardInfo and sorter packages with (there, a
// coordinate key; here, a monotonically increasing use counter).
package cache

import (
	"sync"

	"github.com/biogo/store/llrb"
)

// Key identifies a cached null distribution: a content hash of the query
// PWM plus the quantizer parameters used to build it.
type Key uint64

// entry is the llrb.Comparable stored in the eviction tree, ordered by
// last-use sequence number so the tree's minimum is always the least
// recently used entry.
type entry struct {
	seq   uint64
	key   Key
	value interface{}
}

func (e *entry) Compare(c llrb.Comparable) int {
	o := c.(*entry)
	switch {
	case e.seq < o.seq:
		return -1
	case e.seq > o.seq:
		return 1
	default:
		return 0
	}
}

// Cache is a bounded, thread-safe LRU cache from Key to an arbitrary
// cached value (in practice, a query's quantizer together with its
// *null.Null). Size 0 disables caching.
type Cache struct {
	mu      sync.Mutex
	tree    llrb.Tree
	byKey   map[Key]*entry
	nextSeq uint64
	maxSize int
}

// New creates a Cache holding at most maxSize entries.
func New(maxSize int) *Cache {
	return &Cache{
		byKey:   make(map[Key]*entry, maxSize),
		maxSize: maxSize,
	}
}

// Get returns the cached value for key, bumping it to most-recently-used.
func (c *Cache) Get(key Key) (interface{}, bool) {
	if c.maxSize <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	c.tree.Delete(e)
	e.seq = c.nextSeq
	c.nextSeq++
	c.tree.Insert(e)
	return e.value, true
}

// Put inserts or refreshes key with value, evicting the least-recently-used
// entry if the cache is full.
func (c *Cache) Put(key Key, value interface{}) {
	if c.maxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.byKey[key]; ok {
		c.tree.Delete(old)
		delete(c.byKey, key)
	}
	e := &entry{seq: c.nextSeq, key: key, value: value}
	c.nextSeq++
	c.tree.Insert(e)
	c.byKey[key] = e
	for len(c.byKey) > c.maxSize {
		min := c.tree.Min()
		if min == nil {
			break
		}
		lru := min.(*entry)
		c.tree.DeleteMin()
		delete(c.byKey, lru.key)
	}
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byKey)
}
