package displaylist

import (
	"container/list"
	"sync"
	"sync/atomic"
)

const (
	// cacheShards is the shard count for reduced lock contention. A power
	// of 2 so shard selection is a bitwise AND.
	cacheShards = 16
	cacheMask   = cacheShards - 1

	// defaultCachePerShard is the default dispatcher capacity per shard.
	defaultCachePerShard = 32
)

// DispatcherCache memoizes validated Dispatchers by buffer identity.
// Construction validates every record in a buffer, which is the expensive
// part of consuming a display list; consumers that replay the same buffer
// across frames (or across viewports) hit the cache and skip it. Safe for
// concurrent use: buffers are immutable, so a cached Dispatcher can be
// shared freely.
//
// Identity is the buffer's checksum combined with its length. Two buffers
// with equal content share an entry, which is exactly the sharing the
// format is designed for.
type DispatcherCache struct {
	shards   [cacheShards]*cacheShard
	resolver ResourceResolver
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[uint64]*list.Element
	lru     *list.List // of cacheEntry, front is most recent
}

type cacheEntry struct {
	key uint64
	d   *Dispatcher
}

// NewDispatcherCache creates a cache whose dispatchers resolve resources
// through resolver. perShard bounds each shard's entry count; total
// capacity is roughly perShard × 16. perShard <= 0 selects a default.
func NewDispatcherCache(perShard int, resolver ResourceResolver) *DispatcherCache {
	if perShard <= 0 {
		perShard = defaultCachePerShard
	}
	c := &DispatcherCache{resolver: resolver, capacity: perShard}
	for i := range c.shards {
		c.shards[i] = &cacheShard{
			entries: make(map[uint64]*list.Element),
			lru:     list.New(),
		}
	}
	return c
}

// bufferKey derives the cache identity of a buffer from header fields
// alone, without hashing the content again.
func bufferKey(buf []byte) (uint64, bool) {
	if len(buf) < headerSize {
		return 0, false
	}
	return uint64(getU32(buf, offChecksum))<<32 | uint64(uint32(len(buf))), true
}

func (c *DispatcherCache) shard(key uint64) *cacheShard {
	// The low 32 bits are the length; mix in the checksum half so buffers
	// of equal length spread across shards.
	return c.shards[(key^key>>32)&cacheMask]
}

// Get returns a validated Dispatcher for buf, constructing and caching
// one on miss. Validation errors are returned as from NewDispatcher and
// are not cached.
func (c *DispatcherCache) Get(buf []byte) (*Dispatcher, error) {
	key, ok := bufferKey(buf)
	if !ok {
		return nil, ErrBufferTooSmall
	}
	s := c.shard(key)

	s.mu.RLock()
	el, found := s.entries[key]
	s.mu.RUnlock()
	if found {
		s.mu.Lock()
		if el, found = s.entries[key]; found {
			s.lru.MoveToFront(el)
			d := el.Value.(*cacheEntry).d
			s.mu.Unlock()
			c.hits.Add(1)
			return d, nil
		}
		s.mu.Unlock()
	}
	c.misses.Add(1)

	d, err := NewDispatcher(buf, c.resolver)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if el, found := s.entries[key]; found {
		// Another goroutine validated the same buffer first; keep its entry.
		s.lru.MoveToFront(el)
		return el.Value.(*cacheEntry).d, nil
	}
	for s.lru.Len() >= c.capacity {
		oldest := s.lru.Back()
		if oldest == nil {
			break
		}
		s.lru.Remove(oldest)
		delete(s.entries, oldest.Value.(*cacheEntry).key)
		c.evictions.Add(1)
	}
	s.entries[key] = s.lru.PushFront(&cacheEntry{key: key, d: d})
	return d, nil
}

// Len returns the number of cached dispatchers.
func (c *DispatcherCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Purge drops every cached dispatcher. Statistics are kept.
func (c *DispatcherCache) Purge() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[uint64]*list.Element)
		s.lru.Init()
		s.mu.Unlock()
	}
}

// CacheStats is a snapshot of cache activity counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns a snapshot of the activity counters.
func (c *DispatcherCache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
