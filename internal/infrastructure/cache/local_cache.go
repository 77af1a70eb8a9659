// Package cache provides the in-process key/value store backing the
// compatibility score cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/petplates/mealengine/internal/ports/outbound"
)

// LocalCache is a thread-safe in-memory byte cache with per-entry TTL
// and LRU eviction. It implements outbound.KeyValueCache.
type LocalCache struct {
	items   map[string]*localItem
	lru     *lruList
	maxSize int
	mu      sync.RWMutex
}

var _ outbound.KeyValueCache = (*LocalCache)(nil)

type localItem struct {
	data      []byte
	expiresAt time.Time
	node      *lruNode
}

// lruList is a doubly-linked list with sentinel head/tail; most
// recently used entries sit at the front.
type lruList struct {
	head *lruNode
	tail *lruNode
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

func newLRUList() *lruList {
	l := &lruList{head: &lruNode{}, tail: &lruNode{}}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// NewLocalCache creates a cache holding at most maxSize entries;
// maxSize <= 0 selects a default of 1000.
func NewLocalCache(maxSize int) *LocalCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &LocalCache{
		items:   make(map[string]*localItem),
		lru:     newLRUList(),
		maxSize: maxSize,
	}
}

// Get returns the value for key, or outbound.ErrCacheMiss when the key
// is absent or expired. Expired entries are deleted on access.
//
// The whole lookup runs under the write lock: a hit mutates the LRU
// list regardless, and Set mutates entries in place, so the expiry
// check and the value copy must not happen outside the critical
// section.
func (lc *LocalCache) Get(_ context.Context, key string) ([]byte, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	item, exists := lc.items[key]
	if !exists {
		return nil, outbound.ErrCacheMiss
	}

	if time.Now().After(item.expiresAt) {
		lc.deleteItem(key, item)
		return nil, outbound.ErrCacheMiss
	}

	lc.moveToFront(item.node)

	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(item.data))
	copy(out, item.data)
	return out, nil
}

// Set stores value under key for ttl. Setting an existing key refreshes
// both value and expiry.
func (lc *LocalCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)
	expiresAt := time.Now().Add(ttl)

	if item, exists := lc.items[key]; exists {
		item.data = data
		item.expiresAt = expiresAt
		lc.moveToFront(item.node)
		return nil
	}

	node := &lruNode{key: key}
	lc.items[key] = &localItem{data: data, expiresAt: expiresAt, node: node}
	lc.addToFront(node)
	lc.evictIfNecessary()
	return nil
}

// Delete removes a key if present.
func (lc *LocalCache) Delete(key string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if item, exists := lc.items[key]; exists {
		lc.deleteItem(key, item)
	}
}

// Len returns the current entry count, expired entries included.
func (lc *LocalCache) Len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.items)
}

// CleanupExpired removes all expired entries and reports how many were
// dropped. The cache never sweeps on its own; callers that care run
// this on a ticker.
func (lc *LocalCache) CleanupExpired() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, item := range lc.items {
		if now.After(item.expiresAt) {
			lc.deleteItem(key, item)
			removed++
		}
	}
	return removed
}

func (lc *LocalCache) deleteItem(key string, item *localItem) {
	delete(lc.items, key)
	lc.removeFromList(item.node)
}

func (lc *LocalCache) evictIfNecessary() {
	for len(lc.items) > lc.maxSize {
		oldest := lc.lru.tail.prev
		if oldest == lc.lru.head {
			return
		}
		lc.deleteItem(oldest.key, lc.items[oldest.key])
	}
}

func (lc *LocalCache) addToFront(node *lruNode) {
	node.prev = lc.lru.head
	node.next = lc.lru.head.next
	lc.lru.head.next.prev = node
	lc.lru.head.next = node
}

func (lc *LocalCache) removeFromList(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

func (lc *LocalCache) moveToFront(node *lruNode) {
	lc.removeFromList(node)
	lc.addToFront(node)
}
