// Package cache holds the resolver's process-local mapping from
// (hostname, type) to the set of resource records learned for it.
package cache

import (
	"strings"
	"sync"

	"dnswalk/internal/wire"
)

// Key identifies a cache entry. Name comparisons are case-insensitive,
// so Key always stores the lowercased form.
type Key struct {
	Name string
	Type wire.RecordType
}

// NewKey builds a Key, normalizing name the way DNS names compare.
func NewKey(name string, t wire.RecordType) Key {
	return Key{Name: strings.ToLower(name), Type: t}
}

// Cache is a mapping from Key to a set of resource records. It is
// safe for concurrent use, though the resolver itself only ever
// touches it from one goroutine at a time (5.1).
type Cache struct {
	mu      sync.RWMutex
	entries map[Key][]wire.ResourceRecord
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key][]wire.ResourceRecord)}
}

// Insert adds rr to the set for (rr.Name, rr.Type). If a record with
// the same (name, type, rdata) identity already exists, it is
// replaced in place -- this is the idempotence property: inserting
// the same RR twice never grows the set.
func (c *Cache) Insert(rr wire.ResourceRecord) {
	key := NewKey(rr.Name, rr.Type)

	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.entries[key]
	for i, existing := range set {
		if sameIdentity(existing, rr) {
			set[i] = rr
			return
		}
	}
	c.entries[key] = append(set, rr)
}

// Lookup returns the records stored for (name, type), or an empty
// (not nil) slice if there are none. The returned slice is a copy;
// callers may not mutate the cache through it.
func (c *Cache) Lookup(name string, t wire.RecordType) []wire.ResourceRecord {
	key := NewKey(name, t)

	c.mu.RLock()
	defer c.mu.RUnlock()

	set := c.entries[key]
	out := make([]wire.ResourceRecord, len(set))
	copy(out, set)
	return out
}

// ForEach visits every cache entry, in no particular order, calling
// fn with each key's current record set. It exists for the REPL's
// "dump" command.
func (c *Cache) ForEach(fn func(Key, []wire.ResourceRecord)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for key, set := range c.entries {
		out := make([]wire.ResourceRecord, len(set))
		copy(out, set)
		fn(key, out)
	}
}

func sameIdentity(a, b wire.ResourceRecord) bool {
	return strings.EqualFold(a.Name, b.Name) &&
		a.Type == b.Type &&
		a.Data.String() == b.Data.String()
}
