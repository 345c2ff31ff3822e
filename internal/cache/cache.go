// Package cache is a bounded map that evicts its oldest entry when full.
package cache

type Cache[K comparable, V any] struct {
	entries    map[K]*Entry[K, V]
	orderAdded Deque[*Entry[K, V]]
}

type Entry[K comparable, V any] struct {
	Key K
	Val V
}

func New[K comparable, V any](max int) Cache[K, V] {
	return Cache[K, V]{
		entries:    make(map[K]*Entry[K, V]),
		orderAdded: NewDeque[*Entry[K, V]](max),
	}
}

func (c Cache[K, V]) Get(key K) (val V, ok bool) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	return entry.Val, true
}

// Set stores val under key unless key is already present, and returns the
// value now stored.
func (c *Cache[K, V]) Set(key K, val V) V {
	if entry, ok := c.entries[key]; ok {
		return entry.Val
	}
	return c.addNewEntry(key, val).Val
}

// GetOrSet returns the value for key, computing and storing it with build when
// absent. A failed build stores nothing.
func (c *Cache[K, V]) GetOrSet(key K, build func() (V, error)) (V, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}
	val, err := build()
	if err != nil {
		return val, err
	}
	return c.Set(key, val), nil
}

func (c *Cache[K, V]) addNewEntry(key K, val V) *Entry[K, V] {
	if c.entries == nil {
		*c = New[K, V](1)
	}
	c.removeOldestIfNeeded()

	entry := &Entry[K, V]{Key: key, Val: val}
	c.entries[key] = entry
	c.orderAdded.PushBack(entry)
	return entry
}

func (c *Cache[K, V]) removeOldestIfNeeded() {
	if c.orderAdded.Count() < c.orderAdded.Max() {
		return
	}

	if e, ok := c.orderAdded.PopFront(); ok {
		delete(c.entries, e.Key)
	}
}

func (c *Cache[K, V]) Del(key K) {
	c.orderAdded.Del(func(e *Entry[K, V]) bool {
		return e.Key == key
	})
	delete(c.entries, key)
}

func (c Cache[K, V]) Len() int {
	return len(c.entries)
}

func (c *Cache[K, V]) Clear() {
	c.entries = make(map[K]*Entry[K, V])
	c.orderAdded.Clear()
}
