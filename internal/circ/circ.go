// Package circ provides a fixed-size ring that keeps the most recent values.
package circ

// Ring holds at most its capacity of values. Adding to a full Ring evicts the
// oldest value.
type Ring[V any] struct {
	entries []V
	first   int
	count   int
}

func New[V any](max int) Ring[V] {
	if max < 1 {
		max = 1
	}
	return Ring[V]{
		entries: make([]V, max),
	}
}

func (c Ring[V]) Len() int {
	return c.count
}

func (c Ring[V]) Cap() int {
	return len(c.entries)
}

func (c Ring[V]) Empty() bool {
	return c.count == 0
}

func (c *Ring[V]) Add(v V) {
	if c.entries == nil {
		*c = New[V](1)
	}
	if c.count == len(c.entries) {
		c.entries[c.first] = v
		c.first = c.mod(c.first + 1)
		return
	}
	c.entries[c.mod(c.first+c.count)] = v
	c.count++
}

func (c Ring[V]) mod(index int) int {
	return index % len(c.entries)
}

// At returns the i'th value, oldest first.
func (c Ring[V]) At(i int) V {
	return c.entries[c.mod(c.first+i)]
}

// Each calls f on each value, oldest first.
func (c Ring[V]) Each(f func(v V)) {
	for i := 0; i < c.count; i++ {
		f(c.At(i))
	}
}

// Last returns up to n of the most recent values, oldest first.
func (c Ring[V]) Last(n int) []V {
	if n > c.count {
		n = c.count
	}
	if n < 0 {
		n = 0
	}
	out := make([]V, 0, n)
	for i := c.count - n; i < c.count; i++ {
		out = append(out, c.At(i))
	}
	return out
}

func (c *Ring[V]) Clear() {
	clear(c.entries)
	c.first = 0
	c.count = 0
}
