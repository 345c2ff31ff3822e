package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeque(t *testing.T) {
	d := NewDeque[int](3)
	assert.Equal(t, 0, d.Count())

	require.NoError(t, d.PushBack(1))
	require.NoError(t, d.PushBack(2))
	require.NoError(t, d.PushBack(3))

	is := func(v int) func(int) bool {
		return func(i int) bool { return i == v }
	}

	_, ok := d.Find(is(2))
	assert.True(t, ok)
	_, ok = d.Find(is(20))
	assert.False(t, ok)
	assert.Equal(t, 3, d.Count())
	assert.Equal(t, 3, d.Max())

	for _, want := range []int{1, 2, 3} {
		v, ok := d.PopFront()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, ok = d.PopFront()
	assert.False(t, ok)
}

func TestDequeDel(t *testing.T) {
	d := NewDeque[int](3)
	d.PushBack(1)
	d.PushBack(2)
	d.PushBack(3)

	d.Del(func(i int) bool { return i == 2 })
	assert.Equal(t, 2, d.Count())

	v, _ := d.PopFront()
	assert.Equal(t, 1, v)
	v, _ = d.PopFront()
	assert.Equal(t, 3, v)
}

func TestDequeWrapsAround(t *testing.T) {
	d := NewDeque[string](2)
	d.PushBack("a")
	d.PushBack("b")
	assert.Error(t, d.PushBack("c"))

	d.PopFront()
	require.NoError(t, d.PushBack("c"))
	d.Del(func(s string) bool { return s == "c" })

	v, ok := d.Find(func(string) bool { return true })
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	d.Clear()
	assert.Equal(t, 0, d.Count())
	require.NoError(t, d.PushBack("d"))
}

func TestCache(t *testing.T) {
	cache := New[int, int](2)

	cache.Set(1, 1)
	cache.Set(2, 2)
	for i := 1; i <= 2; i++ {
		v, ok := cache.Get(i)
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}

	cache.Set(3, 3)
	_, ok := cache.Get(1)
	assert.False(t, ok, "oldest entry is evicted")
	assert.Equal(t, 2, cache.Len())

	assert.Equal(t, 3, cache.Set(3, 30), "existing entries are kept")
}

func TestCacheDel(t *testing.T) {
	cache := New[int, int](2)
	cache.Set(1, 1)
	cache.Set(2, 2)

	cache.Del(1)
	_, ok := cache.Get(1)
	assert.False(t, ok)
	_, ok = cache.Get(2)
	assert.True(t, ok)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheGetOrSet(t *testing.T) {
	cache := New[string, int](4)
	calls := 0
	build := func() (int, error) {
		calls++
		return 7, nil
	}

	v, err := cache.GetOrSet("k", build)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	v, err = cache.GetOrSet("k", build)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)

	_, err = cache.GetOrSet("bad", func() (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	_, ok := cache.Get("bad")
	assert.False(t, ok)
}

func TestZeroCacheIsUsable(t *testing.T) {
	var cache Cache[string, int]
	cache.Set("a", 1)
	v, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
