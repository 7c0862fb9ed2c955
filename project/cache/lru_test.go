package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	const n = 5
	c := NewLRU[string, int](n)

	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	for i := 0; i <= n; i++ {
		c.Set(fmt.Sprint(i), i)
	}
	assert.Equal(t, []string{"0"}, evicted)
	assert.Equal(t, n, c.Len())

	_, ok := c.Get("0")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestGetPromotes(t *testing.T) {
	const n = 4
	c := NewLRU[string, string](n)
	for i := 0; i < n; i++ {
		c.Set(fmt.Sprint("k", i), "v")
	}

	// k0 最早写入，读取后变为最近使用
	_, ok := c.Get("k0")
	require.True(t, ok)

	// 再写入 n-1 个新条目，k0 仍在最近 n 次访问之内
	for i := 0; i < n-1; i++ {
		c.Set(fmt.Sprint("new", i), "v")
	}
	_, ok = c.Peek("k0")
	assert.True(t, ok)

	// 第 n 个新条目把 k0 挤出
	c.Set("new-last", "v")
	_, ok = c.Peek("k0")
	assert.False(t, ok)
}

func TestSetExistingUpdatesAndPromotes(t *testing.T) {
	c := NewLRU[string, string](2)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "3")
	c.Set("c", "4")

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", v)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "c"}, c.Keys())
}

func TestPeekDoesNotPromote(t *testing.T) {
	c := NewLRU[int, int](2)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Peek(1)
	c.Set(3, 3)

	_, ok := c.Peek(1)
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestNonPositiveCapacity(t *testing.T) {
	c := NewLRU[string, string](0)
	assert.Equal(t, 1, c.Capacity())
	c.Set("a", "1")
	c.Set("b", "2")
	assert.Equal(t, []string{"b"}, c.Keys())
}

func TestMissAndClear(t *testing.T) {
	c := NewLRU[string, string](3)
	_, ok := c.Get("unknown")
	assert.False(t, ok)
	assert.False(t, c.Delete("unknown"))

	c.Set("a", "1")
	c.Get("a")
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestContentCacheRenameAndDeletePrefix(t *testing.T) {
	c := NewContentCache(10)
	c.Set("src/a.js", "a")
	c.Set("src/lib/b.js", "b")
	c.Set("srcx/c.js", "c")
	c.Set("main.js", "m")

	c.Rename("src", "app")
	assert.ElementsMatch(t, []string{"app/a.js", "app/lib/b.js", "srcx/c.js", "main.js"}, c.Keys())
	v, ok := c.Peek("app/lib/b.js")
	require.True(t, ok)
	assert.Equal(t, "b", v)

	assert.Equal(t, 2, c.DeletePrefix("app"))
	assert.ElementsMatch(t, []string{"srcx/c.js", "main.js"}, c.Keys())

	assert.Equal(t, 50, NewContentCache(0).Capacity())
}
