package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGetRoundTrip(t *testing.T) {
	c := New(10, time.Hour)
	c.Set("a", 42)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := New(10, time.Hour)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	c := New(10, time.Millisecond)
	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch a, making b the LRU entry
	c.Set("c", 3)

	_, aOk := c.Get("a")
	_, bOk := c.Get("b")
	_, cOk := c.Get("c")
	assert.True(t, aOk)
	assert.False(t, bOk)
	assert.True(t, cOk)
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := New(10, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheDefaultsAppliedForInvalidArgs(t *testing.T) {
	c := New(0, 0)
	assert.Equal(t, DefaultCapacity, c.capacity)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestGroupCoalescesConcurrentCalls(t *testing.T) {
	g := NewGroup()
	var calls int64
	var wg sync.WaitGroup
	results := make([]any, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, err, _ := g.Do("key", func() (any, error) {
				atomic.AddInt64(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return "built", nil
			})
			require.NoError(t, err)
			results[idx] = v
		}(i)
	}
	wg.Wait()

	assert.Less(t, atomic.LoadInt64(&calls), int64(20))
	for _, r := range results {
		assert.Equal(t, "built", r)
	}
}
