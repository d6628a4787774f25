package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC)}
	return New(nil, ttl, WithClock(clock.Now)), clock
}

func TestKeysAreNamespaced(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text:สวัสดี", TextKey("  สวัสดี "))
	assert.Equal(t, "image:abc", ImageKey("abc"))
	assert.NotEqual(t, TextKey("abc"), ImageKey("abc"))
}

func TestGetReturnsValueWithinTTL(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(10 * time.Minute)
	c.Set("text:hi", "hello", 0)

	clock.Advance(9 * time.Minute)
	got, ok := c.Get("text:hi")
	require.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestGetTreatsExpiredAsAbsent(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(10 * time.Minute)
	c.Set("text:hi", "hello", time.Minute)

	clock.Advance(time.Minute)
	_, ok := c.Get("text:hi")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entry stays until swept")
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(10 * time.Minute)
	c.Set("a", "1", time.Minute)
	c.Set("b", "2", time.Hour)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestNilCacheIsAMiss(t *testing.T) {
	t.Parallel()

	var c *Cache
	c.Set("k", "v", time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestNewSweeperRejectsBadSpec(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Minute)
	_, err := NewSweeper(nil, c, "not a spec")
	assert.Error(t, err)

	s, err := NewSweeper(nil, c, "@every 120s")
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
