package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setupTestEnvironment(t *testing.T) (*Cache, func()) {
	t.Helper()

	cache := NewCache(0, 0)

	cleanup := func() {
		cache.Flush()
	}

	return cache, cleanup
}

func TestCache_SetGet(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value")

	v, ok := cache.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCache_Expiration(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get("key")
	assert.False(t, ok, "expected key to expire")
}

func TestCache_Delete(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set(CacheKeyUser(1), "value")
	cache.Delete(CacheKeyUser(1))

	_, ok := cache.Get(CacheKeyUser(1))
	assert.False(t, ok)
}

func TestCache_Flush(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value")
	cache.Flush()

	if _, ok := cache.Get("key"); ok {
		t.Error("expected cache to be flushed")
	}
}

func TestCacheKeyUser(t *testing.T) {
	assert.Equal(t, "user:42", CacheKeyUser(42))
}
