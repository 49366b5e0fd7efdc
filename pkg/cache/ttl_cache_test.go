package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := New[string, int](time.Minute, time.Hour)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New[string, string](time.Minute, time.Hour)
	defer c.Close()

	c.SetWithTTL("short", "x", -time.Millisecond)
	_, ok := c.Get("short")
	assert.False(t, ok, "expired entry must not be returned")
	assert.Equal(t, 1, c.Len(), "physical removal is deferred")

	c.evictExpired()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_DeleteFuncAndClear(t *testing.T) {
	c := New[string, string](time.Minute, time.Hour)
	defer c.Close()

	c.Set("k1", "client-1")
	c.Set("k2", "client-1")
	c.Set("k3", "client-2")

	removed := c.DeleteFunc(func(_ string, v string) bool { return strings.HasSuffix(v, "-1") })
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())

	c.Close()
	c.Close()
}
