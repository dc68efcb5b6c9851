package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New(true)
	defer c.Close()

	_, _, ok := c.Get("k")
	assert.False(t, ok)

	etag := c.Set("k", []byte(`{"a":1}`), time.Minute)
	data, got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, etag, got)
	assert.Equal(t, `{"a":1}`, string(data))
	assert.Equal(t, ComputeETag([]byte(`{"a":1}`)), etag)

	c.Set("gone", []byte("x"), -time.Second)
	_, _, ok = c.Get("gone")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
}

func TestCache_Disabled(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("x"), time.Minute)
	assert.NotEmpty(t, etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_Purge(t *testing.T) {
	c := New(true)
	defer c.Close()
	c.Set("explain:icing", []byte("1"), time.Minute)
	c.Set("explain:offside", []byte("2"), time.Minute)
	c.Set("list:concept", []byte("3"), time.Minute)

	assert.Equal(t, 2, c.Purge("explain:"))
	_, _, ok := c.Get("list:concept")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Purge(""))
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestCheckETagMatch(t *testing.T) {
	etag := `W/"abc"`
	assert.False(t, CheckETagMatch("", etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch(`W/"zzz", `+etag, etag))
	assert.False(t, CheckETagMatch(`W/"zzz"`, etag))
}
