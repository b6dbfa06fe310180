package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetAndExpiry(t *testing.T) {
	c := New(true)

	etag := c.Set("rankings:per_game_stats:2024-25", []byte(`[{"rank":1}]`), time.Minute)
	data, gotETag, ok := c.Get("rankings:per_game_stats:2024-25")
	assert.True(t, ok)
	assert.Equal(t, etag, gotETag)
	assert.Equal(t, `[{"rank":1}]`, string(data))

	c.Set("rankings:per_game_stats:2023-24", []byte("x"), -time.Second)
	_, _, ok = c.Get("rankings:per_game_stats:2023-24")
	assert.False(t, ok, "expired entries are misses")
}

func TestDisabledCacheStillComputesETags(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("payload"), time.Minute)
	assert.NotEmpty(t, etag)

	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(true)
	c.Set("rankings:per_game_stats:2024-25", []byte("a"), time.Hour)
	c.Set("rankings:per_game_stats:2023-24", []byte("b"), time.Hour)
	c.Set("seasons:per_game_stats", []byte("c"), time.Hour)

	dropped := c.InvalidatePrefix("rankings:per_game_stats:")
	assert.Equal(t, 2, dropped)

	_, _, ok := c.Get("seasons:per_game_stats")
	assert.True(t, ok)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("body"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}
