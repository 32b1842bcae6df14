package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without a reachable redis the cache must behave like it isn't there.
func TestUnavailableCacheIsNoOp(t *testing.T) {
	c := &Cache{}
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, 0))

	var out map[string]int
	hit, err := c.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)

	require.NoError(t, c.Delete(ctx, "k"))
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	hit, err := c.GetJSON(ctx, "k", nil)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, c.SetJSON(ctx, "k", 1, 0))
	require.NoError(t, c.Delete(ctx, "k"))
}
