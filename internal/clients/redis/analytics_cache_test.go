package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

func TestNewCacheWithoutAddrIsNop(t *testing.T) {
	c, err := NewCache(logger.Nop(), Config{})
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), 0, "k", 1, time.Minute))

	var out int
	hit, err := c.Get(context.Background(), 0, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, c.Client())
	assert.NoError(t, c.Invalidate(context.Background()))
}

// Runs against a real server when TEST_REDIS_ADDR is set.
func TestCacheRoundTripAndInvalidate(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	prefix := "storefront:test:" + time.Now().Format("150405.000000000")
	c := NewCacheFromClient(logger.Nop(), rdb, prefix)

	type row struct {
		Date  string `json:"date"`
		Total int    `json:"total"`
	}
	in := []row{{Date: "2024-01-15", Total: 2}}
	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, gen, "orders", in, time.Minute))

	var out []row
	hit, err := c.Get(ctx, gen, "orders", &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, in, out)

	require.NoError(t, c.Invalidate(ctx))
	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	hit, err = c.Get(ctx, next, "orders", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	// A fill computed before the Invalidate lands under the old generation.
	require.NoError(t, c.Set(ctx, gen, "late", in, time.Minute))
	hit, err = c.Get(ctx, next, "late", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
