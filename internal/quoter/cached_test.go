package quoter

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingQuoter counts provider calls so cache hits are observable
type countingQuoter struct {
	stockCalls  int
	cryptoCalls int
	price       decimal.Decimal
}

func (c *countingQuoter) FetchStockPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	c.stockCalls++
	return c.price, nil
}

func (c *countingQuoter) FetchCryptoPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	c.cryptoCalls++
	return c.price, nil
}

// testRedis connects to TEST_REDIS_ADDR or skips
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping cache test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	return rdb
}

func TestCachedServesSecondHitFromCache(t *testing.T) {
	rdb := testRedis(t)
	defer rdb.Close()
	ctx := context.Background()
	require.NoError(t, rdb.Del(ctx, "price:stock:CACHETEST").Err())

	inner := &countingQuoter{price: decimal.RequireFromString("42.10")}
	cached := NewCached(inner, rdb)

	first, err := cached.FetchStockPrice(ctx, "CACHETEST")
	require.NoError(t, err)
	second, err := cached.FetchStockPrice(ctx, "CACHETEST")
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, inner.stockCalls, "second hit must be served from cache")
}

func TestCachedKeysStockAndCryptoSeparately(t *testing.T) {
	rdb := testRedis(t)
	defer rdb.Close()
	ctx := context.Background()
	require.NoError(t, rdb.Del(ctx, "price:stock:BOTH", "price:crypto:BOTH").Err())

	inner := &countingQuoter{price: decimal.RequireFromString("7.00")}
	cached := NewCached(inner, rdb)

	_, err := cached.FetchStockPrice(ctx, "BOTH")
	require.NoError(t, err)
	_, err = cached.FetchCryptoPrice(ctx, "BOTH")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.stockCalls)
	assert.Equal(t, 1, inner.cryptoCalls)
}
