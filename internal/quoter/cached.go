package quoter

import (
	"context"
	"time"

	"exchange_system/internal/domain"
	"exchange_system/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceTTL bounds how stale a cached price may be
const PriceTTL = 30 * time.Second

// Cached decorates a Quoter with a short-lived redis price cache so a burst
// of dashboard and leaderboard renders does not hammer the provider.
type Cached struct {
	next Quoter        // Underlying quoter
	rdb  *redis.Client // Redis client
	ttl  time.Duration // Cache entry lifetime
}

// NewCached wraps a quoter with the redis price cache
func NewCached(next Quoter, rdb *redis.Client) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: PriceTTL}
}

// FetchStockPrice returns a cached stock price, quoting on a miss
func (c *Cached) FetchStockPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	return c.fetch(ctx, ticker, domain.AssetTypeStock, c.next.FetchStockPrice)
}

// FetchCryptoPrice returns a cached crypto price, quoting on a miss
func (c *Cached) FetchCryptoPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	return c.fetch(ctx, ticker, domain.AssetTypeCrypto, c.next.FetchCryptoPrice)
}

// fetch consults the cache before delegating; cache failures only log, the
// quote itself must still be served
func (c *Cached) fetch(ctx context.Context, ticker, assetType string, fn func(context.Context, string) (decimal.Decimal, error)) (decimal.Decimal, error) {
	key := "price:" + assetType + ":" + ticker // Cache key per asset type and ticker
	var cached decimal.Decimal
	found, err := utils.GetCache(ctx, c.rdb, key, &cached)
	if err == nil && found {
		return cached, nil // Serve from cache
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Price cache read failed")
	}
	price, err := fn(ctx, ticker) // Quote from the provider
	if err != nil {
		return decimal.Zero, err
	}
	if err := utils.SetCache(ctx, c.rdb, key, price, c.ttl); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Price cache write failed")
	}
	return price, nil
}
