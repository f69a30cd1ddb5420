// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"comps_backend/internal/feature/market/domain/entity"
	"comps_backend/internal/feature/market/usecase"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// Profile, quote and ratios lookups are cached per ticker; statement lookups
// pass through because they are only requested by the detailed comparison.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, it defaults to 15 minutes. If namespace is empty, it uses "market".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetProfile retrieves a profile, checking cache first then falling back to the API.
func (c *CachingMarketRepository) GetProfile(ctx context.Context, ticker string) (*entity.Profile, error) {
	return cached(ctx, c, "profile", ticker, func() (*entity.Profile, error) {
		return c.inner.GetProfile(ctx, ticker)
	})
}

// GetQuote retrieves a quote, checking cache first then falling back to the API.
func (c *CachingMarketRepository) GetQuote(ctx context.Context, ticker string) (*entity.Quote, error) {
	return cached(ctx, c, "quote", ticker, func() (*entity.Quote, error) {
		return c.inner.GetQuote(ctx, ticker)
	})
}

// GetRatios retrieves ratios, checking cache first then falling back to the API.
func (c *CachingMarketRepository) GetRatios(ctx context.Context, ticker string) (*entity.Ratios, error) {
	return cached(ctx, c, "ratios", ticker, func() (*entity.Ratios, error) {
		return c.inner.GetRatios(ctx, ticker)
	})
}

// GetQuotes passes through; multi-ticker combinations are not worth caching.
func (c *CachingMarketRepository) GetQuotes(ctx context.Context, tickers []string) ([]entity.Quote, error) {
	return c.inner.GetQuotes(ctx, tickers)
}

// GetIncomeStatement passes through to the underlying repository.
func (c *CachingMarketRepository) GetIncomeStatement(ctx context.Context, ticker, period string) (*entity.IncomeStatement, error) {
	return c.inner.GetIncomeStatement(ctx, ticker, period)
}

// GetBalanceSheet passes through to the underlying repository.
func (c *CachingMarketRepository) GetBalanceSheet(ctx context.Context, ticker, period string) (*entity.BalanceSheet, error) {
	return c.inner.GetBalanceSheet(ctx, ticker, period)
}

// GetCashFlow passes through to the underlying repository.
func (c *CachingMarketRepository) GetCashFlow(ctx context.Context, ticker, period string) (*entity.CashFlow, error) {
	return c.inner.GetCashFlow(ctx, ticker, period)
}

// cached implements the cache-aside pattern for a single-ticker lookup.
func cached[T any](ctx context.Context, c *CachingMarketRepository, kind, ticker string, fetch func() (*T, error)) (*T, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return fetch()
	}

	key := c.cacheKey(kind, ticker)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the external API
	out, err := fetch()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific lookup.
func (c *CachingMarketRepository) cacheKey(kind, ticker string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, kind, safe(ticker))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
