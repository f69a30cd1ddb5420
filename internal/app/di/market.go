// Package di はアプリケーションコンポーネントを組み立てるDIファクトリを提供します。
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"comps_backend/internal/feature/market/adapters/fmp"
	marketusecase "comps_backend/internal/feature/market/usecase"
	"comps_backend/internal/platform/cache"
	platformhttp "comps_backend/internal/platform/http"
	"comps_backend/internal/shared/ratelimiter"
)

const (
	// marketCacheTTL はマーケットデータのキャッシュ有効期限です。
	marketCacheTTL = 15 * time.Minute
	// marketCallsPerMinute はFMP APIの1分あたりの呼び出し上限です。
	marketCallsPerMinute = 250
)

// NewMarketRepository はFMPクライアントをRedisキャッシュでラップしたリポジトリを生成します。
// rdbがnilの場合、キャッシュは無効化され常にFMPへ問い合わせます。
func NewMarketRepository(rdb *redis.Client) marketusecase.MarketRepository {
	cfg := fmp.LoadConfig()
	client := fmp.NewClient(cfg, platformhttp.NewHTTPClient(cfg.Timeout))
	return cache.NewCachingMarketRepository(rdb, marketCacheTTL, client, "market")
}

// NewMarketUsecase はレートリミッタ付きのMarketUsecaseを生成します。
func NewMarketUsecase(rdb *redis.Client) *marketusecase.MarketUsecase {
	limiter := ratelimiter.NewRateLimiter(marketCallsPerMinute, time.Minute)
	return marketusecase.NewMarketUsecase(NewMarketRepository(rdb), limiter)
}
