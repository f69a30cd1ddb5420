package di

import (
	"time"

	"gorm.io/gorm"

	"comps_backend/internal/feature/analysis/adapters/deepseek"
	analysisusecase "comps_backend/internal/feature/analysis/usecase"
	companyadapters "comps_backend/internal/feature/companies/adapters"
	marketusecase "comps_backend/internal/feature/market/usecase"
	platformhttp "comps_backend/internal/platform/http"
	"comps_backend/internal/shared/ratelimiter"
)

// llmCallsPerMinute はDeepSeek APIの1分あたりの呼び出し上限です。
const llmCallsPerMinute = 60

// NewAnalysisUsecase は比較分析オーケストレータを生成します。
// DeepSeekクライアントが分析と比較対象発見の両方を担います。
func NewAnalysisUsecase(market *marketusecase.MarketUsecase, db *gorm.DB) *analysisusecase.AnalysisUsecase {
	cfg := deepseek.LoadConfig()
	llm := deepseek.NewClient(cfg, platformhttp.NewHTTPClient(cfg.Timeout))
	limiter := ratelimiter.NewRateLimiter(llmCallsPerMinute, time.Minute)
	companies := companyadapters.NewCompanyRepository(db)
	return analysisusecase.NewAnalysisUsecase(llm, llm, market, companies, limiter)
}
