// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysishandler "comps_backend/internal/feature/analysis/transport/handler"
	chathandler "comps_backend/internal/feature/chat/transport/handler"
	companyhandler "comps_backend/internal/feature/companies/transport/handler"
	markethandler "comps_backend/internal/feature/market/transport/handler"
	platformhandler "comps_backend/internal/platform/http/handler"
)

// NewRouter はすべてのエンドポイントを登録したgin.Engineを生成します。
func NewRouter(analysis *analysishandler.AnalysisHandler, market *markethandler.MarketHandler,
	companies *companyhandler.CompanyHandler, rag *chathandler.RAGHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig()))

	// 導通確認用
	r.GET("/", platformhandler.Root)
	r.GET("/health", platformhandler.Health)

	api := r.Group("/api")
	{
		// LLMによる企業分析と比較対象探索
		api.POST("/analyze", analysis.Analyze)
		api.POST("/comparable", analysis.FindFromDescription)
		api.POST("/find-comparables", analysis.FindComparables)
		api.POST("/comparables-with-financials", analysis.FindComparablesWithFinancials)
		api.POST("/refine-comparables", analysis.Refine)
		api.GET("/refinement-suggestions", analysis.GetRefinementSuggestions)
		api.GET("/filter-options", analysis.GetFilterOptions)

		// マーケットデータ
		api.POST("/detailed-comparison", market.GetDetailedComparison)
		api.POST("/company-details", market.GetCompanyDetails)
		marketGroup := api.Group("/market")
		{
			marketGroup.GET("/profile/:ticker", market.GetProfile)
			marketGroup.GET("/quote/:ticker", market.GetQuote)
			marketGroup.GET("/price/:ticker", market.GetPrice)
			marketGroup.GET("/quotes", market.GetQuotes)
		}

		// 登録企業のCRUDと指標比較
		api.GET("/companies", companies.List)
		api.GET("/companies/:id", companies.Get)
		api.POST("/companies", companies.Create)
		api.PUT("/companies/:id", companies.Update)
		api.DELETE("/companies/:id", companies.Delete)
		api.GET("/compare", companies.Compare)

		// RAGチャットアシスタント
		ragGroup := api.Group("/rag")
		{
			ragGroup.POST("/update-context", rag.UpdateContext)
			ragGroup.POST("/chat", rag.Chat)
			ragGroup.GET("/context-info", rag.GetContextInfo)
			ragGroup.GET("/conversation-history", rag.GetConversationHistory)
			ragGroup.POST("/clear-conversation", rag.ClearConversation)
		}
	}

	return r
}

// corsConfig はフロントエンド向けのCORS設定を生成します。
// 許可オリジンは ALLOWED_ORIGINS（カンマ区切り）で上書きできます。
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{"http://localhost:3000"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
