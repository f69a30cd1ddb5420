// Package handler はmarketフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"comps_backend/internal/api"
	"comps_backend/internal/feature/market/domain/entity"
	"comps_backend/internal/feature/market/usecase"
)

// MarketUsecase はマーケットデータ取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MarketUsecase interface {
	GetProfile(ctx context.Context, ticker string) (*entity.Profile, error)
	GetQuote(ctx context.Context, ticker string) (*entity.Quote, error)
	GetQuotes(ctx context.Context, tickers []string) ([]entity.Quote, error)
	GetCompanyDetails(ctx context.Context, ticker string, includeFinancials, includeRatios bool) (*entity.CompanyDetails, error)
	GetDetailedComparison(ctx context.Context, tickers []string, includeRatios, includeStatements bool) ([]entity.TickerBundle, error)
}

// MarketHandler はマーケットデータに関するHTTPリクエストを処理します。
type MarketHandler struct {
	uc MarketUsecase
}

// NewMarketHandler はMarketHandlerの新しいインスタンスを生成します。
func NewMarketHandler(uc MarketUsecase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// GetProfile は企業プロフィールを返します。
//
// エンドポイント: GET /api/market/profile/:ticker
func (h *MarketHandler) GetProfile(c *gin.Context) {
	profile, err := h.uc.GetProfile(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		h.writeMarketError(c, err, "profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetQuote はリアルタイムクオートを返します。
//
// エンドポイント: GET /api/market/quote/:ticker
func (h *MarketHandler) GetQuote(c *gin.Context) {
	quote, err := h.uc.GetQuote(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		h.writeMarketError(c, err, "quote")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetPrice は軽量な価格レスポンスを返します。
//
// エンドポイント: GET /api/market/price/:ticker
func (h *MarketHandler) GetPrice(c *gin.Context) {
	quote, err := h.uc.GetQuote(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		h.writeMarketError(c, err, "price")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": quote.Ticker, "price": quote.Price})
}

// GetQuotes は複数ティッカーのクオートを返します。
// ?tickers=AAPL&tickers=MSFT 形式とカンマ区切りの両方を受け付けます。
//
// エンドポイント: GET /api/market/quotes
func (h *MarketHandler) GetQuotes(c *gin.Context) {
	tickers := c.QueryArray("tickers")
	if len(tickers) == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "tickers query parameter is required"})
		return
	}

	quotes, err := h.uc.GetQuotes(c.Request.Context(), tickers)
	if err != nil {
		h.writeMarketError(c, err, "quotes")
		return
	}
	if len(quotes) == 0 {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no quotes found for provided tickers"})
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// companyDetailsRequest は /api/company-details のリクエストボディです。
type companyDetailsRequest struct {
	Ticker            string `json:"ticker" binding:"required"`
	IncludeFinancials *bool  `json:"include_financials"`
	IncludeRatios     *bool  `json:"include_ratios"`
}

// GetCompanyDetails は1社分の詳細情報を返します。
//
// エンドポイント: POST /api/company-details
func (h *MarketHandler) GetCompanyDetails(c *gin.Context) {
	var req companyDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "ticker is required"})
		return
	}

	details, err := h.uc.GetCompanyDetails(c.Request.Context(),
		req.Ticker, boolOrDefault(req.IncludeFinancials, true), boolOrDefault(req.IncludeRatios, true))
	if err != nil {
		h.writeMarketError(c, err, "company details")
		return
	}
	c.JSON(http.StatusOK, details)
}

// detailedComparisonRequest は /api/detailed-comparison のリクエストボディです。
type detailedComparisonRequest struct {
	Tickers           []string            `json:"tickers" binding:"required"`
	IncludeRatios     *bool               `json:"include_ratios"`
	IncludeStatements *bool               `json:"include_statements"`
	Filters           map[string][]string `json:"filters"`
}

// GetDetailedComparison は複数ティッカーの詳細比較データを返します。
//
// エンドポイント: POST /api/detailed-comparison
func (h *MarketHandler) GetDetailedComparison(c *gin.Context) {
	var req detailedComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "tickers are required"})
		return
	}

	bundles, err := h.uc.GetDetailedComparison(c.Request.Context(),
		req.Tickers, boolOrDefault(req.IncludeRatios, true), boolOrDefault(req.IncludeStatements, false))
	if err != nil {
		if errors.Is(err, usecase.ErrNotConfigured) {
			h.writeMarketError(c, err, "detailed comparison")
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickers":            req.Tickers,
		"comparison_data":    bundles,
		"include_ratios":     boolOrDefault(req.IncludeRatios, true),
		"include_statements": boolOrDefault(req.IncludeStatements, false),
		"filters_applied":    req.Filters,
		"timestamp":          time.Now().UTC(),
	})
}

// writeMarketError はユースケースのエラーをHTTPステータスに変換します。
func (h *MarketHandler) writeMarketError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, usecase.ErrTickerNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: what + " not found"})
	case errors.Is(err, usecase.ErrNotConfigured):
		slog.Warn("market data requested without api key", "what", what)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "market data provider is not configured"})
	default:
		slog.Error("market data fetch failed", "what", what, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to fetch " + what})
	}
}

// boolOrDefault はポインタがnilのときデフォルト値を返します。
func boolOrDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
