// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"comps_backend/internal/api"
	"comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/analysis/transport/http/dto"
	"comps_backend/internal/feature/analysis/usecase"
)

// AnalysisUsecase は比較分析のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	Analyze(ctx context.Context, name, website string) (*entity.CompanyDescription, error)
	Discover(ctx context.Context, identity entity.CompanyIdentity, opts usecase.DiscoverOptions) (*entity.ComparisonResult, error)
	FindFromDescription(ctx context.Context, description string, count int) (string, []entity.ComparableCompany, error)
	Refine(ctx context.Context, description, feedback, refinementType string, additionalCount int) (*entity.RefinementResult, error)
}

// AnalysisHandler は比較分析に関するHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// Analyze は企業名とウェブサイトから構造化された企業説明を生成します。
//
// エンドポイント: POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "name and website are required"})
		return
	}

	desc, err := h.uc.Analyze(c.Request.Context(), req.Name, req.Website)
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, desc)
}

// FindComparables は柔軟な識別子から比較対象企業を発見します（金融データなし）。
//
// エンドポイント: POST /api/find-comparables
func (h *AnalysisHandler) FindComparables(c *gin.Context) {
	h.discover(c, false)
}

// FindComparablesWithFinancials は比較対象企業を金融データ付きで発見します。
//
// エンドポイント: POST /api/comparables-with-financials
func (h *AnalysisHandler) FindComparablesWithFinancials(c *gin.Context) {
	h.discover(c, true)
}

// discover は比較対象発見の共通処理です。
func (h *AnalysisHandler) discover(c *gin.Context, financialsDefault bool) {
	var req dto.FindComparablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	includeFinancials := financialsDefault
	if req.IncludeFinancials != nil {
		includeFinancials = *req.IncludeFinancials
	}

	result, err := h.uc.Discover(c.Request.Context(), req.Identity(), usecase.DiscoverOptions{
		Count:             req.Count,
		IncludeFinancials: includeFinancials,
		Filters:           req.Filters,
	})
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// FindFromDescription は企業説明から比較対象企業を特定します。
//
// エンドポイント: POST /api/comparable
func (h *AnalysisHandler) FindFromDescription(c *gin.Context) {
	var req dto.ComparableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "company_description is required"})
		return
	}

	target, companies, err := h.uc.FindFromDescription(c.Request.Context(), req.CompanyDescription, req.Count)
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ComparableResponse{
		TargetCompany:       target,
		ComparableCompanies: companies,
	})
}

// Refine はユーザーフィードバックに基づく追加の比較対象検索を行います。
//
// エンドポイント: POST /api/refine-comparables
func (h *AnalysisHandler) Refine(c *gin.Context) {
	var req dto.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "original_request, user_feedback and refinement_type are required"})
		return
	}

	result, err := h.uc.Refine(c.Request.Context(),
		req.OriginalRequest.CompanyDescription, req.UserFeedback, req.RefinementType, req.AdditionalCount)
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFilterOptions はフィルタの静的な分類一覧を返します。
//
// エンドポイント: GET /api/filter-options
func (h *AnalysisHandler) GetFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, usecase.GetFilterOptions())
}

// GetRefinementSuggestions は絞り込み検索の観点一覧を返します。
//
// エンドポイント: GET /api/refinement-suggestions
func (h *AnalysisHandler) GetRefinementSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"refinement_types": usecase.GetRefinementSuggestions()})
}

// writeAnalysisError はユースケースのエラーをHTTPステータスに変換します。
func (h *AnalysisHandler) writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrUpstream):
		slog.Error("upstream provider failed", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "analysis provider request failed"})
	default:
		slog.Error("analysis request failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
