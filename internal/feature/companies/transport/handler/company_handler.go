// Package handler はcompaniesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"comps_backend/internal/api"
	"comps_backend/internal/feature/companies/domain/entity"
	"comps_backend/internal/feature/companies/transport/http/dto"
	"comps_backend/internal/feature/companies/usecase"
)

// CompanyUsecase は登録企業のCRUDと指標比較のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CompanyUsecase interface {
	List(ctx context.Context) ([]entity.Company, error)
	FindByID(ctx context.Context, id string) (*entity.Company, error)
	Create(ctx context.Context, company *entity.Company) error
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, id string) error
	Compare(ctx context.Context, ids []string) (*entity.MetricComparison, error)
}

// CompanyHandler は登録企業に関するHTTPリクエストを処理します。
type CompanyHandler struct {
	uc CompanyUsecase
}

// NewCompanyHandler はCompanyHandlerの新しいインスタンスを生成します。
func NewCompanyHandler(uc CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// List はすべての登録企業を返します。
//
// エンドポイント: GET /api/companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.uc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list companies"})
		return
	}
	c.JSON(http.StatusOK, companies)
}

// Get は指定IDの企業を返します。
//
// エンドポイント: GET /api/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.uc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeCompanyError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Create は新しい企業を登録します。
//
// エンドポイント: POST /api/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.uc.Create(c.Request.Context(), req.ToEntity()); err != nil {
		h.writeCompanyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.MessageResponse{Success: true, Message: "company created"})
}

// Update は既存の企業を更新します。
//
// エンドポイント: PUT /api/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.uc.Update(c.Request.Context(), req.ToEntity(c.Param("id"))); err != nil {
		h.writeCompanyError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "company updated"})
}

// Delete は企業を削除します。
//
// エンドポイント: DELETE /api/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeCompanyError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "company deleted"})
}

// Compare は複数の登録企業の指標比較結果を返します。
// ?company_ids=a&company_ids=b 形式とカンマ区切りの両方を受け付けます。
//
// エンドポイント: GET /api/compare
func (h *CompanyHandler) Compare(c *gin.Context) {
	ids := c.QueryArray("company_ids")
	if len(ids) == 1 && strings.Contains(ids[0], ",") {
		ids = strings.Split(ids[0], ",")
	}
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
	}
	if len(ids) < 2 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "at least two company_ids are required"})
		return
	}

	result, err := h.uc.Compare(c.Request.Context(), ids)
	if err != nil {
		h.writeCompanyError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeCompanyError はユースケースのエラーをHTTPステータスに対応付けます。
func (h *CompanyHandler) writeCompanyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrCompanyExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	}
}
