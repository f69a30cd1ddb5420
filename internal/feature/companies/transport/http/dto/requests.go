// Package dto はcompaniesフィーチャーのHTTPリクエスト/レスポンス型を定義します。
package dto

import "comps_backend/internal/feature/companies/domain/entity"

// CreateCompanyRequest は企業登録リクエストです。
type CreateCompanyRequest struct {
	ID           string   `json:"id" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Industry     string   `json:"industry" binding:"required"`
	Size         string   `json:"size" binding:"required,oneof=small medium large enterprise"`
	FoundedYear  int      `json:"founded_year" binding:"required,gte=1600"`
	Description  string   `json:"description"`
	Revenue      float64  `json:"revenue" binding:"gte=0"`
	ProfitMargin float64  `json:"profit_margin"`
	GrowthRate   float64  `json:"growth_rate"`
	MarketShare  *float64 `json:"market_share"`
}

// ToEntity はリクエストをドメインモデルに変換します。
func (r CreateCompanyRequest) ToEntity() *entity.Company {
	return &entity.Company{
		ID:           r.ID,
		Name:         r.Name,
		Industry:     r.Industry,
		Size:         entity.CompanySize(r.Size),
		FoundedYear:  r.FoundedYear,
		Description:  r.Description,
		Revenue:      r.Revenue,
		ProfitMargin: r.ProfitMargin,
		GrowthRate:   r.GrowthRate,
		MarketShare:  r.MarketShare,
	}
}

// UpdateCompanyRequest は企業更新リクエストです。IDはパスパラメータから取得します。
type UpdateCompanyRequest struct {
	Name         string   `json:"name" binding:"required"`
	Industry     string   `json:"industry" binding:"required"`
	Size         string   `json:"size" binding:"required,oneof=small medium large enterprise"`
	FoundedYear  int      `json:"founded_year" binding:"required,gte=1600"`
	Description  string   `json:"description"`
	Revenue      float64  `json:"revenue" binding:"gte=0"`
	ProfitMargin float64  `json:"profit_margin"`
	GrowthRate   float64  `json:"growth_rate"`
	MarketShare  *float64 `json:"market_share"`
}

// ToEntity はリクエストとパスパラメータのIDからドメインモデルを組み立てます。
func (r UpdateCompanyRequest) ToEntity(id string) *entity.Company {
	return &entity.Company{
		ID:           id,
		Name:         r.Name,
		Industry:     r.Industry,
		Size:         entity.CompanySize(r.Size),
		FoundedYear:  r.FoundedYear,
		Description:  r.Description,
		Revenue:      r.Revenue,
		ProfitMargin: r.ProfitMargin,
		GrowthRate:   r.GrowthRate,
		MarketShare:  r.MarketShare,
	}
}
