// Package dto はanalysisフィーチャーのHTTPリクエスト/レスポンス型を定義します。
package dto

import "comps_backend/internal/feature/analysis/domain/entity"

// AnalyzeRequest は /api/analyze のリクエストボディです。
type AnalyzeRequest struct {
	Name    string `json:"name" binding:"required"`
	Website string `json:"website" binding:"required,url"`
}

// FindComparablesRequest は /api/find-comparables と
// /api/comparables-with-financials の共通リクエストボディです。
// 識別子は少なくとも1つ必要です。
type FindComparablesRequest struct {
	CompanyID         string                 `json:"company_id"`
	CompanyName       string                 `json:"company_name"`
	CompanyWebsite    string                 `json:"company_website"`
	Ticker            string                 `json:"ticker"`
	Count             int                    `json:"count"`
	IncludeFinancials *bool                  `json:"include_financials"`
	Filters           entity.FilterSelection `json:"filters"`
}

// Identity はリクエストからCompanyIdentityを組み立てます。
func (r FindComparablesRequest) Identity() entity.CompanyIdentity {
	return entity.CompanyIdentity{
		ID:      r.CompanyID,
		Name:    r.CompanyName,
		Website: r.CompanyWebsite,
		Ticker:  r.Ticker,
	}
}

// ComparableRequest は /api/comparable のリクエストボディです。
type ComparableRequest struct {
	CompanyDescription string `json:"company_description" binding:"required"`
	Count              int    `json:"count"`
}

// ComparableResponse は /api/comparable のレスポンスボディです。
type ComparableResponse struct {
	TargetCompany       string                     `json:"target_company"`
	ComparableCompanies []entity.ComparableCompany `json:"comparable_companies"`
}

// RefineRequest は /api/refine-comparables のリクエストボディです。
type RefineRequest struct {
	OriginalRequest struct {
		CompanyDescription string `json:"company_description"`
	} `json:"original_request" binding:"required"`
	UserFeedback    string `json:"user_feedback" binding:"required"`
	RefinementType  string `json:"refinement_type" binding:"required"`
	AdditionalCount int    `json:"additional_count"`
}
