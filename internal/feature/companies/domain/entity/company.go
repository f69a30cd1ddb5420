// Package entity はcompaniesフィーチャーのドメインモデルを定義します。
package entity

import "time"

// CompanySize は企業規模の区分です。
type CompanySize string

const (
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// Company は登録済み企業のレコードです。
type Company struct {
	ID           string      `json:"id" gorm:"primaryKey;size:64"`
	Name         string      `json:"name" gorm:"size:255;not null"`
	Industry     string      `json:"industry" gorm:"size:100;not null"`
	Size         CompanySize `json:"size" gorm:"size:20;not null"`
	FoundedYear  int         `json:"founded_year" gorm:"not null"`
	Description  string      `json:"description,omitempty"`
	Revenue      float64     `json:"revenue" gorm:"not null"`
	ProfitMargin float64     `json:"profit_margin" gorm:"not null"`
	GrowthRate   float64     `json:"growth_rate" gorm:"not null"`
	MarketShare  *float64    `json:"market_share,omitempty"`
	UpdatedAt    time.Time   `json:"-" gorm:"autoUpdateTime"`
}

// MetricComparison は登録企業同士の指標比較結果です。
type MetricComparison struct {
	Companies []string                      `json:"companies"`
	Metrics   map[string]map[string]float64 `json:"metrics"`
	Summary   map[string]string             `json:"summary"`
}
