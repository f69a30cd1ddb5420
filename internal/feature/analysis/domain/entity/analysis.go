// Package entity はanalysisフィーチャーのドメインモデルを定義します。
package entity

import "time"

// CompanyIdentity は分析対象企業を特定する柔軟な入力です。
// 少なくとも1つのフィールドが設定されている必要があります。
type CompanyIdentity struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Website string `json:"website,omitempty"`
	Ticker  string `json:"ticker,omitempty"`
}

// IsEmpty はすべてのフィールドが未設定かどうかを返します。
func (i CompanyIdentity) IsEmpty() bool {
	return i.ID == "" && i.Name == "" && i.Website == "" && i.Ticker == ""
}

// CompanyDescription はLLMが生成した企業の構造化された説明です。
// description以外のフィールドは自由記述であり、欠損し得ます。
type CompanyDescription struct {
	Name               string `json:"name"`
	Website            string `json:"website"`
	Description        string `json:"description"`
	Industry           string `json:"industry,omitempty"`
	BusinessModel      string `json:"business_model,omitempty"`
	ProductsOrServices string `json:"products_or_services,omitempty"`
	TargetMarket       string `json:"target_market,omitempty"`
	CompanySize        string `json:"company_size,omitempty"`
	GeographicPresence string `json:"geographic_presence,omitempty"`
	KeyDifferentiators string `json:"key_differentiators,omitempty"`
}

// FinancialMetrics は比較対象企業の金融指標です。
// 動的な辞書ではなく、既知のフィールドを列挙した型として表現します。
// データが取得できなかった項目はnilになります。
type FinancialMetrics struct {
	Ticker       string   `json:"ticker"`
	CompanyName  string   `json:"company_name,omitempty"`
	MarketCap    *float64 `json:"market_cap,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
	PERatio      *float64 `json:"pe_ratio,omitempty"`
	PBRatio      *float64 `json:"pb_ratio,omitempty"`
	ROE          *float64 `json:"roe,omitempty"`
	ROA          *float64 `json:"roa,omitempty"`
	NetMargin    *float64 `json:"net_margin,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	Currency     string   `json:"currency,omitempty"`
}

// ComparableCompany はLLMが特定した比較対象の上場企業です。
type ComparableCompany struct {
	Name      string            `json:"name"`
	Ticker    string            `json:"ticker"`
	Rationale string            `json:"rationale"`
	Metrics   *FinancialMetrics `json:"financial_metrics,omitempty"`

	// フィルタ評価用の属性。マーケットデータのプロフィールから補完されます。
	// MarketCapは金融指標を付与しない場合でもサイズフィルタ判定に使います。
	Region    string  `json:"region,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	MarketCap float64 `json:"-"`
}

// TargetCompany は比較結果における分析対象企業のサブセットです。
type TargetCompany struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description"`
}

// ComparisonResult は1回の比較分析の結果です。
// チャットアシスタントのインデックス対象であり、テーブル描画の単位でもあります。
type ComparisonResult struct {
	TargetCompany         TargetCompany       `json:"target_company"`
	ComparableCompanies   []ComparableCompany `json:"comparable_companies"`
	FinancialDataIncluded bool                `json:"financial_data_included"`
	FiltersApplied        FilterSelection     `json:"filters_applied,omitzero"`
	Warnings              []string            `json:"warnings,omitempty"`
	InputType             string              `json:"input_type,omitempty"`
	AnalysisTimestamp     time.Time           `json:"analysis_timestamp"`
}

// FilterSelection はユーザーが選択したフィルタ条件です。
// すべて空のときはフィルタなし（全件通過）を意味します。
type FilterSelection struct {
	CompanySize             []string `json:"company_size,omitempty"`
	Geography               []string `json:"geography,omitempty"`
	BusinessCharacteristics []string `json:"business_characteristics,omitempty"`
	IndustrySectors         []string `json:"industry_sectors,omitempty"`
}

// IsEmpty はすべてのカテゴリが未選択かどうかを返します。
func (f FilterSelection) IsEmpty() bool {
	return len(f.CompanySize) == 0 && len(f.Geography) == 0 &&
		len(f.BusinessCharacteristics) == 0 && len(f.IndustrySectors) == 0
}

// RefinementResult は対話的な絞り込み検索の結果です。
type RefinementResult struct {
	UserFeedback        string              `json:"user_feedback"`
	RefinementType      string              `json:"refinement_type"`
	AdditionalCompanies []ComparableCompany `json:"additional_companies"`
	RefinementTimestamp time.Time           `json:"refinement_timestamp"`
}
