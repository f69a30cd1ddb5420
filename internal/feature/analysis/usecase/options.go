package usecase

// FilterOption はフィルタ選択肢の1項目です。
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions はフィルタカテゴリごとの静的な選択肢一覧です。
type FilterOptions struct {
	CompanySize             []FilterOption `json:"company_size"`
	Geography               []FilterOption `json:"geography"`
	BusinessCharacteristics []FilterOption `json:"business_characteristics"`
	IndustrySectors         []FilterOption `json:"industry_sectors"`
}

// GetFilterOptions はUIに提示するフィルタの分類一覧を返します。
func GetFilterOptions() FilterOptions {
	return FilterOptions{
		CompanySize: []FilterOption{
			{Value: "small", Label: "Small Cap (< $2B)"},
			{Value: "mid", Label: "Mid Cap ($2B - $10B)"},
			{Value: "large", Label: "Large Cap ($10B - $100B)"},
			{Value: "mega", Label: "Mega Cap (> $100B)"},
		},
		Geography: []FilterOption{
			{Value: "us", Label: "United States"},
			{Value: "europe", Label: "Europe"},
			{Value: "asia", Label: "Asia"},
			{Value: "global", Label: "Global"},
		},
		BusinessCharacteristics: []FilterOption{
			{Value: "saas", Label: "SaaS/Software"},
			{Value: "ecommerce", Label: "E-commerce"},
			{Value: "marketplace", Label: "Marketplace"},
			{Value: "subscription", Label: "Subscription Model"},
			{Value: "b2b", Label: "B2B"},
			{Value: "b2c", Label: "B2C"},
			{Value: "fintech", Label: "Fintech"},
			{Value: "healthtech", Label: "Health Tech"},
			{Value: "ai_ml", Label: "AI/ML"},
			{Value: "enterprise", Label: "Enterprise Software"},
		},
		IndustrySectors: []FilterOption{
			{Value: "technology", Label: "Technology"},
			{Value: "healthcare", Label: "Healthcare"},
			{Value: "finance", Label: "Financial Services"},
			{Value: "retail", Label: "Retail"},
			{Value: "manufacturing", Label: "Manufacturing"},
			{Value: "energy", Label: "Energy"},
			{Value: "telecommunications", Label: "Telecommunications"},
			{Value: "consumer_goods", Label: "Consumer Goods"},
		},
	}
}

// RefinementSuggestion は対話的な絞り込みの選択肢です。
type RefinementSuggestion struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// GetRefinementSuggestions は絞り込み検索で利用できる観点の一覧を返します。
func GetRefinementSuggestions() []RefinementSuggestion {
	return []RefinementSuggestion{
		{
			Type:        "industry",
			Description: "Focus on specific industry sectors",
			Examples:    []string{"technology", "healthcare", "finance", "retail"},
		},
		{
			Type:        "size",
			Description: "Filter by company size",
			Examples:    []string{"small cap", "mid cap", "large cap", "enterprise"},
		},
		{
			Type:        "geography",
			Description: "Focus on specific geographic regions",
			Examples:    []string{"North America", "Europe", "Asia", "emerging markets"},
		},
		{
			Type:        "business_model",
			Description: "Filter by business model",
			Examples:    []string{"SaaS", "e-commerce", "marketplace", "subscription"},
		},
	}
}
