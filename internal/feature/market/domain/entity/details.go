package entity

// CompanyDetails は1社分の詳細情報バンドルです。
// セクション単位の取得失敗はWarningsに記録され、取得できた部分のみ返されます。
type CompanyDetails struct {
	Ticker   string           `json:"ticker"`
	Profile  *Profile         `json:"profile,omitempty"`
	Quote    *Quote           `json:"quote,omitempty"`
	Ratios   *Ratios          `json:"ratios,omitempty"`
	Income   *IncomeStatement `json:"financials,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// TickerBundle は詳細比較における1ティッカー分のデータです。
type TickerBundle struct {
	Ticker     string      `json:"ticker"`
	Profile    *Profile    `json:"profile,omitempty"`
	Quote      *Quote      `json:"quote,omitempty"`
	Ratios     *Ratios     `json:"ratios,omitempty"`
	Statements *Statements `json:"statements,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
}
