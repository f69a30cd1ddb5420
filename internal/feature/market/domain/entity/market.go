// Package entity はmarketフィーチャーのドメインモデルを定義します。
package entity

// Profile は上場企業の基本プロフィールです。
// 外部マーケットデータAPIのprofileエンドポイントから取得されます。
type Profile struct {
	Ticker      string  `json:"ticker"`
	CompanyName string  `json:"company_name"`
	Website     string  `json:"website,omitempty"`
	Sector      string  `json:"sector,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	Country     string  `json:"country,omitempty"`
	Exchange    string  `json:"exchange,omitempty"`
	Description string  `json:"description,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	MarketCap   float64 `json:"market_cap"`
	Price       float64 `json:"price"`
}

// Quote はリアルタイム株価情報です。
type Quote struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	DayLow        float64 `json:"day_low"`
	DayHigh       float64 `json:"day_high"`
	YearLow       float64 `json:"year_low"`
	YearHigh      float64 `json:"year_high"`
	MarketCap     float64 `json:"market_cap"`
	Volume        int64   `json:"volume"`
}

// Ratios は主要な財務比率です。データが存在しない項目はnilになります。
type Ratios struct {
	Ticker       string   `json:"ticker"`
	PERatio      *float64 `json:"pe_ratio,omitempty"`
	PBRatio      *float64 `json:"pb_ratio,omitempty"`
	ROE          *float64 `json:"roe,omitempty"`
	ROA          *float64 `json:"roa,omitempty"`
	NetMargin    *float64 `json:"net_margin,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
}

// IncomeStatement は損益計算書の主要項目です（直近期）。
type IncomeStatement struct {
	Ticker      string  `json:"ticker"`
	Date        string  `json:"date"`
	Revenue     float64 `json:"revenue"`
	GrossProfit float64 `json:"gross_profit"`
	EBITDA      float64 `json:"ebitda"`
	NetIncome   float64 `json:"net_income"`
}

// BalanceSheet は貸借対照表の主要項目です（直近期）。
type BalanceSheet struct {
	Ticker            string  `json:"ticker"`
	Date              string  `json:"date"`
	TotalAssets       float64 `json:"total_assets"`
	TotalLiabilities  float64 `json:"total_liabilities"`
	TotalEquity       float64 `json:"total_equity"`
	CashAndEquivalent float64 `json:"cash_and_equivalents"`
}

// CashFlow はキャッシュフロー計算書の主要項目です（直近期）。
type CashFlow struct {
	Ticker             string  `json:"ticker"`
	Date               string  `json:"date"`
	OperatingCashFlow  float64 `json:"operating_cash_flow"`
	FreeCashFlow       float64 `json:"free_cash_flow"`
	CapitalExpenditure float64 `json:"capital_expenditure"`
}

// KeyMetrics はプロフィールとクオートを組み合わせた主要指標です。
// 比較対象企業の金融データ付与（エンリッチメント）で使用します。
type KeyMetrics struct {
	Ticker       string   `json:"ticker"`
	CompanyName  string   `json:"company_name"`
	MarketCap    *float64 `json:"market_cap,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
	Currency     string   `json:"currency"`
}

// Statements は3表をまとめた詳細比較用のバンドルです。
type Statements struct {
	Income  *IncomeStatement `json:"income,omitempty"`
	Balance *BalanceSheet    `json:"balance,omitempty"`
	Cash    *CashFlow        `json:"cash_flow,omitempty"`
}
