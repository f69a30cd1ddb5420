// Package dto はFMP APIのレスポンス型を定義します。
// FMPのエンドポイントは単一ティッカーの照会でもJSON配列を返すため、
// すべての型はスライスとしてデコードされます。
package dto

// ProfileItem は /profile/{ticker} の1要素です。
type ProfileItem struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Website           string  `json:"website"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Country           string  `json:"country"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Description       string  `json:"description"`
	Currency          string  `json:"currency"`
	MktCap            float64 `json:"mktCap"`
	Price             float64 `json:"price"`
}

// QuoteItem は /quote/{ticker} の1要素です。
type QuoteItem struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	YearLow           float64 `json:"yearLow"`
	YearHigh          float64 `json:"yearHigh"`
	MarketCap         float64 `json:"marketCap"`
	Volume            int64   `json:"volume"`
}

// RatiosItem は /ratios/{ticker} の1要素です。
// FMPは欠損値をnullで返すためポインタで受けます。
type RatiosItem struct {
	Symbol             string   `json:"symbol"`
	PriceEarningsRatio *float64 `json:"priceEarningsRatio"`
	PriceToBookRatio   *float64 `json:"priceToBookRatio"`
	ReturnOnEquity     *float64 `json:"returnOnEquity"`
	ReturnOnAssets     *float64 `json:"returnOnAssets"`
	NetProfitMargin    *float64 `json:"netProfitMargin"`
	CurrentRatio       *float64 `json:"currentRatio"`
	DebtEquityRatio    *float64 `json:"debtEquityRatio"`
}

// IncomeStatementItem は /income-statement/{ticker} の1要素です。
type IncomeStatementItem struct {
	Symbol      string  `json:"symbol"`
	Date        string  `json:"date"`
	Revenue     float64 `json:"revenue"`
	GrossProfit float64 `json:"grossProfit"`
	EBITDA      float64 `json:"ebitda"`
	NetIncome   float64 `json:"netIncome"`
}

// BalanceSheetItem は /balance-sheet-statement/{ticker} の1要素です。
type BalanceSheetItem struct {
	Symbol                  string  `json:"symbol"`
	Date                    string  `json:"date"`
	TotalAssets             float64 `json:"totalAssets"`
	TotalLiabilities        float64 `json:"totalLiabilities"`
	TotalStockholdersEquity float64 `json:"totalStockholdersEquity"`
	CashAndCashEquivalents  float64 `json:"cashAndCashEquivalents"`
}

// CashFlowItem は /cash-flow-statement/{ticker} の1要素です。
type CashFlowItem struct {
	Symbol             string  `json:"symbol"`
	Date               string  `json:"date"`
	OperatingCashFlow  float64 `json:"operatingCashFlow"`
	FreeCashFlow       float64 `json:"freeCashFlow"`
	CapitalExpenditure float64 `json:"capitalExpenditure"`
}

// ErrorResponse はFMPがオブジェクト形式で返すエラーです。
type ErrorResponse struct {
	ErrorMessage string `json:"Error Message"`
}
