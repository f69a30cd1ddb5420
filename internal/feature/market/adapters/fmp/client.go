package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"comps_backend/internal/feature/market/adapters/fmp/dto"
	"comps_backend/internal/feature/market/domain/entity"
	"comps_backend/internal/feature/market/usecase"
)

// Client はFMP APIからマーケットデータを取得するMarketRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// get はFMPのGETエンドポイントを呼び出し、レスポンスボディを返します。
// GETは冪等なため、トランスポート層のエラーは1回だけリトライします。
func (f *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if f.cfg.APIKey == "" {
		return nil, usecase.ErrNotConfigured
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", f.cfg.APIKey)
	u := fmt.Sprintf("%s/%s?%s", f.cfg.BaseURL, path, params.Encode())

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		res, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(res.Body)
		if cerr := res.Body.Close(); cerr != nil {
			slog.Warn("failed to close response body", "error", cerr)
		}
		if err != nil {
			lastErr = err
			continue
		}

		if res.StatusCode == http.StatusNotFound {
			return nil, usecase.ErrTickerNotFound
		}
		if res.StatusCode >= 400 {
			return nil, fmt.Errorf("fmp http %d", res.StatusCode)
		}

		// FMPはHTTP 200でもエラーをオブジェクトとして返すことがある
		var apiErr dto.ErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("fmp: %s", apiErr.ErrorMessage)
		}

		return body, nil
	}
	return nil, fmt.Errorf("fmp request failed: %w", lastErr)
}

// GetProfile は企業プロフィールを取得します。
func (f *Client) GetProfile(ctx context.Context, ticker string) (*entity.Profile, error) {
	body, err := f.get(ctx, "profile/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}

	var items []dto.ProfileItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if len(items) == 0 {
		return nil, usecase.ErrTickerNotFound
	}

	p := items[0]
	return &entity.Profile{
		Ticker:      p.Symbol,
		CompanyName: p.CompanyName,
		Website:     p.Website,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Country:     p.Country,
		Exchange:    p.ExchangeShortName,
		Description: p.Description,
		Currency:    p.Currency,
		MarketCap:   p.MktCap,
		Price:       p.Price,
	}, nil
}

// GetQuote はリアルタイムクオートを取得します。
func (f *Client) GetQuote(ctx context.Context, ticker string) (*entity.Quote, error) {
	body, err := f.get(ctx, "quote/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}

	var items []dto.QuoteItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if len(items) == 0 {
		return nil, usecase.ErrTickerNotFound
	}
	q := quoteFromDTO(items[0])
	return &q, nil
}

// GetQuotes は複数ティッカーのクオートを一括取得します。
func (f *Client) GetQuotes(ctx context.Context, tickers []string) ([]entity.Quote, error) {
	if len(tickers) == 0 {
		return nil, nil
	}
	body, err := f.get(ctx, "quote/"+url.PathEscape(strings.Join(tickers, ",")), nil)
	if err != nil {
		return nil, err
	}

	var items []dto.QuoteItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}

	quotes := make([]entity.Quote, 0, len(items))
	for _, it := range items {
		quotes = append(quotes, quoteFromDTO(it))
	}
	return quotes, nil
}

// GetRatios は直近の主要財務比率を取得します。
func (f *Client) GetRatios(ctx context.Context, ticker string) (*entity.Ratios, error) {
	body, err := f.get(ctx, "ratios/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}

	var items []dto.RatiosItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode ratios: %w", err)
	}
	if len(items) == 0 {
		return nil, usecase.ErrTickerNotFound
	}

	// 先頭が最新期
	r := items[0]
	return &entity.Ratios{
		Ticker:       r.Symbol,
		PERatio:      r.PriceEarningsRatio,
		PBRatio:      r.PriceToBookRatio,
		ROE:          r.ReturnOnEquity,
		ROA:          r.ReturnOnAssets,
		NetMargin:    r.NetProfitMargin,
		CurrentRatio: r.CurrentRatio,
		DebtToEquity: r.DebtEquityRatio,
	}, nil
}

// GetIncomeStatement は直近の損益計算書を取得します。
func (f *Client) GetIncomeStatement(ctx context.Context, ticker, period string) (*entity.IncomeStatement, error) {
	params := url.Values{}
	params.Set("period", period)
	body, err := f.get(ctx, "income-statement/"+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}

	var items []dto.IncomeStatementItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode income statement: %w", err)
	}
	if len(items) == 0 {
		return nil, usecase.ErrTickerNotFound
	}
	i := items[0]
	return &entity.IncomeStatement{
		Ticker:      i.Symbol,
		Date:        i.Date,
		Revenue:     i.Revenue,
		GrossProfit: i.GrossProfit,
		EBITDA:      i.EBITDA,
		NetIncome:   i.NetIncome,
	}, nil
}

// GetBalanceSheet は直近の貸借対照表を取得します。
func (f *Client) GetBalanceSheet(ctx context.Context, ticker, period string) (*entity.BalanceSheet, error) {
	params := url.Values{}
	params.Set("period", period)
	body, err := f.get(ctx, "balance-sheet-statement/"+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}

	var items []dto.BalanceSheetItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode balance sheet: %w", err)
	}
	if len(items) == 0 {
		return nil, usecase.ErrTickerNotFound
	}
	b := items[0]
	return &entity.BalanceSheet{
		Ticker:            b.Symbol,
		Date:              b.Date,
		TotalAssets:       b.TotalAssets,
		TotalLiabilities:  b.TotalLiabilities,
		TotalEquity:       b.TotalStockholdersEquity,
		CashAndEquivalent: b.CashAndCashEquivalents,
	}, nil
}

// GetCashFlow は直近のキャッシュフロー計算書を取得します。
func (f *Client) GetCashFlow(ctx context.Context, ticker, period string) (*entity.CashFlow, error) {
	params := url.Values{}
	params.Set("period", period)
	body, err := f.get(ctx, "cash-flow-statement/"+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}

	var items []dto.CashFlowItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode cash flow: %w", err)
	}
	if len(items) == 0 {
		return nil, usecase.ErrTickerNotFound
	}
	c := items[0]
	return &entity.CashFlow{
		Ticker:             c.Symbol,
		Date:               c.Date,
		OperatingCashFlow:  c.OperatingCashFlow,
		FreeCashFlow:       c.FreeCashFlow,
		CapitalExpenditure: c.CapitalExpenditure,
	}, nil
}

// quoteFromDTO はFMPのクオートDTOをドメインエンティティに変換します。
func quoteFromDTO(q dto.QuoteItem) entity.Quote {
	return entity.Quote{
		Ticker:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
		DayLow:        q.DayLow,
		DayHigh:       q.DayHigh,
		YearLow:       q.YearLow,
		YearHigh:      q.YearHigh,
		MarketCap:     q.MarketCap,
		Volume:        q.Volume,
	}
}
