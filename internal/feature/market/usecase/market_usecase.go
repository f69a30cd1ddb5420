// Package usecase はmarketフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"comps_backend/internal/feature/market/domain/entity"
	"comps_backend/internal/shared/ratelimiter"
)

const (
	// MaxComparisonTickers は詳細比較で同時に指定できるティッカー数の上限です。
	MaxComparisonTickers = 10
	// DefaultPeriod は財務諸表取得のデフォルト期間です。
	DefaultPeriod = "annual"
)

// ErrTickerNotFound は指定ティッカーのデータが存在しないことを示します。
var ErrTickerNotFound = errors.New("ticker not found")

// ErrNotConfigured はマーケットデータAPIキーが未設定であることを示します。
var ErrNotConfigured = errors.New("market data api key not configured")

// MarketRepository は外部マーケットデータAPIを抽象化するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	GetProfile(ctx context.Context, ticker string) (*entity.Profile, error)
	GetQuote(ctx context.Context, ticker string) (*entity.Quote, error)
	GetQuotes(ctx context.Context, tickers []string) ([]entity.Quote, error)
	GetRatios(ctx context.Context, ticker string) (*entity.Ratios, error)
	GetIncomeStatement(ctx context.Context, ticker, period string) (*entity.IncomeStatement, error)
	GetBalanceSheet(ctx context.Context, ticker, period string) (*entity.BalanceSheet, error)
	GetCashFlow(ctx context.Context, ticker, period string) (*entity.CashFlow, error)
}

// MarketUsecase はマーケットデータ取得のビジネスロジックを提供します。
type MarketUsecase struct {
	repo    MarketRepository
	limiter ratelimiter.RateLimiterInterface
}

// NewMarketUsecase はMarketUsecaseの新しいインスタンスを生成します。
// limiterは外部APIの呼び出し頻度制限に使用されます（nil可）。
func NewMarketUsecase(repo MarketRepository, limiter ratelimiter.RateLimiterInterface) *MarketUsecase {
	return &MarketUsecase{repo: repo, limiter: limiter}
}

// GetProfile は企業プロフィールを取得します。
func (u *MarketUsecase) GetProfile(ctx context.Context, ticker string) (*entity.Profile, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	return u.repo.GetProfile(ctx, ticker)
}

// GetQuote はリアルタイムクオートを取得します。
func (u *MarketUsecase) GetQuote(ctx context.Context, ticker string) (*entity.Quote, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	return u.repo.GetQuote(ctx, ticker)
}

// GetQuotes は複数ティッカーのクオートを一括取得します。
// 単一要素にカンマ区切りで渡された場合も展開します。
func (u *MarketUsecase) GetQuotes(ctx context.Context, tickers []string) ([]entity.Quote, error) {
	if len(tickers) == 1 && strings.Contains(tickers[0], ",") {
		tickers = strings.Split(tickers[0], ",")
	}
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = normalizeTicker(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("at least one ticker is required")
	}
	return u.repo.GetQuotes(ctx, normalized)
}

// GetRatios は財務比率を取得します。
func (u *MarketUsecase) GetRatios(ctx context.Context, ticker string) (*entity.Ratios, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	return u.repo.GetRatios(ctx, ticker)
}

// GetKeyMetrics はプロフィールとクオートを組み合わせて主要指標を返します。
// クオートの取得に失敗しても、プロフィールが取れていれば部分的な結果を返します。
func (u *MarketUsecase) GetKeyMetrics(ctx context.Context, ticker string) (*entity.KeyMetrics, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	profile, err := u.repo.GetProfile(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("profile lookup for %s: %w", ticker, err)
	}

	metrics := &entity.KeyMetrics{
		Ticker:      ticker,
		CompanyName: profile.CompanyName,
		Currency:    profile.Currency,
	}
	if metrics.Currency == "" {
		metrics.Currency = "USD"
	}
	if profile.MarketCap > 0 {
		mc := profile.MarketCap
		metrics.MarketCap = &mc
	}

	if quote, err := u.repo.GetQuote(ctx, ticker); err == nil {
		price := quote.Price
		metrics.CurrentPrice = &price
	}

	return metrics, nil
}

// GetCompanyDetails は1社分の詳細情報（プロフィール・クオート・比率・財務）を取得します。
// プロフィールの取得失敗は全体エラー、他のセクションの失敗はWarningsに落とします。
func (u *MarketUsecase) GetCompanyDetails(ctx context.Context, ticker string, includeFinancials, includeRatios bool) (*entity.CompanyDetails, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	details := &entity.CompanyDetails{Ticker: ticker}

	profile, err := u.repo.GetProfile(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("profile lookup for %s: %w", ticker, err)
	}
	details.Profile = profile

	if quote, err := u.repo.GetQuote(ctx, ticker); err == nil {
		details.Quote = quote
	} else {
		details.Warnings = append(details.Warnings, "quote unavailable")
	}

	if includeRatios {
		if ratios, err := u.repo.GetRatios(ctx, ticker); err == nil {
			details.Ratios = ratios
		} else {
			details.Warnings = append(details.Warnings, "ratios unavailable")
		}
	}

	if includeFinancials {
		if income, err := u.repo.GetIncomeStatement(ctx, ticker, DefaultPeriod); err == nil {
			details.Income = income
		} else {
			details.Warnings = append(details.Warnings, "financials unavailable")
		}
	}

	return details, nil
}

// GetDetailedComparison は複数ティッカーの詳細比較データを取得します。
// 個別ティッカーの失敗は該当ティッカーのWarningsに落とし、リクエスト全体は成功させます。
func (u *MarketUsecase) GetDetailedComparison(ctx context.Context, tickers []string, includeRatios, includeStatements bool) ([]entity.TickerBundle, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("at least one ticker is required")
	}
	if len(tickers) > MaxComparisonTickers {
		return nil, fmt.Errorf("maximum %d tickers allowed for comparison", MaxComparisonTickers)
	}

	bundles := make([]entity.TickerBundle, 0, len(tickers))
	for _, raw := range tickers {
		ticker := normalizeTicker(raw)
		bundle := entity.TickerBundle{Ticker: ticker}

		u.wait()
		if profile, err := u.repo.GetProfile(ctx, ticker); err == nil {
			bundle.Profile = profile
		} else {
			bundle.Warnings = append(bundle.Warnings, "profile unavailable")
		}

		u.wait()
		if quote, err := u.repo.GetQuote(ctx, ticker); err == nil {
			bundle.Quote = quote
		} else {
			bundle.Warnings = append(bundle.Warnings, "quote unavailable")
		}

		if includeRatios {
			u.wait()
			if ratios, err := u.repo.GetRatios(ctx, ticker); err == nil {
				bundle.Ratios = ratios
			} else {
				bundle.Warnings = append(bundle.Warnings, "ratios unavailable")
			}
		}

		if includeStatements {
			st := &entity.Statements{}
			u.wait()
			if income, err := u.repo.GetIncomeStatement(ctx, ticker, DefaultPeriod); err == nil {
				st.Income = income
			}
			u.wait()
			if balance, err := u.repo.GetBalanceSheet(ctx, ticker, DefaultPeriod); err == nil {
				st.Balance = balance
			}
			u.wait()
			if cash, err := u.repo.GetCashFlow(ctx, ticker, DefaultPeriod); err == nil {
				st.Cash = cash
			}
			if st.Income == nil && st.Balance == nil && st.Cash == nil {
				bundle.Warnings = append(bundle.Warnings, "statements unavailable")
			} else {
				bundle.Statements = st
			}
		}

		bundles = append(bundles, bundle)
	}

	return bundles, nil
}

// wait はレートリミッタが設定されていれば待機します。
func (u *MarketUsecase) wait() {
	if u.limiter != nil {
		u.limiter.WaitIfNeeded()
	}
}

// normalizeTicker はティッカーの前後空白を除去し大文字に揃えます。
func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
