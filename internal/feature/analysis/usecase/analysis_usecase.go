// Package usecase はanalysisフィーチャーのビジネスロジックを実装します。
// 企業の特定 → LLMによる分析 → 比較対象の発見 → 金融データ付与 → フィルタ評価
// という比較分析のオーケストレーションを担います。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"

	"comps_backend/internal/feature/analysis/domain/entity"
	companyentity "comps_backend/internal/feature/companies/domain/entity"
	marketentity "comps_backend/internal/feature/market/domain/entity"
	"comps_backend/internal/shared/ratelimiter"
)

const (
	// DefaultComparableCount は比較対象企業数のデフォルトです。
	DefaultComparableCount = 10
	// MaxComparableCount は比較対象企業数の上限です。
	MaxComparableCount = 20
	// MaxRefinementCount は絞り込みで追加取得できる企業数の上限です。
	MaxRefinementCount = 10
)

// ErrInvalidInput は識別子不足や範囲外のパラメータを示します。上流APIは呼ばれません。
var ErrInvalidInput = errors.New("invalid input")

// ErrUpstream はLLMプロバイダの呼び出し失敗を示します。
var ErrUpstream = errors.New("upstream provider error")

// ErrCompanyNotFound は指定IDの企業が登録されていないことを示します。
var ErrCompanyNotFound = errors.New("company not found")

// CompanyAnalyzer はLLMによる企業分析を抽象化するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CompanyAnalyzer interface {
	AnalyzeCompany(ctx context.Context, name, website string) (*entity.CompanyDescription, error)
}

// ComparableFinder はLLMによる比較対象企業の特定を抽象化するインターフェースです。
type ComparableFinder interface {
	FindComparables(ctx context.Context, description string, count int) ([]entity.ComparableCompany, error)
}

// MarketGateway はマーケットデータの参照を抽象化するインターフェースです。
// ティッカーからの企業解決と金融データ付与で使用します。
type MarketGateway interface {
	GetProfile(ctx context.Context, ticker string) (*marketentity.Profile, error)
	GetQuote(ctx context.Context, ticker string) (*marketentity.Quote, error)
	GetRatios(ctx context.Context, ticker string) (*marketentity.Ratios, error)
}

// CompanyStore は登録済み企業の参照を抽象化するインターフェースです。
type CompanyStore interface {
	FindByID(ctx context.Context, id string) (*companyentity.Company, error)
}

// AnalysisUsecase は比較分析のオーケストレーションを提供します。
type AnalysisUsecase struct {
	analyzer  CompanyAnalyzer
	finder    ComparableFinder
	market    MarketGateway
	companies CompanyStore
	limiter   ratelimiter.RateLimiterInterface
	now       func() time.Time
}

// NewAnalysisUsecase はAnalysisUsecaseの新しいインスタンスを生成します。
// marketとcompaniesとlimiterはnil可で、その場合は対応する解決・付与パスが無効になります。
func NewAnalysisUsecase(analyzer CompanyAnalyzer, finder ComparableFinder, market MarketGateway, companies CompanyStore, limiter ratelimiter.RateLimiterInterface) *AnalysisUsecase {
	return &AnalysisUsecase{
		analyzer:  analyzer,
		finder:    finder,
		market:    market,
		companies: companies,
		limiter:   limiter,
		now:       time.Now,
	}
}

// Analyze は企業名とウェブサイトから構造化された企業説明を生成します。
func (u *AnalysisUsecase) Analyze(ctx context.Context, name, website string) (*entity.CompanyDescription, error) {
	if name == "" || website == "" {
		return nil, fmt.Errorf("%w: name and website are required", ErrInvalidInput)
	}
	desc, err := u.analyzer.AnalyzeCompany(ctx, name, website)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return desc, nil
}

// DiscoverOptions は比較対象発見リクエストのオプションです。
type DiscoverOptions struct {
	Count             int
	IncludeFinancials bool
	Filters           entity.FilterSelection
}

// Discover は柔軟な識別子から比較対象企業を発見し、比較結果を組み立てます。
//
// 処理手順:
//  1. 識別子を企業（名前・ウェブサイト・説明）に解決する
//  2. LLMで比較対象企業のリストを生成する
//  3. 金融データ付与が要求されていれば、ティッカーごとにマーケットデータを取得する
//     （個別の失敗は該当企業のデータ欠損とし、リクエスト全体は失敗させない）
//  4. フィルタ条件があれば評価して絞り込む
func (u *AnalysisUsecase) Discover(ctx context.Context, identity entity.CompanyIdentity, opts DiscoverOptions) (*entity.ComparisonResult, error) {
	count, err := normalizeCount(opts.Count, DefaultComparableCount, MaxComparableCount)
	if err != nil {
		return nil, err
	}

	target, description, inputType, err := u.resolveIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	comparables, err := u.finder.FindComparables(ctx, description, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	result := &entity.ComparisonResult{
		TargetCompany:         target,
		FinancialDataIncluded: opts.IncludeFinancials,
		FiltersApplied:        opts.Filters,
		InputType:             inputType,
		AnalysisTimestamp:     u.now().UTC(),
	}

	// フィルタ評価にもプロフィール属性が必要になる
	needsMarketData := opts.IncludeFinancials || !opts.Filters.IsEmpty()
	if needsMarketData && u.market != nil {
		comparables, result.Warnings = u.enrich(ctx, comparables, opts.IncludeFinancials)
	}

	if !opts.Filters.IsEmpty() {
		comparables = EvaluateFilters(comparables, opts.Filters)
	}

	result.ComparableCompanies = comparables
	return result, nil
}

// FindFromDescription は既に得られた企業説明から比較対象企業を特定します。
func (u *AnalysisUsecase) FindFromDescription(ctx context.Context, description string, count int) (string, []entity.ComparableCompany, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil, fmt.Errorf("%w: company description is required", ErrInvalidInput)
	}
	count, err := normalizeCount(count, DefaultComparableCount, MaxComparableCount)
	if err != nil {
		return "", nil, err
	}

	comparables, err := u.finder.FindComparables(ctx, description, count)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return targetNameFromDescription(description), comparables, nil
}

// Refine はユーザーフィードバックに基づいて追加の比較対象企業を検索します。
func (u *AnalysisUsecase) Refine(ctx context.Context, description, feedback, refinementType string, additionalCount int) (*entity.RefinementResult, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, fmt.Errorf("%w: user feedback is required", ErrInvalidInput)
	}
	count, err := normalizeCount(additionalCount, 5, MaxRefinementCount)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Original company description: %s

User feedback: %s
Refinement type: %s

Please find %d additional comparable companies that address the user's feedback.
Focus on the specific refinement area mentioned.`, description, feedback, refinementType, count)

	companies, err := u.finder.FindComparables(ctx, prompt, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return &entity.RefinementResult{
		UserFeedback:        feedback,
		RefinementType:      refinementType,
		AdditionalCompanies: companies,
		RefinementTimestamp: u.now().UTC(),
	}, nil
}

// resolveIdentity は柔軟な識別子を分析対象企業と説明文に解決します。
func (u *AnalysisUsecase) resolveIdentity(ctx context.Context, identity entity.CompanyIdentity) (entity.TargetCompany, string, string, error) {
	switch {
	case identity.ID != "":
		if u.companies == nil {
			return entity.TargetCompany{}, "", "", fmt.Errorf("%w: company store is unavailable", ErrInvalidInput)
		}
		company, err := u.companies.FindByID(ctx, identity.ID)
		if err != nil {
			return entity.TargetCompany{}, "", "", fmt.Errorf("%w: %s", ErrCompanyNotFound, identity.ID)
		}
		description := company.Description
		if description == "" {
			description = fmt.Sprintf("%s is a %s company founded in %d.", company.Name, company.Industry, company.FoundedYear)
		}
		return entity.TargetCompany{
			ID:          company.ID,
			Name:        company.Name,
			Website:     placeholderWebsite(company.Name),
			Description: description,
		}, description, "company_id", nil

	case identity.Ticker != "":
		if u.market == nil {
			return entity.TargetCompany{}, "", "", fmt.Errorf("%w: ticker resolution requires market data", ErrInvalidInput)
		}
		profile, err := u.market.GetProfile(ctx, identity.Ticker)
		if err != nil {
			return entity.TargetCompany{}, "", "", fmt.Errorf("%w: profile lookup failed: %v", ErrUpstream, err)
		}
		name := profile.CompanyName
		if name == "" {
			name = identity.Ticker
		}
		website := profile.Website
		if website != "" && !strings.HasPrefix(website, "http") {
			website = "https://" + website
		}
		if website == "" {
			website = placeholderWebsite(name)
		}
		desc, err := u.analyzer.AnalyzeCompany(ctx, name, website)
		if err != nil {
			return entity.TargetCompany{}, "", "", fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return entity.TargetCompany{Name: name, Website: website, Description: desc.Description}, desc.Description, "ticker", nil

	case identity.Name != "" && identity.Website != "":
		desc, err := u.analyzer.AnalyzeCompany(ctx, identity.Name, identity.Website)
		if err != nil {
			return entity.TargetCompany{}, "", "", fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return entity.TargetCompany{Name: identity.Name, Website: identity.Website, Description: desc.Description},
			desc.Description, "name_and_website", nil

	case identity.Name != "":
		website := placeholderWebsite(identity.Name)
		description := ""
		if desc, err := u.analyzer.AnalyzeCompany(ctx, identity.Name, website); err == nil {
			description = desc.Description
		} else {
			// 名前のみの入力は分析失敗を許容し、素朴な説明で継続する
			slog.Warn("analysis failed for name-only input, using fallback description",
				"company", identity.Name, "error", err)
			description = fmt.Sprintf("%s is a company that we're analyzing for comparable companies.", identity.Name)
		}
		return entity.TargetCompany{Name: identity.Name, Website: website, Description: description},
			description, "name_only", nil

	case identity.Website != "":
		name := nameFromWebsite(identity.Website)
		description := ""
		if desc, err := u.analyzer.AnalyzeCompany(ctx, name, identity.Website); err == nil {
			description = desc.Description
		} else {
			slog.Warn("analysis failed for website-only input, using fallback description",
				"website", identity.Website, "error", err)
			description = fmt.Sprintf("%s is a company with website %s that we're analyzing for comparable companies.", name, identity.Website)
		}
		return entity.TargetCompany{Name: name, Website: identity.Website, Description: description},
			description, "website_only", nil

	default:
		return entity.TargetCompany{}, "", "",
			fmt.Errorf("%w: at least one of id, name, website or ticker must be provided", ErrInvalidInput)
	}
}

// enrich はティッカーごとにマーケットデータを取得して比較対象企業に付与します。
// 個別ティッカーの失敗はwarningsに記録し、処理は継続します。
func (u *AnalysisUsecase) enrich(ctx context.Context, companies []entity.ComparableCompany, includeFinancials bool) ([]entity.ComparableCompany, []string) {
	var warnings []string

	for i := range companies {
		ticker := strings.ToUpper(strings.TrimSpace(companies[i].Ticker))
		if ticker == "" {
			warnings = append(warnings, fmt.Sprintf("no ticker for %s", companies[i].Name))
			continue
		}
		companies[i].Ticker = ticker

		u.wait()
		profile, err := u.market.GetProfile(ctx, ticker)
		if err != nil {
			slog.Warn("financial enrichment skipped", "ticker", ticker, "error", err)
			warnings = append(warnings, fmt.Sprintf("financial data unavailable for %s", ticker))
			continue
		}

		companies[i].Region = RegionForCountry(profile.Country)
		companies[i].Sector = SectorLabel(profile.Sector)
		companies[i].MarketCap = profile.MarketCap

		if !includeFinancials {
			continue
		}

		metrics := &entity.FinancialMetrics{
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

		u.wait()
		if quote, err := u.market.GetQuote(ctx, ticker); err == nil {
			price := quote.Price
			metrics.CurrentPrice = &price
		}

		u.wait()
		if ratios, err := u.market.GetRatios(ctx, ticker); err == nil {
			metrics.PERatio = ratios.PERatio
			metrics.PBRatio = ratios.PBRatio
			metrics.ROE = ratios.ROE
			metrics.ROA = ratios.ROA
			metrics.NetMargin = ratios.NetMargin
			metrics.CurrentRatio = ratios.CurrentRatio
			metrics.DebtToEquity = ratios.DebtToEquity
		}

		companies[i].Metrics = metrics
	}

	return companies, warnings
}

// wait はレートリミッタが設定されていれば待機します。
func (u *AnalysisUsecase) wait() {
	if u.limiter != nil {
		u.limiter.WaitIfNeeded()
	}
}

// normalizeCount は件数を検証し、未指定（0）ならデフォルト値を返します。
func normalizeCount(count, def, max int) (int, error) {
	if count == 0 {
		return def, nil
	}
	if count < 1 || count > max {
		return 0, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidInput, max)
	}
	return count, nil
}

// placeholderWebsite は企業名からプレースホルダのURLを組み立てます。
func placeholderWebsite(name string) string {
	return "https://" + strings.ToLower(strings.ReplaceAll(name, " ", "")) + ".com"
}

// nameFromWebsite はウェブサイトURLから企業名らしき文字列を抽出します。
func nameFromWebsite(website string) string {
	host := website
	if u, err := url.Parse(website); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}
	return title(host)
}

// title は先頭文字を大文字にします。
func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// targetNameFromDescription は説明文から "name:" 形式の企業名を抽出します。
func targetNameFromDescription(description string) string {
	lower := strings.ToLower(description)
	idx := strings.Index(lower, "name:")
	if idx < 0 {
		return "Unknown Company"
	}
	rest := description[idx+len("name:"):]
	if end := strings.Index(rest, "\n"); end >= 0 {
		rest = rest[:end]
	}
	name := strings.TrimSpace(rest)
	if name == "" {
		return "Unknown Company"
	}
	return name
}
