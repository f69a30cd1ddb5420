package usecase

import (
	"context"
	"fmt"
	"sort"

	"comps_backend/internal/feature/companies/domain/entity"
)

// Compare は複数の登録企業の指標を比較し、サマリー付きの結果を返します。
// 2社以上の指定が必要です。
func (u *CompanyUsecase) Compare(ctx context.Context, ids []string) (*entity.MetricComparison, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("at least two companies are required for comparison")
	}

	companies := make([]entity.Company, 0, len(ids))
	for _, id := range ids {
		company, err := u.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, id)
		}
		companies = append(companies, *company)
	}

	metrics := make(map[string]map[string]float64, len(companies))
	for _, c := range companies {
		share := 0.0
		if c.MarketShare != nil {
			share = *c.MarketShare
		}
		metrics[c.ID] = map[string]float64{
			"revenue":       c.Revenue,
			"profit_margin": c.ProfitMargin,
			"growth_rate":   c.GrowthRate,
			"market_share":  share,
		}
	}

	return &entity.MetricComparison{
		Companies: ids,
		Metrics:   metrics,
		Summary:   buildComparisonSummary(companies),
	}, nil
}

// buildComparisonSummary は指標ごとに最上位と最下位の差を文章化します。
func buildComparisonSummary(companies []entity.Company) map[string]string {
	summary := make(map[string]string, 4)

	byRevenue := sortedBy(companies, func(c entity.Company) float64 { return c.Revenue })
	top, bottom := byRevenue[0], byRevenue[len(byRevenue)-1]
	if bottom.Revenue > 0 {
		diff := (top.Revenue - bottom.Revenue) / bottom.Revenue * 100
		summary["revenue"] = fmt.Sprintf("%s has %.1f%% higher revenue than %s", top.Name, diff, bottom.Name)
	}

	byMargin := sortedBy(companies, func(c entity.Company) float64 { return c.ProfitMargin })
	top, bottom = byMargin[0], byMargin[len(byMargin)-1]
	summary["profit_margin"] = fmt.Sprintf("%s has a %.1f%% higher profit margin than %s",
		top.Name, top.ProfitMargin-bottom.ProfitMargin, bottom.Name)

	byGrowth := sortedBy(companies, func(c entity.Company) float64 { return c.GrowthRate })
	top, bottom = byGrowth[0], byGrowth[len(byGrowth)-1]
	summary["growth_rate"] = fmt.Sprintf("%s has a %.1f%% higher growth rate than %s",
		top.Name, top.GrowthRate-bottom.GrowthRate, bottom.Name)

	withShare := make([]entity.Company, 0, len(companies))
	for _, c := range companies {
		if c.MarketShare != nil {
			withShare = append(withShare, c)
		}
	}
	if len(withShare) >= 2 {
		byShare := sortedBy(withShare, func(c entity.Company) float64 { return *c.MarketShare })
		top, bottom = byShare[0], byShare[len(byShare)-1]
		summary["market_share"] = fmt.Sprintf("%s has a %.1f%% higher market share than %s",
			top.Name, *top.MarketShare-*bottom.MarketShare, bottom.Name)
	}

	return summary
}

// sortedBy は指標の降順でソートした新しいスライスを返します。
func sortedBy(companies []entity.Company, key func(entity.Company) float64) []entity.Company {
	out := make([]entity.Company, len(companies))
	copy(out, companies)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	return out
}
