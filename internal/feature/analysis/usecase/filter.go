package usecase

import (
	"strings"

	"comps_backend/internal/feature/analysis/domain/entity"
)

// 時価総額によるサイズ区分の境界値（USD）。区間は下限を含む半開区間です。
const (
	midCapFloor   = 2_000_000_000
	largeCapFloor = 10_000_000_000
	megaCapFloor  = 100_000_000_000
)

// BucketForMarketCap は時価総額をサイズ区分ラベルに分類します。
// small [0,2B), mid [2B,10B), large [10B,100B), mega [100B,∞)
func BucketForMarketCap(marketCap float64) string {
	switch {
	case marketCap >= megaCapFloor:
		return "mega"
	case marketCap >= largeCapFloor:
		return "large"
	case marketCap >= midCapFloor:
		return "mid"
	default:
		return "small"
	}
}

// characteristicKeywords はビジネス特性ラベルとテキスト照合キーワードの対応表です。
var characteristicKeywords = map[string][]string{
	"saas":         {"saas", "software as a service", "software-as-a-service"},
	"ecommerce":    {"e-commerce", "ecommerce", "online retail"},
	"marketplace":  {"marketplace"},
	"subscription": {"subscription"},
	"b2b":          {"b2b", "business-to-business"},
	"b2c":          {"b2c", "business-to-consumer", "consumer"},
	"fintech":      {"fintech", "financial technology", "payments"},
	"healthtech":   {"healthtech", "health tech", "digital health"},
	"ai_ml":        {"ai", "artificial intelligence", "machine learning"},
	"enterprise":   {"enterprise software", "enterprise"},
}

// sectorLabels はマーケットデータAPIのセクター名と業種フィルタ値の対応表です。
var sectorLabels = map[string]string{
	"technology":             "technology",
	"healthcare":             "healthcare",
	"financial services":     "finance",
	"financial":              "finance",
	"consumer cyclical":      "retail",
	"retail":                 "retail",
	"industrials":            "manufacturing",
	"basic materials":        "manufacturing",
	"energy":                 "energy",
	"communication services": "telecommunications",
	"consumer defensive":     "consumer_goods",
}

// europeanCountries / asianCountries はプロフィールのcountryコードを地域に対応付けます。
var (
	europeanCountries = map[string]bool{
		"GB": true, "DE": true, "FR": true, "NL": true, "SE": true, "CH": true,
		"ES": true, "IT": true, "IE": true, "DK": true, "NO": true, "FI": true,
		"BE": true, "AT": true, "PT": true, "LU": true,
	}
	asianCountries = map[string]bool{
		"CN": true, "JP": true, "KR": true, "IN": true, "TW": true, "HK": true,
		"SG": true, "ID": true, "TH": true, "MY": true, "VN": true,
	}
)

// RegionForCountry はISO国コードを地域フィルタ値に変換します。
// 元実装はティッカーを持つ企業をすべて米国扱いにしていましたが、これはスタブと
// 判断し、プロフィールの本社所在地から地域を導出します。
func RegionForCountry(country string) string {
	switch code := strings.ToUpper(strings.TrimSpace(country)); {
	case code == "":
		return ""
	case code == "US":
		return "us"
	case europeanCountries[code]:
		return "europe"
	case asianCountries[code]:
		return "asia"
	default:
		return "global"
	}
}

// SectorLabel はマーケットデータAPIのセクター名を業種フィルタ値に変換します。
// 対応表にないセクターは空文字を返し、業種フィルタでは不一致として扱われます。
func SectorLabel(sector string) string {
	return sectorLabels[strings.ToLower(strings.TrimSpace(sector))]
}

// EvaluateFilters はフィルタ条件に合致する企業のみを返します。
//
// 判定規則:
//   - カテゴリ間はAND、カテゴリ内の選択ラベル間はOR
//   - 選択のないカテゴリは全件通過
//   - 判定に必要な属性を持たない企業は、そのカテゴリで不一致（fail closed）
func EvaluateFilters(companies []entity.ComparableCompany, sel entity.FilterSelection) []entity.ComparableCompany {
	if sel.IsEmpty() {
		return companies
	}

	filtered := make([]entity.ComparableCompany, 0, len(companies))
	for _, company := range companies {
		if !matchesSize(company, sel.CompanySize) {
			continue
		}
		if !matchesGeography(company, sel.Geography) {
			continue
		}
		if !matchesCharacteristics(company, sel.BusinessCharacteristics) {
			continue
		}
		if !matchesSectors(company, sel.IndustrySectors) {
			continue
		}
		filtered = append(filtered, company)
	}
	return filtered
}

func matchesSize(company entity.ComparableCompany, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	marketCap := company.MarketCap
	if marketCap == 0 && company.Metrics != nil && company.Metrics.MarketCap != nil {
		marketCap = *company.Metrics.MarketCap
	}
	if marketCap == 0 {
		return false
	}
	bucket := BucketForMarketCap(marketCap)
	for _, s := range selected {
		if s == bucket {
			return true
		}
	}
	return false
}

func matchesGeography(company entity.ComparableCompany, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if company.Region == "" {
		return false
	}
	for _, s := range selected {
		if s == company.Region {
			return true
		}
	}
	return false
}

func matchesSectors(company entity.ComparableCompany, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if company.Sector == "" {
		return false
	}
	for _, s := range selected {
		if s == company.Sector {
			return true
		}
	}
	return false
}

func matchesCharacteristics(company entity.ComparableCompany, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	text := strings.ToLower(company.Name + " " + company.Rationale)
	for _, s := range selected {
		for _, kw := range characteristicKeywords[s] {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}
