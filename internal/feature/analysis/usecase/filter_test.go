package usecase

import (
	"testing"

	"comps_backend/internal/feature/analysis/domain/entity"
)

func f64(v float64) *float64 { return &v }

func companyWithCap(name string, marketCap float64) entity.ComparableCompany {
	return entity.ComparableCompany{
		Name:    name,
		Ticker:  "TEST",
		Metrics: &entity.FinancialMetrics{Ticker: "TEST", MarketCap: f64(marketCap)},
	}
}

func TestBucketForMarketCap(t *testing.T) {
	tests := []struct {
		name      string
		marketCap float64
		want      string
	}{
		{"just below mid floor", 1_900_000_000, "small"},
		{"exactly mid floor", 2_000_000_000, "mid"},
		{"just below large floor", 9_999_999_999, "mid"},
		{"exactly large floor", 10_000_000_000, "large"},
		{"well inside large", 99_000_000_000, "large"},
		{"exactly mega floor", 100_000_000_000, "mega"},
		{"above mega floor", 101_000_000_000, "mega"},
		{"zero", 0, "small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketForMarketCap(tt.marketCap); got != tt.want {
				t.Errorf("BucketForMarketCap(%v) = %q, want %q", tt.marketCap, got, tt.want)
			}
		})
	}
}

func TestEvaluateFilters_EmptySelectionIsIdentity(t *testing.T) {
	companies := []entity.ComparableCompany{
		companyWithCap("Alpha", 1_000_000_000),
		{Name: "NoData", Ticker: "ND"},
	}

	got := EvaluateFilters(companies, entity.FilterSelection{})
	if len(got) != len(companies) {
		t.Fatalf("expected all %d companies to pass, got %d", len(companies), len(got))
	}
}

func TestEvaluateFilters_SizeBuckets(t *testing.T) {
	companies := []entity.ComparableCompany{
		companyWithCap("Small", 1_900_000_000),
		companyWithCap("Mid", 2_000_000_000),
		companyWithCap("Large", 99_000_000_000),
		companyWithCap("Mega", 101_000_000_000),
	}

	got := EvaluateFilters(companies, entity.FilterSelection{CompanySize: []string{"mid", "mega"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(got))
	}
	if got[0].Name != "Mid" || got[1].Name != "Mega" {
		t.Errorf("unexpected companies: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestEvaluateFilters_SizeUsesProfileMarketCapWithoutMetrics(t *testing.T) {
	companies := []entity.ComparableCompany{
		{Name: "Mega", Ticker: "MG", MarketCap: 3_000_000_000_000},
		{Name: "Small", Ticker: "SM", MarketCap: 500_000_000},
	}

	got := EvaluateFilters(companies, entity.FilterSelection{CompanySize: []string{"mega"}})
	if len(got) != 1 || got[0].Name != "Mega" {
		t.Fatalf("expected only Mega to pass without metrics, got %v", got)
	}
}

func TestEvaluateFilters_MissingAttributeFailsClosed(t *testing.T) {
	companies := []entity.ComparableCompany{
		{Name: "NoMetrics", Ticker: "NM"},
		{Name: "NoMarketCap", Ticker: "NC", Metrics: &entity.FinancialMetrics{Ticker: "NC"}},
		companyWithCap("HasCap", 5_000_000_000),
	}

	got := EvaluateFilters(companies, entity.FilterSelection{CompanySize: []string{"mid"}})
	if len(got) != 1 || got[0].Name != "HasCap" {
		t.Fatalf("expected only HasCap to pass, got %v", got)
	}
}

func TestEvaluateFilters_CategoriesAreANDed(t *testing.T) {
	matching := companyWithCap("Both", 5_000_000_000)
	matching.Region = "us"
	sizeOnly := companyWithCap("SizeOnly", 5_000_000_000)
	sizeOnly.Region = "europe"

	got := EvaluateFilters([]entity.ComparableCompany{matching, sizeOnly}, entity.FilterSelection{
		CompanySize: []string{"mid"},
		Geography:   []string{"us"},
	})
	if len(got) != 1 || got[0].Name != "Both" {
		t.Fatalf("expected only Both to pass, got %v", got)
	}
}

func TestEvaluateFilters_Characteristics(t *testing.T) {
	saas := entity.ComparableCompany{Name: "CloudCo", Rationale: "A SaaS platform for subscription billing"}
	hardware := entity.ComparableCompany{Name: "ChipCo", Rationale: "Semiconductor manufacturer"}

	got := EvaluateFilters([]entity.ComparableCompany{saas, hardware},
		entity.FilterSelection{BusinessCharacteristics: []string{"saas"}})
	if len(got) != 1 || got[0].Name != "CloudCo" {
		t.Fatalf("expected only CloudCo to match, got %v", got)
	}
}

func TestEvaluateFilters_Sectors(t *testing.T) {
	tech := entity.ComparableCompany{Name: "Tech", Sector: "technology"}
	noSector := entity.ComparableCompany{Name: "Unknown"}

	got := EvaluateFilters([]entity.ComparableCompany{tech, noSector},
		entity.FilterSelection{IndustrySectors: []string{"technology"}})
	if len(got) != 1 || got[0].Name != "Tech" {
		t.Fatalf("expected only Tech to match, got %v", got)
	}
}

func TestRegionForCountry(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"US", "us"},
		{"us", "us"},
		{"DE", "europe"},
		{"JP", "asia"},
		{"BR", "global"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RegionForCountry(tt.country); got != tt.want {
			t.Errorf("RegionForCountry(%q) = %q, want %q", tt.country, got, tt.want)
		}
	}
}

func TestSectorLabel(t *testing.T) {
	tests := []struct {
		sector string
		want   string
	}{
		{"Technology", "technology"},
		{"Financial Services", "finance"},
		{"Consumer Cyclical", "retail"},
		{"Real Estate", ""},
	}

	for _, tt := range tests {
		if got := SectorLabel(tt.sector); got != tt.want {
			t.Errorf("SectorLabel(%q) = %q, want %q", tt.sector, got, tt.want)
		}
	}
}
