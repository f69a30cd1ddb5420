package adapters

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"comps_backend/internal/feature/companies/domain/entity"
)

// SeedCompanies はデモ用の初期企業データを投入します。
// 既存レコードは上書きせず、存在しないIDのみ追加します。
func SeedCompanies(db *gorm.DB) error {
	share1, share2, share3, share4 := 12.3, 7.5, 22.1, 2.3
	seed := []entity.Company{
		{
			ID: "company1", Name: "Tech Innovations Inc.", Industry: "Technology",
			Size: entity.SizeLarge, FoundedYear: 2005,
			Description: "A leading technology company specializing in AI solutions",
			Revenue: 5000000.0, ProfitMargin: 15.5, GrowthRate: 8.2, MarketShare: &share1,
		},
		{
			ID: "company2", Name: "Green Energy Solutions", Industry: "Renewable Energy",
			Size: entity.SizeMedium, FoundedYear: 2010,
			Description: "Innovative renewable energy solutions provider",
			Revenue: 2500000.0, ProfitMargin: 12.8, GrowthRate: 15.3, MarketShare: &share2,
		},
		{
			ID: "company3", Name: "HealthPlus Medical", Industry: "Healthcare",
			Size: entity.SizeLarge, FoundedYear: 1998,
			Description: "Leading healthcare provider with innovative medical solutions",
			Revenue: 8200000.0, ProfitMargin: 18.2, GrowthRate: 6.7, MarketShare: &share3,
		},
		{
			ID: "company4", Name: "FinTech Innovations", Industry: "Financial Services",
			Size: entity.SizeSmall, FoundedYear: 2018,
			Description: "Cutting-edge financial technology startup",
			Revenue: 800000.0, ProfitMargin: 9.5, GrowthRate: 25.8, MarketShare: &share4,
		},
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error
}
