package main

import (
	"log"

	"github.com/joho/godotenv"

	companyadapters "comps_backend/internal/feature/companies/adapters"
	"comps_backend/internal/feature/companies/domain/entity"
	platformdb "comps_backend/internal/platform/db"
)

// マイグレーションと初期データ投入を明示的に実行するコマンドです。
// サーバー起動時の RUN_MIGRATIONS=true と同じ処理を単体で行います。
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found. Using environment variables.")
	}

	db := platformdb.OpenDB()

	if err := db.AutoMigrate(&entity.Company{}); err != nil {
		log.Fatal("failed to migrate:", err)
	}
	if err := companyadapters.SeedCompanies(db); err != nil {
		log.Fatal("failed to seed companies:", err)
	}
	log.Println("seed ok")
}
