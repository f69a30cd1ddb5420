package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"comps_backend/internal/app/di"
	"comps_backend/internal/app/router"
	analysishandler "comps_backend/internal/feature/analysis/transport/handler"
	chathandler "comps_backend/internal/feature/chat/transport/handler"
	companyadapters "comps_backend/internal/feature/companies/adapters"
	companyhandler "comps_backend/internal/feature/companies/transport/handler"
	companyusecase "comps_backend/internal/feature/companies/usecase"
	markethandler "comps_backend/internal/feature/market/transport/handler"
	platformdb "comps_backend/internal/platform/db"
	platformredis "comps_backend/internal/platform/redis"
)

func main() {
	// .envがあれば読み込む（本番では環境変数を直接設定する）
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found. Using environment variables.")
	}

	// db
	db := platformdb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Usecase
	marketUC := di.NewMarketUsecase(rdb)
	analysisUC := di.NewAnalysisUsecase(marketUC, db)
	companyUC := companyusecase.NewCompanyUsecase(companyadapters.NewCompanyRepository(db))
	chatUC := di.NewChatUsecase(context.Background(), rdb)

	// Handler
	analysisH := analysishandler.NewAnalysisHandler(analysisUC)
	marketH := markethandler.NewMarketHandler(marketUC)
	companyH := companyhandler.NewCompanyHandler(companyUC)
	ragH := chathandler.NewRAGHandler(chatUC)

	// ルータ生成
	r := router.NewRouter(analysisH, marketH, companyH, ragH)

	// APIキーチェック（開発中の注意喚起）
	if os.Getenv("DEEPSEEK_API_KEY") == "" {
		log.Println("[WARN] DEEPSEEK_API_KEY is not set. Company analysis will fail.")
	}
	if os.Getenv("FMP_API_KEY") == "" {
		log.Println("[WARN] FMP_API_KEY is not set. Financial data enrichment is disabled.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
