// Package db はデータベース接続の確立を担当します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	companyadapters "comps_backend/internal/feature/companies/adapters"
	"comps_backend/internal/feature/companies/domain/entity"
)

// Config はデータベース接続設定です。
type Config struct {
	Driver   string
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// Path はSQLite使用時のデータベースファイルパスです。
	Path string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		Driver:   os.Getenv("DB_DRIVER"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Path:     os.Getenv("DB_PATH"),
	}
}

// BuildDSN はPostgreSQL接続用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// ConnectWithRetry は指定されたオープナーでDB接続を試み、失敗時はタイムアウトまでリトライします。
// 起動直後のDBコンテナ待ちを想定しています。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(dsn string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB はデータベース接続を確立します。
// DB_DRIVER=postgres のときはPostgreSQLに接続し、それ以外はSQLiteファイルを使用します。
// RUN_MIGRATIONS=true のときはマイグレーションと初期データ投入を行います。
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()

	var (
		dsn    string
		opener func(dsn string) (*gorm.DB, error)
	)
	if cfg.Driver == "postgres" {
		dsn = BuildDSN(cfg)
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		}
	} else {
		dsn = cfg.Path
		if dsn == "" {
			dsn = "comps.db"
		}
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gsqlite.Open(dsn), &gorm.Config{})
		}
	}

	db, err := ConnectWithRetry(dsn, 60*time.Second, opener)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(&entity.Company{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
		if err := companyadapters.SeedCompanies(db); err != nil {
			log.Fatalf("failed to seed companies: %v", err)
		}
	}

	return db
}
