package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain/entity"
)

// Config holds the database connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// LoadConfig reads the database settings from environment variables.
func LoadConfig() Config {
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	return Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  sslmode,
	}
}

// BuildDSN はPostgreSQL接続用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// Opener opens a gorm.DB for the given DSN. It exists so connection retry
// logic can be tested without a live database.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続が確立するまで3秒間隔でリトライします。
// timeoutを超えた場合は最後のエラーを返します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
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

// OpenDB は環境変数の設定でPostgreSQLへ接続し、必要ならマイグレーションを実行します。
func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfig())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（usersテーブル）
		if err := db.AutoMigrate(&entity.User{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
