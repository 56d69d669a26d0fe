package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"user_backend/internal/app/di"
	"user_backend/internal/app/router"
	authusecase "user_backend/internal/feature/auth/usecase"
	userhandler "user_backend/internal/feature/users/transport/handler"
	userusecase "user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/db"
	"user_backend/internal/platform/hash"
	jwtmw "user_backend/internal/platform/jwt"
	platformredis "user_backend/internal/platform/redis"
)

// envDuration は環境変数をtime.Durationとして読みます。未設定・不正値はfallbackを返します。
func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[WARN] invalid %s=%q, using default %v", key, v, fallback)
	}
	return fallback
}

func main() {
	// .envがあれば読み込む（本番では環境変数を直接設定する想定）
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found. Using environment variables.")
	}

	// db
	gormDB := db.OpenDB()

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

	// Repository（Redisが使えればキャッシュでラップ）
	cacheTTL := envDuration("USER_CACHE_TTL", 5*time.Minute)
	userRepo := di.NewUserRepository(rdb, gormDB, cacheTTL)

	// パスワードハッシュ
	bcryptCost := 0
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			bcryptCost = n
		}
	}
	hasher := hash.NewBcryptHasher(bcryptCost)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	tokens := jwtmw.NewService(os.Getenv("JWT_SECRET"), envDuration("JWT_EXPIRATION", jwtmw.DefaultTTL))

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, hasher, tokens)
	userUC := userusecase.NewUserUsecase(userRepo, hasher)

	// Handler
	userH := userhandler.NewUserHandler(userUC, authUC)

	// ルータ生成
	router := router.NewRouter(userH, authUC)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
