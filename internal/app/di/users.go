// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/adapters"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/cache"
)

// NewUserRepository creates a UserRepository implementation.
// If Redis is available, lookups are wrapped in a read-through cache.
// Otherwise, the plain Postgres repository is returned.
func NewUserRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.UserRepository {
	repo := adapters.NewUserPostgres(db)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, ttl, repo, "users")
	}
	return repo
}
