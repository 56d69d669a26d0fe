// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// CachingUserRepository decorates a UserRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Lookups by id and username are cached;
// every mutation invalidates the affected entries.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts a user and invalidates the username lookup for it.
func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := c.inner.Create(ctx, u); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.usernameKey(u.Username)).Err() // Best effort: don't fail if cache deletion fails
	return nil
}

// FindAll always hits the underlying store; listings are not cached.
func (c *CachingUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	return c.inner.FindAll(ctx)
}

// FindByID retrieves a user, checking cache first then falling back to the database.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FindByUsername retrieves all users with the given username, cache first.
// The full match slice is cached so the duplicate-anomaly ordering survives
// a cache hit unchanged.
func (c *CachingUserRepository) FindByUsername(ctx context.Context, username string) ([]*entity.User, error) {
	if c.rdb == nil {
		return c.inner.FindByUsername(ctx, username)
	}

	key := c.usernameKey(username)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []*entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Update saves a user and invalidates its cache entries.
// The previous username is unknown after a rename, so every username lookup
// in the namespace is invalidated.
func (c *CachingUserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := c.inner.Update(ctx, u); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.idKey(u.ID)).Err()
	_ = c.deleteByPattern(ctx, c.namespace+":username:*") // Best effort
	return nil
}

// Delete removes a user and invalidates its cache entries.
func (c *CachingUserRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.idKey(id)).Err()
	_ = c.deleteByPattern(ctx, c.namespace+":username:*") // Best effort
	return nil
}

// idKey generates the cache key for an id lookup.
func (c *CachingUserRepository) idKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

// usernameKey generates the cache key for a username lookup.
func (c *CachingUserRepository) usernameKey(username string) string {
	return fmt.Sprintf("%s:username:%s", c.namespace, safe(username))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingUserRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	// Simple escaping of characters that are problematic for Redis keys
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
