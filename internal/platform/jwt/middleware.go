package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
)

// ContextUser is the Gin context key under which the authenticated user is stored.
const ContextUser = "currentUser"

// UserResolver turns a bearer token into the user it asserts.
// Goの慣例に従い、実装はauthフィーチャーのusecaseが提供します。
type UserResolver interface {
	// CurrentUser verifies the token and re-fetches the user it identifies.
	CurrentUser(ctx context.Context, tokenStr string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that validates bearer tokens and
// restricts access to authenticated, active users.
//
// Every verification failure (missing header, tampered or expired token,
// vanished subject) is answered with the same generic 401 so callers cannot
// distinguish the cause. An inactive user is the one distinct rejection,
// reported only after the token itself verified.
func AuthRequired(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidToken.Error()})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		user, err := resolver.CurrentUser(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, domain.ErrInactiveUser) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": domain.ErrInactiveUser.Error()})
				return
			}
			slog.Warn("token verification failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidToken.Error()})
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUserFromContext returns the authenticated user placed in the Gin
// context by AuthRequired, or nil when the route is not guarded.
func CurrentUserFromContext(c *gin.Context) *entity.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*entity.User)
	if !ok {
		return nil
	}
	return user
}
