package dto

import (
	"time"

	"user_backend/internal/feature/users/domain/entity"
)

// UserResp is the public representation of a user.
// The password hash is never part of any response.
type UserResp struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResp maps a user entity to its response shape.
func NewUserResp(u *entity.User) UserResp {
	return UserResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserRespList maps a slice of user entities to response shapes.
func NewUserRespList(users []*entity.User) []UserResp {
	out := make([]UserResp, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResp(u))
	}
	return out
}

// TokenResp is the response body of a successful token exchange.
type TokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorResp is the uniform error response body.
type ErrorResp struct {
	Error string `json:"error"`
}
