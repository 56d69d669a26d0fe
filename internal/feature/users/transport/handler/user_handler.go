// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/transport/http/dto"
	"user_backend/internal/feature/users/usecase"
	jwtmw "user_backend/internal/platform/jwt"
)

// UserUsecase はユーザーCRUD操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	// Create は新規ユーザーを登録します。
	Create(ctx context.Context, username, email, password string) (*entity.User, error)
	// List はすべてのユーザーを取得します。
	List(ctx context.Context) ([]*entity.User, error)
	// Get はIDでユーザーを取得します。
	Get(ctx context.Context, id uint) (*entity.User, error)
	// Update は部分更新を適用します。
	Update(ctx context.Context, id uint, in usecase.UpdateUserInput) (*entity.User, error)
	// Delete はIDでユーザーを削除します。
	Delete(ctx context.Context, id uint) error
}

// AuthUsecase は認証操作のユースケースを定義します。
type AuthUsecase interface {
	// Login はユーザーを認証し、成功時に署名済みトークンを返します。
	Login(ctx context.Context, username, password string) (string, error)
}

// UserHandler はユーザー管理と認証のHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
	auth  AuthUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserHandler(users UserUsecase, auth AuthUsecase) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// parseID はパスパラメータ:idをuintに変換します。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: "invalid user id"})
		return 0, false
	}
	return uint(id), true
}

// Create はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400をフィールド詳細付きで返却
// - ユーザー名重複時は409を返却
// - 成功時は201でユーザーを返却
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create user validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: err.Error()})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, dto.ErrorResp{Error: err.Error()})
			return
		}
		slog.Error("create user failed", "error", err, "username", req.Username)
		c.JSON(http.StatusInternalServerError, dto.ErrorResp{Error: "internal server error"})
		return
	}

	slog.Info("user created", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserResp(user))
}

// List はユーザー一覧APIエンドポイントを処理します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResp{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRespList(users))
}

// Get はユーザー取得APIエンドポイントを処理します。
// 対象が存在しない場合は404を返却します。
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResp{Error: err.Error()})
			return
		}
		slog.Error("get user failed", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, dto.ErrorResp{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResp(user))
}

// Update はユーザー部分更新APIエンドポイントを処理します。
// リクエストに存在するフィールドのみ適用されます（空文字列はクリアとして有効）。
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update user validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, usecase.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResp{Error: err.Error()})
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, dto.ErrorResp{Error: err.Error()})
		default:
			slog.Error("update user failed", "error", err, "user_id", id)
			c.JSON(http.StatusInternalServerError, dto.ErrorResp{Error: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResp(user))
}

// Delete はユーザー削除APIエンドポイントを処理します。
// 成功時は204、対象が存在しない場合は404を返却します。
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResp{Error: err.Error()})
			return
		}
		slog.Error("delete user failed", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, dto.ErrorResp{Error: "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me は認証済みユーザー自身を返すAPIエンドポイントを処理します。
// jwtmw.AuthRequiredミドルウェアがコンテキストに格納したユーザーを使用します。
func (h *UserHandler) Me(c *gin.Context) {
	user := jwtmw.CurrentUserFromContext(c)
	if user == nil {
		// ミドルウェア未適用のルート設定ミス
		c.JSON(http.StatusUnauthorized, dto.ErrorResp{Error: domain.ErrInvalidToken.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResp(user))
}

// Token はトークン発行APIエンドポイントを処理します。
// - フォームのバリデーションエラー時は400を返却
// - 認証失敗時は原因を問わず同一メッセージの401を返却
// - 成功時はbearerトークン付きで200を返却
func (h *UserHandler) Token(c *gin.Context) {
	var req dto.TokenReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("token request validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorResp{Error: domain.ErrInvalidCredentials.Error()})
		return
	}

	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenResp{AccessToken: token, TokenType: "bearer"})
}
