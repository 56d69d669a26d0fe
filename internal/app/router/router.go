package router

import (
	"github.com/gin-gonic/gin"

	userhandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/platform/http/handler"
	jwtmw "user_backend/internal/platform/jwt"
)

// NewRouter はすべてのHTTPルートを登録したGinエンジンを生成します。
func NewRouter(users *userhandler.UserHandler, resolver jwtmw.UserResolver) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)

	u := r.Group("/users")
	{
		// 新規ユーザー登録
		u.POST("", users.Create)
		// ユーザー一覧
		u.GET("", users.List)
		// トークン発行（ユーザー名＋パスワードをbearerトークンに交換）
		u.POST("/token", users.Token)

		// 認証必須のルート
		// /users/me は /users/:id と共存できる（Ginは静的ルートを優先する）
		u.GET("/me", jwtmw.AuthRequired(resolver), users.Me)

		// 個別ユーザーのCRUD
		u.GET("/:id", users.Get)
		u.PUT("/:id", users.Update)
		u.DELETE("/:id", users.Delete)
	}

	return r
}
