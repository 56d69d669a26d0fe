package dto

// TokenReq は/users/tokenエンドポイントのリクエストを表します。
// OAuth2パスワードフローに合わせ、JSONではなくフォームフィールドで受け取ります。
type TokenReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
