package dto

// UpdateUserReq はPUT /users/:idエンドポイントのリクエストボディを表します。
// 各フィールドはポインタで「存在する／しない」を区別します。
// nilは未指定、空文字列へのポインタは値のクリアを意味します。
type UpdateUserReq struct {
	Username *string `json:"username" binding:"omitempty,max=30"`
	Email    *string `json:"email" binding:"omitempty,email,max=254"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}
