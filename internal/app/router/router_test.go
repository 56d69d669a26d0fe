package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user_backend/internal/app/di"
	authusecase "user_backend/internal/feature/auth/usecase"
	"user_backend/internal/feature/users/domain/entity"
	userhandler "user_backend/internal/feature/users/transport/handler"
	userusecase "user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/hash"
	jwtmw "user_backend/internal/platform/jwt"
)

// newTestServer は本物のユースケース・アダプター・トークンサービスを
// インメモリSQLiteで配線したルーターを返します。
func newTestServer(t *testing.T) (*gin.Engine, *jwtmw.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&entity.User{}))

	repo := di.NewUserRepository(nil, gdb, 0)
	// テスト高速化のため最小コスト
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)
	tokens := jwtmw.NewService("integration-test-secret", 15*time.Minute)

	authUC := authusecase.NewAuthUsecase(repo, hasher, tokens)
	userUC := userusecase.NewUserUsecase(repo, hasher)
	userH := userhandler.NewUserHandler(userUC, authUC)

	return NewRouter(userH, authUC), tokens
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getWithBearer(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestRouter_FullAuthFlow は登録からトークン発行、保護エンドポイント、
// 認証失敗、期限切れトークンまでの一連の流れを検証します。
func TestRouter_FullAuthFlow(t *testing.T) {
	r, tokens := newTestServer(t)

	// 1) 登録
	w := postJSON(r, "/users", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password123")
	assert.NotContains(t, w.Body.String(), "password_hash")

	// 2) トークン発行
	w = postForm(r, "/users/token", url.Values{
		"username": {"alice"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	assert.Equal(t, "bearer", tokenResp.TokenType)
	require.NotEmpty(t, tokenResp.AccessToken)

	// 3) 保護エンドポイント
	w = getWithBearer(r, "/users/me", tokenResp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	// 4) パスワード誤りと存在しないユーザーは同一レスポンス
	wrong := postForm(r, "/users/token", url.Values{
		"username": {"alice"},
		"password": {"wrongpassword"},
	})
	unknown := postForm(r, "/users/token", url.Values{
		"username": {"nobody"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	// 5) 期限切れトークンは拒否される
	expired, err := tokens.IssueWithTTL("alice", -time.Minute)
	require.NoError(t, err)
	w = getWithBearer(r, "/users/me", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 6) トークンなしも拒否される
	w = getWithBearer(r, "/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestRouter_MeDoesNotShadowID は/users/meが/users/:idに飲み込まれないことを確認します。
func TestRouter_MeDoesNotShadowID(t *testing.T) {
	r, _ := newTestServer(t)

	w := postJSON(r, "/users", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// 数値IDのルートは認証不要で取得できる
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d", created.ID), nil)
	got := httptest.NewRecorder()
	r.ServeHTTP(got, req)
	assert.Equal(t, http.StatusOK, got.Code)

	// /users/me はトークンなしでは401（:idとして解釈されない）
	w = getWithBearer(r, "/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
