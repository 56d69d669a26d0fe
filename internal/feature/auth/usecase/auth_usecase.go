// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	jwtmw "user_backend/internal/platform/jwt"
)

// UserRepository は認証に必要なユーザー検索を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// FindByUsername は指定されたユーザー名に一致するユーザーをID昇順で返します。
	// 一致がない場合は空のスライスを返します（エラーにはなりません）。
	FindByUsername(ctx context.Context, username string) ([]*entity.User, error)
}

// PasswordHasher はパスワード検証を抽象化します。
type PasswordHasher interface {
	// Verify reports whether the plaintext password matches the stored hash.
	Verify(password, hashed string) (bool, error)
}

// TokenService はトークンの発行と検証を抽象化します。
type TokenService interface {
	// Issue creates a signed token for the subject using the default TTL.
	Issue(subject string) (string, error)
	// Verify decodes the token and returns its claims.
	Verify(tokenStr string) (*jwtmw.Claims, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenService
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenService) *authUsecase {
	return &authUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// pickMatch は重複ユーザー名の異常を処理しつつ認証対象のユーザーを選びます。
// 重複はデータ整合性の異常ですが、リクエスト全体を失敗させず、
// 運用者が観測できるようWARNログに記録したうえで最小IDの1件を決定的に選びます。
func pickMatch(username string, matches []*entity.User) *entity.User {
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 {
		slog.Warn("integrity anomaly: duplicate username records",
			"username", username, "count", len(matches), "chosen_id", matches[0].ID)
	}
	// FindByUsernameはID昇順で返すため、先頭が常に同じユーザーになる
	return matches[0]
}

// Authenticate はユーザー名とパスワードでユーザーを認証します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// ユーザー未検出とパスワード不一致は外部から区別できない同一のエラーになります。
func (u *authUsecase) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	matches, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := pickMatch(username, matches)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// ハッシュ検証が常に実行されることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if user != nil {
		passwordHash = user.PasswordHash
	}

	ok, verifyErr := u.hasher.Verify(password, passwordHash)
	if verifyErr != nil {
		// 保存されたハッシュが壊れている場合も呼び出し側には汎用エラーを返す
		slog.Error("stored password hash is malformed", "username", username, "error", verifyErr)
		return nil, domain.ErrInvalidCredentials
	}
	if user == nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Login はユーザーを認証し、成功時に署名済みトークンを返します。
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := u.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// CurrentUser はトークンを検証し、埋め込まれたサブジェクトのユーザーを再取得します。
// トークン検証失敗・サブジェクト未解決はdomain.ErrInvalidToken、
// 解決されたユーザーが無効化されている場合はdomain.ErrInactiveUserを返します。
func (u *authUsecase) CurrentUser(ctx context.Context, tokenStr string) (*entity.User, error) {
	claims, err := u.tokens.Verify(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	matches, err := u.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := pickMatch(claims.Subject, matches)
	if user == nil {
		// トークンは有効だがサブジェクトのユーザーが既に存在しない
		return nil, domain.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	return user, nil
}
