// Package usecase はusersフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	Create(ctx context.Context, user *entity.User) error

	// FindAll はすべてのユーザーをID昇順で取得します。
	FindAll(ctx context.Context) ([]*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByUsername は指定されたユーザー名に一致するユーザーをID昇順で返します。
	// 一致がない場合は空のスライスを返します（エラーにはなりません）。
	FindByUsername(ctx context.Context, username string) ([]*entity.User, error)

	// Update は既存ユーザーの全フィールドを保存します。
	Update(ctx context.Context, user *entity.User) error

	// Delete は指定されたIDのユーザーを削除します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	Delete(ctx context.Context, id uint) error
}

// PasswordHasher はパスワードの一方向ハッシュ化を抽象化します。
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)
}

// UpdateUserInput is the patch shape for partial user updates.
// Each field is independently present-or-absent: a nil pointer leaves the
// stored value untouched, while a pointer to the empty string clears it.
// This deliberately avoids the "skip falsy values" trap where a legitimate
// empty string can never be written.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
}

// userUsecase はユーザーCRUDのビジネスロジックを実装します。
type userUsecase struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, hasher PasswordHasher) *userUsecase {
	return &userUsecase{
		users:  users,
		hasher: hasher,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// usernameTaken reports whether the username is already used by a user other
// than excludeID. The username column carries a plain index, so uniqueness is
// enforced here rather than by a database constraint.
func (u *userUsecase) usernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	matches, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		if m.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Create はハッシュ化されたパスワードで新規ユーザーを登録します。
// ユーザー名が既に使用されている場合、domain.ErrUsernameTakenを返します。
func (u *userUsecase) Create(ctx context.Context, username, email, password string) (*entity.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	taken, err := u.usernameTaken(ctx, username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// List はすべてのユーザーを取得します。
// TODO: ページネーションを追加する
func (u *userUsecase) List(ctx context.Context) ([]*entity.User, error) {
	return u.users.FindAll(ctx)
}

// Get はIDでユーザーを取得します。
func (u *userUsecase) Get(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Update は存在するフィールドのみを適用する部分更新を行います。
// nilのフィールドは無視され、空文字列へのポインタは値のクリアとして扱われます。
func (u *userUsecase) Update(ctx context.Context, id uint, in UpdateUserInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username {
		taken, err := u.usernameTaken(ctx, *in.Username, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check username availability: %w", err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user updated", "user_id", user.ID)
	return user, nil
}

// Delete はIDでユーザーを削除します。
func (u *userUsecase) Delete(ctx context.Context, id uint) error {
	if err := u.users.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("user deleted", "user_id", id)
	return nil
}
