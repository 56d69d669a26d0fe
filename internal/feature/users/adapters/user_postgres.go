// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のエラーコードです。
const pgUniqueViolation = "23505"

// userPostgres はUserRepositoryインターフェースのPostgreSQL実装です。
// GORMを使用してデータベース操作を行います。
type userPostgres struct {
	db *gorm.DB
}

// userPostgresがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userPostgres)(nil)

// NewUserPostgres は指定されたgorm.DB接続でuserPostgresの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserPostgres(db *gorm.DB) *userPostgres {
	return &userPostgres{db: db}
}

// Create はユーザーをデータベースに追加します。
// 一意制約違反（運用側でusernameにユニークインデックスを張った場合など）は
// domain.ErrUsernameTakenにマッピングされます。
func (r *userPostgres) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// FindAll はすべてのユーザーをID昇順で取得します。
func (r *userPostgres) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userPostgres) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByUsername はユーザー名に一致するすべてのユーザーをID昇順で取得します。
// usernameカラムのインデックスは非ユニークのため複数件返り得ます。
// 呼び出し側が決定的に同じユーザーを選べるよう、順序を保証します。
func (r *userPostgres) FindByUsername(ctx context.Context, username string) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update は既存ユーザーの全フィールドを保存します。
// ゼロ値（空文字列やfalse）も書き込まれるよう、Updatesではなく Saveを使用します。
func (r *userPostgres) Update(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// Delete はIDでユーザーを削除します。
// 対象行が存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userPostgres) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&entity.User{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
