package user

import (
	"context"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
)

// User はユーザーを表す
type User struct {
	ID    string
	Name  string
	Email string
}

var (
	ErrUserNotFound       = apperror.NotFound("ユーザーが見つかりません")
	ErrEmailAlreadyExists = apperror.AlreadyExists("このメールアドレスは既に登録されています")
)

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// List は ids が空なら全件をページングして返す
	List(ctx context.Context, ids []string, from, size int) ([]*User, error)
}
