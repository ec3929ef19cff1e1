package category

import (
	"context"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
)

// Category はイベントのカテゴリを表す
type Category struct {
	ID   string
	Name string
}

var (
	ErrCategoryNotFound  = apperror.NotFound("カテゴリが見つかりません")
	ErrNameAlreadyExists = apperror.AlreadyExists("このカテゴリ名は既に存在します")
)

// Repository はカテゴリリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, from, size int) ([]*Category, error)
}
