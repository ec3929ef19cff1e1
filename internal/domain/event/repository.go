package event

import (
	"context"

	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成し、ID を設定する
	Create(ctx context.Context, tx transaction.Tx, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// GetByIDForUpdate はトランザクション内で行ロック（FOR UPDATE）を取得してイベントを取得する
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Event, error)

	// Update はイベントを更新する
	Update(ctx context.Context, tx transaction.Tx, event *Event) error

	// Search は条件に一致するイベントを取得する
	Search(ctx context.Context, filter Filter) ([]*Event, error)
}
