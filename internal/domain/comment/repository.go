package comment

import "context"

// Repository はコメントリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
	// ListByEvent は新しい順にコメントを返す
	ListByEvent(ctx context.Context, eventID string, from, size int) ([]*Comment, error)
}
