package request

import (
	"context"

	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

// Repository は参加リクエストリポジトリのインターフェース
type Repository interface {
	// Create は新しいリクエストを作成する
	// (event, requester) の有効なリクエストが既にあれば ErrRequestAlreadyExists を返す
	Create(ctx context.Context, tx transaction.Tx, r *ParticipationRequest) error

	// GetByID はIDからリクエストを取得する
	GetByID(ctx context.Context, id string) (*ParticipationRequest, error)

	// GetByIDsForUpdate は指定IDのリクエストを行ロック付きで取得する
	// 戻り値は ids と同じ順序。見つからないIDがあれば ErrRequestNotFound を返す
	GetByIDsForUpdate(ctx context.Context, tx transaction.Tx, ids []string) ([]*ParticipationRequest, error)

	// ExistsActive は取り消されていないリクエストが存在するかを返す
	ExistsActive(ctx context.Context, tx transaction.Tx, eventID, requesterID string) (bool, error)

	// CountByEventAndStatus はイベントの指定状態のリクエスト数を返す
	CountByEventAndStatus(ctx context.Context, tx transaction.Tx, eventID string, status Status) (int, error)

	// CountConfirmedByEventIDs はイベントごとの確定済み件数を返す
	CountConfirmedByEventIDs(ctx context.Context, eventIDs []string) (map[string]int, error)

	// UpdateStatus はリクエストの状態を更新する
	UpdateStatus(ctx context.Context, tx transaction.Tx, r *ParticipationRequest) error

	// UpdateStatuses は複数リクエストの状態を一括更新する
	UpdateStatuses(ctx context.Context, tx transaction.Tx, rs []*ParticipationRequest) error

	// ListByRequester は申請者のリクエスト一覧を返す
	ListByRequester(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)

	// ListByEvent はイベントのリクエスト一覧を返す
	ListByEvent(ctx context.Context, eventID string) ([]*ParticipationRequest, error)
}
