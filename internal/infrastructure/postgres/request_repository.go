package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-participation/internal/domain/request"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

const requestColumns = `id, event_id, requester_id, created, status`

type requestRow struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	RequesterID string    `db:"requester_id"`
	Created     time.Time `db:"created"`
	Status      string    `db:"status"`
}

func (r *requestRow) toEntity() *request.ParticipationRequest {
	return &request.ParticipationRequest{
		ID:          r.ID,
		EventID:     r.EventID,
		RequesterID: r.RequesterID,
		Created:     r.Created,
		Status:      request.Status(r.Status),
	}
}

// RequestRepository は参加リクエストリポジトリのPostgreSQL実装
type RequestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create は参加リクエストを作成する
// 部分ユニークインデックス違反は既存リクエストありとして扱う
func (r *RequestRepository) Create(ctx context.Context, tx transaction.Tx, pr *request.ParticipationRequest) error {
	query := `INSERT INTO participation_requests (event_id, requester_id, created, status) VALUES ($1, $2, $3, $4) RETURNING id`
	err := conn(r.db, tx).QueryRowxContext(ctx, query, pr.EventID, pr.RequesterID, pr.Created, string(pr.Status)).Scan(&pr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return request.ErrRequestAlreadyExists
		}
		return fmt.Errorf("参加リクエスト作成に失敗: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*request.ParticipationRequest, error) {
	var row requestRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+requestColumns+` FROM participation_requests WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, request.ErrRequestNotFound
		}
		return nil, fmt.Errorf("参加リクエスト取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDsForUpdate は指定IDのリクエストを行ロック付きで取得し、ids の順序で返す
// ロック順序を揃えるため id 順に取得する
func (r *RequestRepository) GetByIDsForUpdate(ctx context.Context, tx transaction.Tx, ids []string) ([]*request.ParticipationRequest, error) {
	if len(ids) == 0 {
		return []*request.ParticipationRequest{}, nil
	}
	var rows []requestRow
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`
	if err := sqlx.SelectContext(ctx, conn(r.db, tx), &rows, query, pq.Array(ids)); err != nil {
		if isMalformedID(err) {
			return nil, request.ErrRequestNotFound
		}
		return nil, fmt.Errorf("参加リクエスト取得に失敗: %w", err)
	}
	byID := make(map[string]*request.ParticipationRequest, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].toEntity()
	}
	result := make([]*request.ParticipationRequest, 0, len(ids))
	for _, id := range ids {
		pr, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("id=%s: %w", id, request.ErrRequestNotFound)
		}
		result = append(result, pr)
	}
	return result, nil
}

func (r *RequestRepository) ExistsActive(ctx context.Context, tx transaction.Tx, eventID, requesterID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM participation_requests WHERE event_id = $1 AND requester_id = $2 AND status <> 'CANCELED')`
	if err := sqlx.GetContext(ctx, conn(r.db, tx), &exists, query, eventID, requesterID); err != nil {
		return false, fmt.Errorf("参加リクエスト存在確認に失敗: %w", err)
	}
	return exists, nil
}

// CountByEventAndStatus はロック中のトランザクションから呼ばれることを想定している
func (r *RequestRepository) CountByEventAndStatus(ctx context.Context, tx transaction.Tx, eventID string, status request.Status) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`
	if err := sqlx.GetContext(ctx, conn(r.db, tx), &count, query, eventID, string(status)); err != nil {
		return 0, fmt.Errorf("参加リクエスト件数取得に失敗: %w", err)
	}
	return count, nil
}

func (r *RequestRepository) CountConfirmedByEventIDs(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		EventID string `db:"event_id"`
		Count   int    `db:"cnt"`
	}
	query := `
		SELECT event_id, COUNT(*) AS cnt
		FROM participation_requests
		WHERE event_id = ANY($1::uuid[]) AND status = 'CONFIRMED'
		GROUP BY event_id
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(eventIDs)); err != nil {
		return nil, fmt.Errorf("確定済み件数取得に失敗: %w", err)
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, pr *request.ParticipationRequest) error {
	result, err := conn(r.db, tx).ExecContext(ctx, `UPDATE participation_requests SET status = $1 WHERE id = $2`, string(pr.Status), pr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return request.ErrRequestAlreadyExists
		}
		return fmt.Errorf("参加リクエスト更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return request.ErrRequestNotFound
	}
	return nil
}

// UpdateStatuses は状態ごとにまとめて更新する
func (r *RequestRepository) UpdateStatuses(ctx context.Context, tx transaction.Tx, rs []*request.ParticipationRequest) error {
	groups := make(map[request.Status][]string)
	var order []request.Status
	for _, pr := range rs {
		if _, ok := groups[pr.Status]; !ok {
			order = append(order, pr.Status)
		}
		groups[pr.Status] = append(groups[pr.Status], pr.ID)
	}
	for _, status := range order {
		ids := groups[status]
		result, err := conn(r.db, tx).ExecContext(ctx,
			`UPDATE participation_requests SET status = $1 WHERE id = ANY($2::uuid[])`,
			string(status), pq.Array(ids))
		if err != nil {
			return fmt.Errorf("参加リクエスト一括更新に失敗: %w", err)
		}
		rows, _ := result.RowsAffected()
		if int(rows) != len(ids) {
			return request.ErrRequestNotFound
		}
	}
	return nil
}

func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*request.ParticipationRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM participation_requests WHERE requester_id = $1 ORDER BY created DESC, id`, requesterID)
}

func (r *RequestRepository) ListByEvent(ctx context.Context, eventID string) ([]*request.ParticipationRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM participation_requests WHERE event_id = $1 ORDER BY created, id`, eventID)
}

func (r *RequestRepository) list(ctx context.Context, query string, arg string) ([]*request.ParticipationRequest, error) {
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		if isMalformedID(err) {
			return []*request.ParticipationRequest{}, nil
		}
		return nil, fmt.Errorf("参加リクエスト一覧取得に失敗: %w", err)
	}
	result := make([]*request.ParticipationRequest, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

var _ request.Repository = (*RequestRepository)(nil)
