package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-participation/internal/domain/comment"
)

type commentRow struct {
	ID       string     `db:"id"`
	EventID  string     `db:"event_id"`
	AuthorID string     `db:"author_id"`
	Text     string     `db:"text"`
	Created  time.Time  `db:"created"`
	Updated  *time.Time `db:"updated"`
}

func (r *commentRow) toEntity() *comment.Comment {
	return &comment.Comment{
		ID:       r.ID,
		EventID:  r.EventID,
		AuthorID: r.AuthorID,
		Text:     r.Text,
		Created:  r.Created,
		Updated:  r.Updated,
	}
}

// CommentRepository はコメントリポジトリのPostgreSQL実装
type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	query := `INSERT INTO comments (event_id, author_id, text, created) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, c.EventID, c.AuthorID, c.Text, c.Created).Scan(&c.ID); err != nil {
		return fmt.Errorf("コメント作成に失敗: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*comment.Comment, error) {
	var row commentRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, event_id, author_id, text, created, updated FROM comments WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, comment.ErrCommentNotFound
		}
		return nil, fmt.Errorf("コメント取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *CommentRepository) Update(ctx context.Context, c *comment.Comment) error {
	result, err := r.db.ExecContext(ctx, `UPDATE comments SET text = $1, updated = $2 WHERE id = $3`, c.Text, c.Updated, c.ID)
	if err != nil {
		return fmt.Errorf("コメント更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return comment.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		if isMalformedID(err) {
			return comment.ErrCommentNotFound
		}
		return fmt.Errorf("コメント削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return comment.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) ListByEvent(ctx context.Context, eventID string, from, size int) ([]*comment.Comment, error) {
	var rows []commentRow
	query := `
		SELECT id, event_id, author_id, text, created, updated
		FROM comments
		WHERE event_id = $1
		ORDER BY created DESC, id
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, eventID, size, from); err != nil {
		if isMalformedID(err) {
			return []*comment.Comment{}, nil
		}
		return nil, fmt.Errorf("コメント一覧取得に失敗: %w", err)
	}
	comments := make([]*comment.Comment, len(rows))
	for i := range rows {
		comments[i] = rows[i].toEntity()
	}
	return comments, nil
}

var _ comment.Repository = (*CommentRepository)(nil)
