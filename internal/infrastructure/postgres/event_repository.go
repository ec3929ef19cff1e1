package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

const eventColumns = `e.id, e.title, e.annotation, e.description, e.category_id, e.initiator_id,
	e.location_lat, e.location_lon, e.paid, e.participant_limit, e.request_moderation,
	e.event_date, e.created_on, e.published_on, e.state`

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID                string     `db:"id"`
	Title             string     `db:"title"`
	Annotation        string     `db:"annotation"`
	Description       string     `db:"description"`
	CategoryID        string     `db:"category_id"`
	InitiatorID       string     `db:"initiator_id"`
	LocationLat       float64    `db:"location_lat"`
	LocationLon       float64    `db:"location_lon"`
	Paid              bool       `db:"paid"`
	ParticipantLimit  int        `db:"participant_limit"`
	RequestModeration bool       `db:"request_moderation"`
	EventDate         time.Time  `db:"event_date"`
	CreatedOn         time.Time  `db:"created_on"`
	PublishedOn       *time.Time `db:"published_on"`
	State             string     `db:"state"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID:                r.ID,
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.CategoryID,
		InitiatorID:       r.InitiatorID,
		Location:          event.Location{Lat: r.LocationLat, Lon: r.LocationLon},
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
		EventDate:         r.EventDate,
		CreatedOn:         r.CreatedOn,
		PublishedOn:       r.PublishedOn,
		State:             event.State(r.State),
	}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, initiator_id,
			location_lat, location_lon, paid, participant_limit, request_moderation,
			event_date, created_on, published_on, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := conn(r.db, tx).QueryRowxContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID, e.InitiatorID,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		e.EventDate, e.CreatedOn, e.PublishedOn, string(e.State),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	return r.get(ctx, r.db, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id)
}

// GetByIDForUpdate は行ロックを取得してイベントを取得する
// 同じイベントを対象とする並行トランザクションはコミットまで待たされる
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	return r.get(ctx, conn(r.db, tx), `SELECT `+eventColumns+` FROM events e WHERE e.id = $1 FOR UPDATE`, id)
}

func (r *EventRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*event.Event, error) {
	var row eventRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// Update はイベントを更新する
func (r *EventRepository) Update(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, category_id = $4,
			location_lat = $5, location_lon = $6, paid = $7, participant_limit = $8,
			request_moderation = $9, event_date = $10, published_on = $11, state = $12
		WHERE id = $13
	`
	result, err := conn(r.db, tx).ExecContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit,
		e.RequestModeration, e.EventDate, e.PublishedOn, string(e.State),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rows == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// Search は条件に一致するイベントを取得する
func (r *EventRepository) Search(ctx context.Context, f event.Filter) ([]*event.Event, error) {
	query, args := buildEventQuery(f)
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isMalformedID(err) {
			return []*event.Event{}, nil
		}
		return nil, fmt.Errorf("イベント検索に失敗しました: %w", err)
	}
	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

var _ event.Repository = (*EventRepository)(nil)
