package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// UserRepository はユーザーリポジトリのPostgreSQL実装
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`, u.Name, u.Email).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("ユーザー作成に失敗: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := r.db.QueryRowxContext(ctx, `SELECT id, name, email FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Name, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email); err != nil {
		return false, fmt.Errorf("メールアドレス確認に失敗: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, ids []string, from, size int) ([]*user.User, error) {
	var (
		rows []struct {
			ID    string `db:"id"`
			Name  string `db:"name"`
			Email string `db:"email"`
		}
		err error
	)
	if len(ids) > 0 {
		err = r.db.SelectContext(ctx, &rows, `SELECT id, name, email FROM users WHERE id = ANY($1::uuid[]) ORDER BY name, id`, pq.Array(ids))
	} else {
		err = r.db.SelectContext(ctx, &rows, `SELECT id, name, email FROM users ORDER BY name, id LIMIT $1 OFFSET $2`, size, from)
	}
	if err != nil {
		if isMalformedID(err) {
			return []*user.User{}, nil
		}
		return nil, fmt.Errorf("ユーザー一覧取得に失敗: %w", err)
	}
	users := make([]*user.User, len(rows))
	for i, row := range rows {
		users[i] = &user.User{ID: row.ID, Name: row.Name, Email: row.Email}
	}
	return users, nil
}

var _ user.Repository = (*UserRepository)(nil)

// CategoryRepository はカテゴリリポジトリのPostgreSQL実装
type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return category.ErrNameAlreadyExists
		}
		return fmt.Errorf("カテゴリ作成に失敗: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	var c category.Category
	if err := r.db.QueryRowxContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("カテゴリ取得に失敗: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name); err != nil {
		return false, fmt.Errorf("カテゴリ名確認に失敗: %w", err)
	}
	return exists, nil
}

func (r *CategoryRepository) List(ctx context.Context, from, size int) ([]*category.Category, error) {
	var rows []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM categories ORDER BY name, id LIMIT $1 OFFSET $2`, size, from); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧取得に失敗: %w", err)
	}
	categories := make([]*category.Category, len(rows))
	for i, row := range rows {
		categories[i] = &category.Category{ID: row.ID, Name: row.Name}
	}
	return categories, nil
}

var _ category.Repository = (*CategoryRepository)(nil)
