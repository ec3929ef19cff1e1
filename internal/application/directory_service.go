package application

import (
	"context"
	"strings"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// DirectoryService はユーザーとカテゴリの登録・参照を行う
type DirectoryService struct {
	userRepo     user.Repository
	categoryRepo category.Repository
}

func NewDirectoryService(ur user.Repository, cr category.Repository) *DirectoryService {
	return &DirectoryService{userRepo: ur, categoryRepo: cr}
}

func (s *DirectoryService) CreateUser(ctx context.Context, name, email string) (*user.User, error) {
	u := &user.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if u.Name == "" {
		return nil, apperror.Field("name", "必須です")
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *DirectoryService) ListUsers(ctx context.Context, ids []string, from, size int) ([]*user.User, error) {
	if size <= 0 {
		size = 10
	}
	if from < 0 {
		from = 0
	}
	return s.userRepo.List(ctx, ids, from, size)
}

func (s *DirectoryService) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	c := &category.Category{Name: strings.TrimSpace(name)}
	if c.Name == "" {
		return nil, apperror.Field("name", "必須です")
	}
	exists, err := s.categoryRepo.ExistsByName(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, category.ErrNameAlreadyExists
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *DirectoryService) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *DirectoryService) ListCategories(ctx context.Context, from, size int) ([]*category.Category, error) {
	if size <= 0 {
		size = 10
	}
	if from < 0 {
		from = 0
	}
	return s.categoryRepo.List(ctx, from, size)
}
