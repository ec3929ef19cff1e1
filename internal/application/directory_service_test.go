package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

func TestDirectoryService_CreateUser(t *testing.T) {
	t.Run("登録できる", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewDirectoryService(userRepo, new(MockCategoryRepository))
		ctx := context.Background()

		userRepo.On("ExistsByEmail", ctx, "hanako@example.com").Return(false, nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		u, err := service.CreateUser(ctx, " 花子 ", "hanako@example.com")
		require.NoError(t, err)
		assert.Equal(t, "花子", u.Name)
	})

	t.Run("メールアドレスの重複はAlreadyExists", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewDirectoryService(userRepo, new(MockCategoryRepository))
		ctx := context.Background()

		userRepo.On("ExistsByEmail", ctx, "hanako@example.com").Return(true, nil)

		_, err := service.CreateUser(ctx, "花子", "hanako@example.com")
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
		assert.Equal(t, apperror.KindAlreadyExists, apperror.KindOf(err))
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestDirectoryService_CreateCategory(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewDirectoryService(new(MockUserRepository), categoryRepo)
	ctx := context.Background()

	_, err := service.CreateCategory(ctx, "  ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	categoryRepo.On("ExistsByName", ctx, "コンサート").Return(true, nil)
	_, err = service.CreateCategory(ctx, "コンサート")
	assert.ErrorIs(t, err, category.ErrNameAlreadyExists)
}

func TestDirectoryService_ListUsers_DefaultPaging(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewDirectoryService(userRepo, new(MockCategoryRepository))
	ctx := context.Background()
	userRepo.On("List", ctx, []string(nil), 0, 10).Return([]*user.User{}, nil)

	_, err := service.ListUsers(ctx, nil, 0, 0)
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}
