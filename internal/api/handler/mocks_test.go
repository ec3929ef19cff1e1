package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/comment"
	"github.com/sanosuguru/go-event-participation/internal/domain/request"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) details(args mock.Arguments) (*application.EventDetails, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.EventDetails), args.Error(1)
}

func (m *MockEventService) list(args mock.Arguments) ([]*application.EventDetails, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.EventDetails), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, input application.CreateEventInput) (*application.EventDetails, error) {
	return m.details(m.Called(ctx, input))
}

func (m *MockEventService) UpdateEventByOwner(ctx context.Context, input application.UpdateEventByOwnerInput) (*application.EventDetails, error) {
	return m.details(m.Called(ctx, input))
}

func (m *MockEventService) UpdateEventByAdmin(ctx context.Context, input application.UpdateEventByAdminInput) (*application.EventDetails, error) {
	return m.details(m.Called(ctx, input))
}

func (m *MockEventService) GetOwnEvent(ctx context.Context, userID, eventID string) (*application.EventDetails, error) {
	return m.details(m.Called(ctx, userID, eventID))
}

func (m *MockEventService) ListOwnEvents(ctx context.Context, input application.OwnEventsInput) ([]*application.EventDetails, error) {
	return m.list(m.Called(ctx, input))
}

func (m *MockEventService) SearchEvents(ctx context.Context, input application.AdminSearchInput) ([]*application.EventDetails, error) {
	return m.list(m.Called(ctx, input))
}

func (m *MockEventService) ListPublishedEvents(ctx context.Context, input application.PublicSearchInput) ([]*application.EventDetails, error) {
	return m.list(m.Called(ctx, input))
}

func (m *MockEventService) GetPublishedEvent(ctx context.Context, eventID, clientIP, uri string) (*application.EventDetails, error) {
	return m.details(m.Called(ctx, eventID, clientIP, uri))
}

// MockRequestService はRequestServiceInterfaceのモック
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) CreateRequest(ctx context.Context, userID, eventID string) (*request.ParticipationRequest, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.ParticipationRequest), args.Error(1)
}

func (m *MockRequestService) CancelRequest(ctx context.Context, userID, requestID string) (*request.ParticipationRequest, error) {
	args := m.Called(ctx, userID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.ParticipationRequest), args.Error(1)
}

func (m *MockRequestService) ListOwnRequests(ctx context.Context, userID string) ([]*request.ParticipationRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.ParticipationRequest), args.Error(1)
}

func (m *MockRequestService) ListEventRequests(ctx context.Context, userID, eventID string) ([]*request.ParticipationRequest, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.ParticipationRequest), args.Error(1)
}

func (m *MockRequestService) ModerateRequests(ctx context.Context, input application.ModerateRequestsInput) (*request.ModerationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.ModerationResult), args.Error(1)
}

// MockCommentService はCommentServiceInterfaceのモック
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(ctx context.Context, userID, eventID, text string) (*comment.Comment, error) {
	args := m.Called(ctx, userID, eventID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*comment.Comment), args.Error(1)
}

func (m *MockCommentService) UpdateComment(ctx context.Context, userID, commentID, text string) (*comment.Comment, error) {
	args := m.Called(ctx, userID, commentID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*comment.Comment), args.Error(1)
}

func (m *MockCommentService) DeleteOwnComment(ctx context.Context, userID, commentID string) error {
	return m.Called(ctx, userID, commentID).Error(0)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, commentID string) error {
	return m.Called(ctx, commentID).Error(0)
}

func (m *MockCommentService) ListEventComments(ctx context.Context, eventID string, from, size int) ([]*comment.Comment, error) {
	args := m.Called(ctx, eventID, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*comment.Comment), args.Error(1)
}

// MockDirectoryService はDirectoryServiceInterfaceのモック
type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) CreateUser(ctx context.Context, name, email string) (*user.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockDirectoryService) ListUsers(ctx context.Context, ids []string, from, size int) ([]*user.User, error) {
	args := m.Called(ctx, ids, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockDirectoryService) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockDirectoryService) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockDirectoryService) ListCategories(ctx context.Context, from, size int) ([]*category.Category, error) {
	args := m.Called(ctx, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}
