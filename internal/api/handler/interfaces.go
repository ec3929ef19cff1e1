package handler

import (
	"context"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/comment"
	"github.com/sanosuguru/go-event-participation/internal/domain/request"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*application.EventDetails, error)
	UpdateEventByOwner(ctx context.Context, input application.UpdateEventByOwnerInput) (*application.EventDetails, error)
	UpdateEventByAdmin(ctx context.Context, input application.UpdateEventByAdminInput) (*application.EventDetails, error)
	GetOwnEvent(ctx context.Context, userID, eventID string) (*application.EventDetails, error)
	ListOwnEvents(ctx context.Context, input application.OwnEventsInput) ([]*application.EventDetails, error)
	SearchEvents(ctx context.Context, input application.AdminSearchInput) ([]*application.EventDetails, error)
	ListPublishedEvents(ctx context.Context, input application.PublicSearchInput) ([]*application.EventDetails, error)
	GetPublishedEvent(ctx context.Context, eventID, clientIP, uri string) (*application.EventDetails, error)
}

// RequestServiceInterface は参加リクエストサービスのインターフェース
type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, userID, eventID string) (*request.ParticipationRequest, error)
	CancelRequest(ctx context.Context, userID, requestID string) (*request.ParticipationRequest, error)
	ListOwnRequests(ctx context.Context, userID string) ([]*request.ParticipationRequest, error)
	ListEventRequests(ctx context.Context, userID, eventID string) ([]*request.ParticipationRequest, error)
	ModerateRequests(ctx context.Context, input application.ModerateRequestsInput) (*request.ModerationResult, error)
}

// CommentServiceInterface はコメントサービスのインターフェース
type CommentServiceInterface interface {
	CreateComment(ctx context.Context, userID, eventID, text string) (*comment.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID, text string) (*comment.Comment, error)
	DeleteOwnComment(ctx context.Context, userID, commentID string) error
	DeleteComment(ctx context.Context, commentID string) error
	ListEventComments(ctx context.Context, eventID string, from, size int) ([]*comment.Comment, error)
}

// DirectoryServiceInterface はユーザーとカテゴリのサービスのインターフェース
type DirectoryServiceInterface interface {
	CreateUser(ctx context.Context, name, email string) (*user.User, error)
	ListUsers(ctx context.Context, ids []string, from, size int) ([]*user.User, error)
	CreateCategory(ctx context.Context, name string) (*category.Category, error)
	GetCategory(ctx context.Context, id string) (*category.Category, error)
	ListCategories(ctx context.Context, from, size int) ([]*category.Category, error)
}
