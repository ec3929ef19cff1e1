package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-event-participation/internal/domain/comment"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

type CommentService struct {
	commentRepo comment.Repository
	eventRepo   event.Repository
	userRepo    user.Repository
	now         func() time.Time
}

func NewCommentService(cr comment.Repository, er event.Repository, ur user.Repository) *CommentService {
	return &CommentService{commentRepo: cr, eventRepo: er, userRepo: ur, now: time.Now}
}

func (s *CommentService) CreateComment(ctx context.Context, userID, eventID, text string) (*comment.Comment, error) {
	c := comment.NewComment(eventID, userID, text, s.now())
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateComment は投稿者が編集期間内に本文を変更する
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID, text string) (*comment.Comment, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := c.Edit(userID, text, s.now()); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) DeleteOwnComment(ctx context.Context, userID, commentID string) error {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := c.CheckAuthor(userID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, c.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID string) error {
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *CommentService) ListEventComments(ctx context.Context, eventID string, from, size int) ([]*comment.Comment, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 10
	}
	if from < 0 {
		from = 0
	}
	return s.commentRepo.ListByEvent(ctx, eventID, from, size)
}
