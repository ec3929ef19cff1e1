package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/request"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-event-participation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

// RequestService は参加リクエストの受付とモデレーションを行う
// 同一イベントへの書き込みはイベント行の FOR UPDATE で直列化する
type RequestService struct {
	txManager   transaction.Manager
	requestRepo request.Repository
	eventRepo   event.Repository
	userRepo    user.Repository
	locker      EventLocker
	notifier    Notifier
	now         func() time.Time
}

// NewRequestService は RequestService を作成する
// locker と notifier は nil でもよい
func NewRequestService(
	txm transaction.Manager,
	rr request.Repository,
	er event.Repository,
	ur user.Repository,
	locker EventLocker,
	notifier Notifier,
) *RequestService {
	return &RequestService{
		txManager:   txm,
		requestRepo: rr,
		eventRepo:   er,
		userRepo:    ur,
		locker:      locker,
		notifier:    notifier,
		now:         time.Now,
	}
}

// CreateRequest は公開イベントへの参加リクエストを作成する
// 上限なし、または事前承認不要のイベントでは即時確定になる
func (s *RequestService) CreateRequest(ctx context.Context, userID, eventID string) (*request.ParticipationRequest, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	pr, err := s.createRequest(ctx, userID, eventID)
	if err != nil {
		metrics.Get().ParticipationRequestsTotal.WithLabelValues(admissionResult(err)).Inc()
		return nil, err
	}
	metrics.Get().ParticipationRequestsTotal.WithLabelValues(strings.ToLower(string(pr.Status))).Inc()
	logger.Info("参加リクエストを作成しました",
		zap.String("request_id", pr.ID), zap.String("event_id", eventID), zap.String("status", string(pr.Status)))
	return pr, nil
}

func (s *RequestService) createRequest(ctx context.Context, userID, eventID string) (*request.ParticipationRequest, error) {
	unlock, err := s.lock(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	e, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if e.IsInitiator(userID) {
		return nil, request.ErrOwnEvent
	}
	if !e.IsPublished() {
		return nil, request.ErrEventNotPublished
	}
	exists, err := s.requestRepo.ExistsActive(ctx, tx, e.ID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, request.ErrRequestAlreadyExists
	}
	if e.ParticipantLimit > 0 {
		confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, tx, e.ID, request.StatusConfirmed)
		if err != nil {
			return nil, err
		}
		if !e.HasCapacity(confirmed) {
			return nil, request.ErrParticipantLimitReached
		}
	}

	pr := request.NewParticipationRequest(e.ID, userID, e.NeedsModeration(), s.now())
	if err := s.requestRepo.Create(ctx, tx, pr); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return pr, nil
}

// CancelRequest は申請者自身のリクエストを取り消す
// 既に取り消し済みでもエラーにならない
func (s *RequestService) CancelRequest(ctx context.Context, userID, requestID string) (*request.ParticipationRequest, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	pr, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !pr.IsRequester(userID) {
		return nil, request.ErrRequestNotFound
	}
	pr.Cancel()
	if err := s.requestRepo.UpdateStatus(ctx, nil, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (s *RequestService) ListOwnRequests(ctx context.Context, userID string) ([]*request.ParticipationRequest, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.requestRepo.ListByRequester(ctx, userID)
}

// ListEventRequests は主催者のイベントへのリクエスト一覧を返す
func (s *RequestService) ListEventRequests(ctx context.Context, userID, eventID string) ([]*request.ParticipationRequest, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.IsInitiator(userID) {
		return nil, event.ErrNotInitiator
	}
	return s.requestRepo.ListByEvent(ctx, eventID)
}

type ModerateRequestsInput struct {
	UserID     string
	EventID    string
	RequestIDs []string
	Status     string
}

// ModerateRequests は承認待ちのリクエストを一括で確定または却下する
// いずれか1件でも処理できなければ何も変更しない
func (s *RequestService) ModerateRequests(ctx context.Context, input ModerateRequestsInput) (*request.ModerationResult, error) {
	status, err := request.ParseModerationStatus(input.Status)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(input.RequestIDs)
	if len(ids) == 0 {
		return nil, request.ErrEmptyRequestIDs
	}
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	result, err := s.moderate(ctx, input.UserID, input.EventID, ids, status)
	if err != nil {
		metrics.Get().ModerationsTotal.WithLabelValues(string(status), moderationResult(err)).Inc()
		return nil, err
	}
	metrics.Get().ModerationsTotal.WithLabelValues(string(status), "success").Inc()
	logger.Info("参加リクエストをモデレーションしました",
		zap.String("event_id", input.EventID),
		zap.Int("confirmed", len(result.Confirmed)),
		zap.Int("rejected", len(result.Rejected)))

	if s.notifier != nil {
		n := ModerationNotification{EventID: input.EventID, Confirmed: requestIDs(result.Confirmed), Rejected: requestIDs(result.Rejected)}
		if err := s.notifier.Publish(ctx, SubjectRequestsModerated, n); err != nil {
			logger.Warn("通知の送信に失敗しました", zap.String("subject", SubjectRequestsModerated), zap.Error(err))
		}
	}
	return result, nil
}

func (s *RequestService) moderate(ctx context.Context, userID, eventID string, ids []string, status request.Status) (*request.ModerationResult, error) {
	unlock, err := s.lock(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	e, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.IsInitiator(userID) {
		return nil, event.ErrNotInitiator
	}
	targets, err := s.requestRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, tx, e.ID, request.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	result, err := request.Moderate(e.ID, e.ParticipantLimit, confirmed, targets, status)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.UpdateStatuses(ctx, tx, targets); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return result, nil
}

// lock はイベントの分散ロックを取得する
// 取得できない場合も失敗にはせず、イベント行の FOR UPDATE で直列化する
func (s *RequestService) lock(ctx context.Context, eventID string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}
	start := time.Now()
	release, err := s.locker.LockEvent(ctx, eventID)
	m := metrics.Get()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.EventLockDuration.WithLabelValues("acquire", "failed").Observe(time.Since(start).Seconds())
			return nil, ctxErr
		}
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			m.EventLockDuration.WithLabelValues("acquire", "contended").Observe(time.Since(start).Seconds())
			logger.Debug("イベントロックが競合したため行ロックで待機します", zap.String("event_id", eventID))
			return noop, nil
		}
		m.EventLockDuration.WithLabelValues("acquire", "failed").Observe(time.Since(start).Seconds())
		logger.Warn("イベントロックを取得できないため行ロックのみで処理します", zap.String("event_id", eventID), zap.Error(err))
		return noop, nil
	}
	m.EventLockDuration.WithLabelValues("acquire", "success").Observe(time.Since(start).Seconds())

	return func() {
		start := time.Now()
		if err := release(context.WithoutCancel(ctx)); err != nil {
			m.EventLockDuration.WithLabelValues("release", "failed").Observe(time.Since(start).Seconds())
			logger.Warn("イベントロックの解放に失敗しました", zap.String("event_id", eventID), zap.Error(err))
			return
		}
		m.EventLockDuration.WithLabelValues("release", "success").Observe(time.Since(start).Seconds())
	}, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func requestIDs(rs []*request.ParticipationRequest) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func admissionResult(err error) string {
	switch {
	case errors.Is(err, request.ErrRequestAlreadyExists):
		return "already_exists"
	case errors.Is(err, request.ErrParticipantLimitReached):
		return "limit_reached"
	}
	return "rejected"
}

func moderationResult(err error) string {
	switch {
	case errors.Is(err, request.ErrParticipantLimitReached):
		return "capacity_exceeded"
	}
	return "conflict"
}
