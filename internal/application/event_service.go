package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/request"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

// EventDetails はイベントと集計値をまとめたもの
type EventDetails struct {
	Event             *event.Event
	ConfirmedRequests int
	Views             int64
}

// 公開一覧の並び順
const (
	SortEventDate = "EVENT_DATE"
	SortViews     = "VIEWS"
)

type EventService struct {
	txManager    transaction.Manager
	eventRepo    event.Repository
	requestRepo  request.Repository
	userRepo     user.Repository
	categoryRepo category.Repository
	views        *ViewService
	indexer      EventIndexer
	notifier     Notifier
	now          func() time.Time
}

// NewEventService は EventService を作成する
// indexer と notifier は nil でもよい
func NewEventService(
	txm transaction.Manager,
	er event.Repository,
	rr request.Repository,
	ur user.Repository,
	cr category.Repository,
	views *ViewService,
	indexer EventIndexer,
	notifier Notifier,
) *EventService {
	return &EventService{
		txManager:    txm,
		eventRepo:    er,
		requestRepo:  rr,
		userRepo:     ur,
		categoryRepo: cr,
		views:        views,
		indexer:      indexer,
		notifier:     notifier,
		now:          time.Now,
	}
}

type CreateEventInput struct {
	UserID            string
	CategoryID        string
	Title             string
	Annotation        string
	Description       string
	Location          event.Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	EventDate         time.Time
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*EventDetails, error) {
	now := s.now()
	e := event.NewEvent(input.UserID, input.CategoryID, input.Title, input.Annotation, input.Description,
		input.Location, input.EventDate, now)
	if input.Paid != nil {
		e.Paid = *input.Paid
	}
	if input.ParticipantLimit != nil {
		e.ParticipantLimit = *input.ParticipantLimit
	}
	if input.RequestModeration != nil {
		e.RequestModeration = *input.RequestModeration
	}
	if err := e.Validate(now); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.Create(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	logger.Info("イベントを作成しました", zap.String("event_id", e.ID), zap.String("initiator_id", e.InitiatorID))
	return &EventDetails{Event: e}, nil
}

type UpdateEventByOwnerInput struct {
	UserID  string
	EventID string
	Patch   event.Patch
}

// UpdateEventByOwner は主催者による部分更新を行う
// 公開済みのイベントはどのフィールドも変更できない
func (s *EventService) UpdateEventByOwner(ctx context.Context, input UpdateEventByOwnerInput) (*EventDetails, error) {
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	return s.update(ctx, input.EventID, input.Patch, func(e *event.Event) error {
		// 所有者と状態の確認を入力値の検証より先に行う
		if err := e.CheckOwnerEditable(input.UserID); err != nil {
			return err
		}
		if err := input.Patch.Validate(s.now()); err != nil {
			return err
		}
		if a, ok := input.Patch.StateAction.Get(); ok && !a.IsOwnerAction() {
			return event.ErrInvalidOwnerAction
		}
		e.ApplyFields(input.Patch)
		if a, ok := input.Patch.StateAction.Get(); ok {
			return e.ApplyOwnerAction(a)
		}
		return nil
	})
}

type UpdateEventByAdminInput struct {
	EventID string
	Patch   event.Patch
}

// UpdateEventByAdmin は管理者による部分更新と公開・却下を行う
func (s *EventService) UpdateEventByAdmin(ctx context.Context, input UpdateEventByAdminInput) (*EventDetails, error) {
	now := s.now()
	if err := input.Patch.Validate(now); err != nil {
		return nil, err
	}
	if a, ok := input.Patch.StateAction.Get(); ok && !a.IsAdminAction() {
		return nil, event.ErrInvalidAdminAction
	}

	return s.update(ctx, input.EventID, input.Patch, func(e *event.Event) error {
		e.ApplyFields(input.Patch)
		if a, ok := input.Patch.StateAction.Get(); ok {
			return e.ApplyAdminAction(a, now)
		}
		return nil
	})
}

// update はイベント行をロックした上で mutate を適用して保存する
// カテゴリの存在確認は mutate の後に行う
func (s *EventService) update(ctx context.Context, eventID string, p event.Patch, mutate func(e *event.Event) error) (*EventDetails, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	e, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	prevState := e.State
	if err := mutate(e); err != nil {
		return nil, err
	}
	if categoryID, ok := p.CategoryID.Get(); ok {
		if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, err
		}
	}
	confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, tx, e.ID, request.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if err := p.CheckLimitChange(confirmed); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	if e.State != prevState {
		metrics.Get().EventTransitionsTotal.WithLabelValues(string(e.State)).Inc()
		logger.Info("イベントの状態が変わりました",
			zap.String("event_id", e.ID), zap.String("from", string(prevState)), zap.String("to", string(e.State)))
		s.notify(ctx, SubjectEventState, EventStateNotification{EventID: e.ID, State: string(e.State), PublishedOn: e.PublishedOn})
	}
	if e.IsPublished() {
		s.index(ctx, e)
	}

	details := &EventDetails{Event: e, ConfirmedRequests: confirmed}
	if e.IsPublished() && s.views != nil {
		details.Views = s.views.Views(ctx, []*event.Event{e})[e.ID]
	}
	return details, nil
}

// GetOwnEvent は主催者自身のイベントを取得する
// 他人のイベントは存在しないものとして扱う
func (s *EventService) GetOwnEvent(ctx context.Context, userID, eventID string) (*EventDetails, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.IsInitiator(userID) {
		return nil, event.ErrEventNotFound
	}
	details, err := s.details(ctx, []*event.Event{e})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

type OwnEventsInput struct {
	UserID string
	States []event.State
	From   int
	Size   int
}

// ListOwnEvents は主催者自身のイベントを作成日時の新しい順に返す
// States が空なら全状態を対象にする
func (s *EventService) ListOwnEvents(ctx context.Context, input OwnEventsInput) ([]*EventDetails, error) {
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.Search(ctx, event.Filter{
		InitiatorIDs: []string{input.UserID},
		States:       input.States,
		Order:        event.OrderCreatedOnDesc,
		From:         input.From,
		Size:         input.Size,
	})
	if err != nil {
		return nil, err
	}
	return s.details(ctx, events)
}

type AdminSearchInput struct {
	UserIDs     []string
	States      []event.State
	CategoryIDs []string
	RangeStart  *time.Time
	RangeEnd    *time.Time
	From        int
	Size        int
}

func (s *EventService) SearchEvents(ctx context.Context, input AdminSearchInput) ([]*EventDetails, error) {
	f := event.Filter{
		InitiatorIDs: input.UserIDs,
		States:       input.States,
		CategoryIDs:  input.CategoryIDs,
		RangeStart:   input.RangeStart,
		RangeEnd:     input.RangeEnd,
		Order:        event.OrderCreatedOnDesc,
		From:         input.From,
		Size:         input.Size,
	}
	if err := f.CheckRange(); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, events)
}

type PublicSearchInput struct {
	Text          string
	CategoryIDs   []string
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          string
	From          int
	Size          int
	ClientIP      string
	URI           string
}

// ListPublishedEvents は公開イベントを検索する
// 期間指定がなければ現在以降のイベントを返す
func (s *EventService) ListPublishedEvents(ctx context.Context, input PublicSearchInput) ([]*EventDetails, error) {
	f := event.Filter{
		States:        []event.State{event.StatePublished},
		CategoryIDs:   input.CategoryIDs,
		Text:          input.Text,
		Paid:          input.Paid,
		RangeStart:    input.RangeStart,
		RangeEnd:      input.RangeEnd,
		OnlyAvailable: input.OnlyAvailable,
		Order:         event.OrderEventDate,
		From:          input.From,
		Size:          input.Size,
	}
	if err := f.CheckRange(); err != nil {
		return nil, err
	}
	switch input.Sort {
	case "", SortEventDate, SortViews:
	default:
		return nil, ErrInvalidSort
	}
	if f.RangeStart == nil && f.RangeEnd == nil {
		now := s.now()
		f.RangeStart = &now
	}

	s.recordHit(input.URI, input.ClientIP)

	if f.Text != "" && s.indexer != nil {
		ids, err := s.indexer.SearchIDs(ctx, f.Text, event.MaxPageSize)
		if err != nil {
			logger.Warn("全文検索に失敗したためDB検索に切り替えます", zap.Error(err))
		} else {
			if len(ids) == 0 {
				return []*EventDetails{}, nil
			}
			f.IDs = ids
			f.Text = ""
		}
	}

	events, err := s.eventRepo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	details, err := s.details(ctx, events)
	if err != nil {
		return nil, err
	}
	if input.Sort == SortViews {
		sort.SliceStable(details, func(i, j int) bool { return details[i].Views > details[j].Views })
	}
	return details, nil
}

// GetPublishedEvent は公開済みのイベントを取得する
func (s *EventService) GetPublishedEvent(ctx context.Context, eventID, clientIP, uri string) (*EventDetails, error) {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.IsPublished() {
		return nil, event.ErrEventNotFound
	}
	s.recordHit(uri, clientIP)
	details, err := s.details(ctx, []*event.Event{e})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *EventService) details(ctx context.Context, events []*event.Event) ([]*EventDetails, error) {
	result := make([]*EventDetails, len(events))
	if len(events) == 0 {
		return result, nil
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	confirmed, err := s.requestRepo.CountConfirmedByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var views map[string]int64
	if s.views != nil {
		views = s.views.Views(ctx, events)
	}
	for i, e := range events {
		result[i] = &EventDetails{Event: e, ConfirmedRequests: confirmed[e.ID], Views: views[e.ID]}
	}
	return result, nil
}

func (s *EventService) recordHit(uri, ip string) {
	if s.views != nil && uri != "" {
		s.views.RecordHit(uri, ip)
	}
}

func (s *EventService) index(ctx context.Context, e *event.Event) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexEvent(ctx, e); err != nil {
		logger.Warn("検索インデックスの更新に失敗しました", zap.String("event_id", e.ID), zap.Error(err))
	}
}

func (s *EventService) notify(ctx context.Context, subject string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, subject, payload); err != nil {
		logger.Warn("通知の送信に失敗しました", zap.String("subject", subject), zap.Error(err))
	}
}
