package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/comment"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/request"
	"github.com/sanosuguru/go-event-participation/internal/domain/stats"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	args := m.Called(ctx, tx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	args := m.Called(ctx, tx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Search(ctx context.Context, f event.Filter) ([]*event.Event, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

// MockRequestRepository implements request.Repository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, tx transaction.Tx, r *request.ParticipationRequest) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*request.ParticipationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.ParticipationRequest), args.Error(1)
}

func (m *MockRequestRepository) GetByIDsForUpdate(ctx context.Context, tx transaction.Tx, ids []string) ([]*request.ParticipationRequest, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.ParticipationRequest), args.Error(1)
}

func (m *MockRequestRepository) ExistsActive(ctx context.Context, tx transaction.Tx, eventID, requesterID string) (bool, error) {
	args := m.Called(ctx, tx, eventID, requesterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) CountByEventAndStatus(ctx context.Context, tx transaction.Tx, eventID string, status request.Status) (int, error) {
	args := m.Called(ctx, tx, eventID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockRequestRepository) CountConfirmedByEventIDs(ctx context.Context, eventIDs []string) (map[string]int, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, r *request.ParticipationRequest) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateStatuses(ctx context.Context, tx transaction.Tx, rs []*request.ParticipationRequest) error {
	args := m.Called(ctx, tx, rs)
	return args.Error(0)
}

func (m *MockRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*request.ParticipationRequest, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.ParticipationRequest), args.Error(1)
}

func (m *MockRequestRepository) ListByEvent(ctx context.Context, eventID string) ([]*request.ParticipationRequest, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.ParticipationRequest), args.Error(1)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, ids []string, from, size int) ([]*user.User, error) {
	args := m.Called(ctx, ids, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

// MockCategoryRepository implements category.Repository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, from, size int) ([]*category.Category, error) {
	args := m.Called(ctx, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

// MockCommentRepository implements comment.Repository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*comment.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*comment.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, c *comment.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByEvent(ctx context.Context, eventID string, from, size int) ([]*comment.Comment, error) {
	args := m.Called(ctx, eventID, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*comment.Comment), args.Error(1)
}

// MockEventLocker implements EventLocker
type MockEventLocker struct {
	mock.Mock
	released int
}

func (m *MockEventLocker) LockEvent(ctx context.Context, eventID string) (func(context.Context) error, error) {
	args := m.Called(ctx, eventID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

// MockViewCache implements ViewCache
type MockViewCache struct {
	mock.Mock
}

func (m *MockViewCache) GetViews(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockViewCache) SetViews(ctx context.Context, views map[string]int64) error {
	args := m.Called(ctx, views)
	return args.Error(0)
}

// MockStatsClient implements stats.Client
type MockStatsClient struct {
	mock.Mock
}

func (m *MockStatsClient) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStats, error) {
	args := m.Called(ctx, start, end, uris, unique)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stats.ViewStats), args.Error(1)
}

func (m *MockStatsClient) SendHit(ctx context.Context, hit stats.Hit) error {
	args := m.Called(ctx, hit)
	return args.Error(0)
}

// MockEventIndexer implements EventIndexer
type MockEventIndexer struct {
	mock.Mock
}

func (m *MockEventIndexer) IndexEvent(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventIndexer) SearchIDs(ctx context.Context, text string, limit int) ([]string, error) {
	args := m.Called(ctx, text, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockNotifier implements Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, subject string, payload interface{}) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

// recordedHits implements HitRecorder
type recordedHits struct {
	hits []stats.Hit
}

func (r *recordedHits) Enqueue(hit stats.Hit) bool {
	r.hits = append(r.hits, hit)
	return true
}
