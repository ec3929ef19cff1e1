package event

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/pkg/optional"
)

// State はイベントのライフサイクル状態を表す
type State string

const (
	StatePending   State = "PENDING"
	StatePublished State = "PUBLISHED"
	StateCanceled  State = "CANCELED"
)

// ParseState は文字列から状態を解釈する
func ParseState(s string) (State, bool) {
	switch State(s) {
	case StatePending, StatePublished, StateCanceled:
		return State(s), true
	}
	return "", false
}

// StateAction は状態遷移の要求を表す
type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionPublish      StateAction = "PUBLISH_EVENT"
	ActionReject       StateAction = "REJECT_EVENT"
)

// IsOwnerAction は主催者が実行できるアクションかを返す
func (a StateAction) IsOwnerAction() bool {
	return a == ActionSendToReview || a == ActionCancelReview
}

// IsAdminAction は管理者が実行できるアクションかを返す
func (a StateAction) IsAdminAction() bool {
	return a == ActionPublish || a == ActionReject
}

// ParseStateAction は文字列から状態遷移アクションを解釈する
func ParseStateAction(s string) (StateAction, bool) {
	switch a := StateAction(s); a {
	case ActionSendToReview, ActionCancelReview, ActionPublish, ActionReject:
		return a, true
	}
	return "", false
}

// MinLeadTime は作成・変更時点から開催日時までに必要な猶予
const MinLeadTime = 2 * time.Hour

// 文字数制限
const (
	TitleMinLen       = 3
	TitleMaxLen       = 120
	AnnotationMinLen  = 20
	AnnotationMaxLen  = 2000
	DescriptionMinLen = 20
	DescriptionMaxLen = 7000
)

// Location は開催地の座標
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event はイベントエンティティを表す
// PublishedOn は State が PUBLISHED のときだけ非nil で、一度設定されたら変わらない
type Event struct {
	ID                string
	Title             string
	Annotation        string
	Description       string
	CategoryID        string
	InitiatorID       string
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
	EventDate         time.Time
	CreatedOn         time.Time
	PublishedOn       *time.Time
	State             State
}

// NewEvent は新しいイベントを作成する
// 参加上限は0（無制限）、事前承認ありで初期化される
func NewEvent(initiatorID, categoryID, title, annotation, description string, loc Location, eventDate, now time.Time) *Event {
	return &Event{
		Title:             title,
		Annotation:        annotation,
		Description:       description,
		CategoryID:        categoryID,
		InitiatorID:       initiatorID,
		Location:          loc,
		ParticipantLimit:  0,
		RequestModeration: true,
		EventDate:         eventDate,
		CreatedOn:         now,
		State:             StatePending,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate(now time.Time) error {
	var fields []apperror.FieldError
	fields = appendLenError(fields, "title", e.Title, TitleMinLen, TitleMaxLen)
	fields = appendLenError(fields, "annotation", e.Annotation, AnnotationMinLen, AnnotationMaxLen)
	fields = appendLenError(fields, "description", e.Description, DescriptionMinLen, DescriptionMaxLen)
	if e.CategoryID == "" {
		fields = append(fields, apperror.FieldError{Field: "category", Message: "必須です"})
	}
	if e.ParticipantLimit < 0 {
		fields = append(fields, apperror.FieldError{Field: "participantLimit", Message: "0以上である必要があります"})
	}
	if err := checkEventDate(e.EventDate, now); err != nil {
		fields = append(fields, err.Fields...)
	}
	if len(fields) > 0 {
		return apperror.Validation(ErrInvalidEvent.Message, fields...)
	}
	return nil
}

// IsPublished は公開済みかを返す
func (e *Event) IsPublished() bool {
	return e.State == StatePublished
}

// IsInitiator は指定ユーザーが主催者かを返す
func (e *Event) IsInitiator(userID string) bool {
	return e.InitiatorID == userID
}

// HasCapacity は確定済み件数に対してまだ空きがあるかを返す
func (e *Event) HasCapacity(confirmed int) bool {
	return e.ParticipantLimit == 0 || confirmed < e.ParticipantLimit
}

// NeedsModeration は新規参加リクエストが承認待ちになるかを返す
func (e *Event) NeedsModeration() bool {
	return e.ParticipantLimit > 0 && e.RequestModeration
}

// CheckOwnerEditable は主催者による変更が可能かを検証する
func (e *Event) CheckOwnerEditable(userID string) error {
	if !e.IsInitiator(userID) {
		return ErrNotInitiator
	}
	if e.IsPublished() {
		return ErrPublishedEventImmutable
	}
	return nil
}

// Publish は PENDING のイベントを公開する
func (e *Event) Publish(now time.Time) error {
	if e.State != StatePending {
		return ErrNotPending
	}
	e.State = StatePublished
	e.PublishedOn = &now
	return nil
}

// Reject は未公開のイベントを却下する
func (e *Event) Reject() error {
	if e.IsPublished() {
		return ErrAlreadyPublished
	}
	e.State = StateCanceled
	return nil
}

// ApplyOwnerAction は主催者の状態遷移を適用する
func (e *Event) ApplyOwnerAction(a StateAction) error {
	if !a.IsOwnerAction() {
		return ErrInvalidOwnerAction
	}
	if e.IsPublished() {
		return ErrPublishedEventImmutable
	}
	switch a {
	case ActionSendToReview:
		e.State = StatePending
	case ActionCancelReview:
		e.State = StateCanceled
	}
	return nil
}

// ApplyAdminAction は管理者の状態遷移を適用する
func (e *Event) ApplyAdminAction(a StateAction, now time.Time) error {
	switch a {
	case ActionPublish:
		return e.Publish(now)
	case ActionReject:
		return e.Reject()
	}
	return ErrInvalidAdminAction
}

// Patch はイベントの部分更新を表す
// 未指定のフィールドは変更しない。null は非許容のため検証エラーになる
type Patch struct {
	Title             optional.Field[string]
	Annotation        optional.Field[string]
	Description       optional.Field[string]
	CategoryID        optional.Field[string]
	Location          optional.Field[Location]
	Paid              optional.Field[bool]
	ParticipantLimit  optional.Field[int]
	RequestModeration optional.Field[bool]
	EventDate         optional.Field[time.Time]
	StateAction       optional.Field[StateAction]
}

// Validate はパッチの値を検証する
func (p Patch) Validate(now time.Time) error {
	var fields []apperror.FieldError
	nulls := []struct {
		name string
		null bool
	}{
		{"title", p.Title.Null},
		{"annotation", p.Annotation.Null},
		{"description", p.Description.Null},
		{"category", p.CategoryID.Null},
		{"location", p.Location.Null},
		{"paid", p.Paid.Null},
		{"participantLimit", p.ParticipantLimit.Null},
		{"requestModeration", p.RequestModeration.Null},
		{"eventDate", p.EventDate.Null},
		{"stateAction", p.StateAction.Null},
	}
	for _, n := range nulls {
		if n.null {
			fields = append(fields, apperror.FieldError{Field: n.name, Message: "nullは指定できません"})
		}
	}
	if v, ok := p.Title.Get(); ok {
		fields = appendLenError(fields, "title", v, TitleMinLen, TitleMaxLen)
	}
	if v, ok := p.Annotation.Get(); ok {
		fields = appendLenError(fields, "annotation", v, AnnotationMinLen, AnnotationMaxLen)
	}
	if v, ok := p.Description.Get(); ok {
		fields = appendLenError(fields, "description", v, DescriptionMinLen, DescriptionMaxLen)
	}
	if v, ok := p.ParticipantLimit.Get(); ok && v < 0 {
		fields = append(fields, apperror.FieldError{Field: "participantLimit", Message: "0以上である必要があります"})
	}
	if v, ok := p.EventDate.Get(); ok {
		if err := checkEventDate(v, now); err != nil {
			fields = append(fields, err.Fields...)
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(ErrInvalidEvent.Message, fields...)
	}
	return nil
}

// CheckLimitChange は参加上限の変更が確定済み件数と矛盾しないかを検証する
func (p Patch) CheckLimitChange(confirmed int) error {
	limit, ok := p.ParticipantLimit.Get()
	if !ok || limit == 0 {
		return nil
	}
	if limit < confirmed {
		return ErrLimitBelowConfirmed
	}
	return nil
}

// ApplyFields は指定されたフィールドだけをイベントに反映する
// 状態遷移は含まない
func (e *Event) ApplyFields(p Patch) {
	if v, ok := p.Title.Get(); ok {
		e.Title = v
	}
	if v, ok := p.Annotation.Get(); ok {
		e.Annotation = v
	}
	if v, ok := p.Description.Get(); ok {
		e.Description = v
	}
	if v, ok := p.CategoryID.Get(); ok {
		e.CategoryID = v
	}
	if v, ok := p.Location.Get(); ok {
		e.Location = v
	}
	if v, ok := p.Paid.Get(); ok {
		e.Paid = v
	}
	if v, ok := p.ParticipantLimit.Get(); ok {
		e.ParticipantLimit = v
	}
	if v, ok := p.RequestModeration.Get(); ok {
		e.RequestModeration = v
	}
	if v, ok := p.EventDate.Get(); ok {
		e.EventDate = v
	}
}

func checkEventDate(eventDate, now time.Time) *apperror.Error {
	if eventDate.Before(now.Add(MinLeadTime)) {
		return apperror.Validation(ErrEventDateTooSoon.Message,
			apperror.FieldError{Field: "eventDate", Message: "開催日時は現在から2時間以上先である必要があります"})
	}
	return nil
}

func appendLenError(fields []apperror.FieldError, name, v string, min, max int) []apperror.FieldError {
	if strings.TrimSpace(v) == "" {
		return append(fields, apperror.FieldError{Field: name, Message: "空白のみは指定できません"})
	}
	n := utf8.RuneCountInString(v)
	if n < min || n > max {
		return append(fields, apperror.FieldError{Field: name, Message: lenMessage(min, max)})
	}
	return fields
}
