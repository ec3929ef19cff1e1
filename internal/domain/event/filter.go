package event

import "time"

// Order は一覧の並び順
type Order string

const (
	OrderCreatedOnDesc Order = "CREATED_ON_DESC"
	OrderEventDate     Order = "EVENT_DATE"
	OrderEventDateDesc Order = "EVENT_DATE_DESC"
)

// Filter はイベント検索条件を表す
// ゼロ値のフィールドは条件に含めない。SQLへの変換はストレージ層が一箇所で行う
type Filter struct {
	IDs           []string
	InitiatorIDs  []string
	States        []State
	CategoryIDs   []string
	Text          string
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Order         Order
	From          int
	Size          int
}

// DefaultPageSize は size 未指定時の件数
const DefaultPageSize = 10

// MaxPageSize は1ページあたりの最大件数
const MaxPageSize = 1000

// Normalize はページング値を補正する
func (f Filter) Normalize() Filter {
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	if f.From < 0 {
		f.From = 0
	}
	if f.Order == "" {
		f.Order = OrderCreatedOnDesc
	}
	return f
}

// CheckRange は期間指定の整合性を検証する
func (f Filter) CheckRange() error {
	if f.RangeStart != nil && f.RangeEnd != nil && f.RangeEnd.Before(*f.RangeStart) {
		return ErrInvalidRange
	}
	return nil
}
