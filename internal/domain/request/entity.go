package request

import "time"

// Status は参加リクエストの状態を表す
// PENDING 以外はすべて終端状態
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCanceled  Status = "CANCELED"
)

// ParticipationRequest は参加リクエストエンティティを表す
type ParticipationRequest struct {
	ID          string
	EventID     string
	RequesterID string
	Created     time.Time
	Status      Status
}

// NewParticipationRequest は新しい参加リクエストを作成する
// needsModeration が false の場合は即時確定になる
func NewParticipationRequest(eventID, requesterID string, needsModeration bool, now time.Time) *ParticipationRequest {
	status := StatusConfirmed
	if needsModeration {
		status = StatusPending
	}
	return &ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Created:     now,
		Status:      status,
	}
}

// IsPending は承認待ちかを返す
func (r *ParticipationRequest) IsPending() bool {
	return r.Status == StatusPending
}

// IsRequester は指定ユーザーが申請者かを返す
func (r *ParticipationRequest) IsRequester(userID string) bool {
	return r.RequesterID == userID
}

// Cancel はリクエストを取り消す
// 以前の状態に関わらず CANCELED になり、繰り返し呼んでもエラーにならない
func (r *ParticipationRequest) Cancel() {
	r.Status = StatusCanceled
}
