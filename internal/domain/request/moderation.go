package request

// ParseModerationStatus はモデレーションの目標状態を解釈する
// CONFIRMED と REJECTED のみ受け付ける
func ParseModerationStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusRejected:
		return Status(s), nil
	}
	return "", ErrInvalidModerationStatus
}

// ModerationResult は一括モデレーションの結果
type ModerationResult struct {
	Confirmed []*ParticipationRequest
	Rejected  []*ParticipationRequest
}

// Moderate は指定順にリクエストへ目標状態を適用する
// 1件でも条件を満たさなければエラーを返し、呼び出し側は何も永続化してはならない
// confirmed は同一トランザクション内でロック下に数えた確定済み件数
func Moderate(eventID string, limit, confirmed int, targets []*ParticipationRequest, status Status) (*ModerationResult, error) {
	if status != StatusConfirmed && status != StatusRejected {
		return nil, ErrInvalidModerationStatus
	}
	for _, r := range targets {
		if r.EventID != eventID {
			return nil, ErrForeignRequest
		}
	}
	for _, r := range targets {
		if !r.IsPending() {
			return nil, ErrNotPending
		}
	}

	result := &ModerationResult{
		Confirmed: []*ParticipationRequest{},
		Rejected:  []*ParticipationRequest{},
	}
	if status == StatusRejected {
		for _, r := range targets {
			r.Status = StatusRejected
			result.Rejected = append(result.Rejected, r)
		}
		return result, nil
	}

	for _, r := range targets {
		if limit > 0 && confirmed >= limit {
			return nil, ErrParticipantLimitReached
		}
		r.Status = StatusConfirmed
		confirmed++
		result.Confirmed = append(result.Confirmed, r)
	}
	return result, nil
}
