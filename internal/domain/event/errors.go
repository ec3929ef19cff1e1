package event

import (
	"fmt"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
)

// Event ドメインのエラー定義
var (
	ErrEventNotFound           = apperror.NotFound("イベントが見つかりません")
	ErrInvalidEvent            = apperror.Validation("イベントの入力値が不正です")
	ErrEventDateTooSoon        = apperror.Validation("開催日時が近すぎます")
	ErrInvalidOwnerAction      = apperror.Validation("主催者が実行できない状態遷移です")
	ErrInvalidAdminAction      = apperror.Validation("管理者が実行できない状態遷移です")
	ErrInvalidRange            = apperror.Validation("rangeEnd は rangeStart 以降である必要があります")
	ErrNotInitiator            = apperror.Conflict("自分が主催するイベントのみ操作できます")
	ErrPublishedEventImmutable = apperror.Conflict("公開済みのイベントは変更できません")
	ErrNotPending              = apperror.Conflict("公開できるのは PENDING 状態のイベントのみです")
	ErrAlreadyPublished        = apperror.Conflict("公開済みのイベントは却下できません")
	ErrLimitBelowConfirmed     = apperror.Conflict("参加上限を確定済み件数より小さくできません")
)

func lenMessage(min, max int) string {
	return fmt.Sprintf("%d文字以上%d文字以下である必要があります", min, max)
}
