package request

import "github.com/sanosuguru/go-event-participation/internal/domain/apperror"

// 参加リクエストドメインのエラー定義
var (
	ErrRequestNotFound         = apperror.NotFound("参加リクエストが見つかりません")
	ErrRequestAlreadyExists    = apperror.AlreadyExists("このイベントへの参加リクエストは既に存在します")
	ErrOwnEvent                = apperror.Conflict("自分が主催するイベントには参加リクエストできません")
	ErrEventNotPublished       = apperror.Conflict("公開されていないイベントです")
	ErrParticipantLimitReached = apperror.Conflict("参加上限に達しています")
	ErrForeignRequest          = apperror.Conflict("別のイベントの参加リクエストが含まれています")
	ErrNotPending              = apperror.Conflict("承認待ちでない参加リクエストは変更できません")
	ErrInvalidModerationStatus = apperror.Validation("status は CONFIRMED または REJECTED である必要があります",
		apperror.FieldError{Field: "status", Message: "CONFIRMED または REJECTED"})
	ErrEmptyRequestIDs = apperror.Validation("requestIds は必須です",
		apperror.FieldError{Field: "requestIds", Message: "1件以上指定してください"})
)
