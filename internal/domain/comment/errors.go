package comment

import "github.com/sanosuguru/go-event-participation/internal/domain/apperror"

var (
	ErrCommentNotFound   = apperror.NotFound("コメントが見つかりません")
	ErrNotAuthor         = apperror.Conflict("投稿者のみ操作できます")
	ErrEditWindowExpired = apperror.Conflict("コメントは作成から15分以内のみ編集できます")
)
