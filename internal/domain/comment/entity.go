package comment

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
)

// EditWindow は作成後にコメントを編集できる期間
const EditWindow = 15 * time.Minute

// TextMaxLen はコメント本文の最大文字数
const TextMaxLen = 1000

// Comment はイベントへのコメントを表す
type Comment struct {
	ID       string
	EventID  string
	AuthorID string
	Text     string
	Created  time.Time
	Updated  *time.Time
}

// NewComment は新しいコメントを作成する
func NewComment(eventID, authorID, text string, now time.Time) *Comment {
	return &Comment{
		EventID:  eventID,
		AuthorID: authorID,
		Text:     text,
		Created:  now,
	}
}

// Validate はコメントの検証を行う
func (c *Comment) Validate() error {
	return validateText(c.Text)
}

// CheckAuthor は指定ユーザーが投稿者かを検証する
func (c *Comment) CheckAuthor(userID string) error {
	if c.AuthorID != userID {
		return ErrNotAuthor
	}
	return nil
}

// withinEditWindow は作成から EditWindow 以内かを返す。境界は含む
func (c *Comment) withinEditWindow(now time.Time) bool {
	return !now.After(c.Created.Add(EditWindow))
}

// Edit は本文を更新する
// 投稿者以外、または編集期間を過ぎた場合は Conflict
func (c *Comment) Edit(userID, text string, now time.Time) error {
	if err := c.CheckAuthor(userID); err != nil {
		return err
	}
	if !c.withinEditWindow(now) {
		return ErrEditWindowExpired
	}
	if err := validateText(text); err != nil {
		return err
	}
	c.Text = text
	c.Updated = &now
	return nil
}

func validateText(text string) error {
	n := utf8.RuneCountInString(text)
	if strings.TrimSpace(text) == "" || n > TextMaxLen {
		return apperror.Field("text", "1文字以上1000文字以下である必要があります")
	}
	return nil
}
