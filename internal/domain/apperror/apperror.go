package apperror

import (
	"errors"
	"strings"
)

// Kind はエラーの分類を表す
type Kind string

const (
	KindNotFound      Kind = "NOT_FOUND"
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	KindConflict      Kind = "CONFLICT"
	KindValidation    Kind = "VALIDATION_FAILED"
	KindInternal      Kind = "INTERNAL"
)

// FieldError はフィールド単位の検証エラー
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// Error はドメイン層で発生する分類付きエラー
// 各ドメインパッケージはこの型のセンチネルを定義し、errors.Is で比較する
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func NotFound(msg string) *Error      { return &Error{Kind: KindNotFound, Message: msg} }
func AlreadyExists(msg string) *Error { return &Error{Kind: KindAlreadyExists, Message: msg} }
func Conflict(msg string) *Error      { return &Error{Kind: KindConflict, Message: msg} }

// Validation はフィールドエラー付きの検証エラーを作成する
func Validation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Field は1フィールド分の検証エラーを作成する
func Field(field, msg string) *Error {
	return Validation("入力値が不正です", FieldError{Field: field, Message: msg})
}

// KindOf はエラーチェーンから分類を取り出す。分類がなければ KindInternal
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// As はエラーチェーンから *Error を取り出す
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
