package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
)

// CustomValidator はEcho用のカスタムバリデーター
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
// フィールド名はJSONのキー名で報告する
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// 空白のみの文字列を拒否する
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
// 失敗時はフィールドエラー付きの検証エラーを返す
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(err.Error())
	}
	fields := make([]apperror.FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = apperror.FieldError{Field: fe.Field(), Message: message(fe)}
	}
	return apperror.Validation("入力値が不正です", fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必須です"
	case "notblank":
		return "空白のみは指定できません"
	case "email":
		return "メールアドレスの形式が不正です"
	case "min":
		return fe.Param() + "以上である必要があります"
	case "max":
		return fe.Param() + "以下である必要があります"
	case "oneof":
		return fe.Param() + " のいずれかである必要があります"
	default:
		return fe.Tag() + " を満たしていません"
	}
}
