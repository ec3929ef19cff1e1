package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
)

type sampleRequest struct {
	Name   string   `json:"name" validate:"required,notblank"`
	Email  string   `json:"email" validate:"required,email"`
	IDs    []string `json:"requestIds" validate:"required,min=1"`
	Status string   `json:"status" validate:"omitempty,oneof=CONFIRMED REJECTED"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := NewValidator()

	t.Run("有効なリクエスト", func(t *testing.T) {
		err := v.Validate(&sampleRequest{Name: "花子", Email: "hanako@example.com", IDs: []string{"r1"}})
		assert.NoError(t, err)
	})

	t.Run("JSONのキー名でフィールドエラーを返す", func(t *testing.T) {
		err := v.Validate(&sampleRequest{Email: "hanako", IDs: []string{}, Status: "PENDING"})

		ae, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindValidation, ae.Kind)

		got := map[string]string{}
		for _, f := range ae.Fields {
			got[f.Field] = f.Message
		}
		assert.Equal(t, "必須です", got["name"])
		assert.Equal(t, "メールアドレスの形式が不正です", got["email"])
		assert.Contains(t, got, "requestIds")
		assert.Contains(t, got, "status")
	})
}

func TestCustomValidator_NotBlank(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{Name: "   ", Email: "hanako@example.com", IDs: []string{"r1"}})

	ae, ok := apperror.As(err)
	require.True(t, ok)
	require.Len(t, ae.Fields, 1)
	assert.Equal(t, "name", ae.Fields[0].Field)
	assert.Equal(t, "空白のみは指定できません", ae.Fields[0].Message)
}
