package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
)

// TimestampLayout はエラーレスポンスの timestamp の書式
const TimestampLayout = "2006-01-02 15:04:05"

// FieldErrorResponse はフィールド単位のエラー
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Status    string               `json:"status"`
	Reason    string               `json:"reason"`
	Message   string               `json:"message"`
	Timestamp string               `json:"timestamp"`
	Errors    []FieldErrorResponse `json:"errors,omitempty"`
}

// StatusOf はエラー分類に対応するHTTPステータスを返す
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindAlreadyExists, apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var reasons = map[apperror.Kind]string{
	apperror.KindNotFound:      "対象のリソースが見つかりません",
	apperror.KindAlreadyExists: "リソースが既に存在します",
	apperror.KindConflict:      "現在の状態では操作できません",
	apperror.KindValidation:    "リクエストが不正です",
	apperror.KindInternal:      "内部サーバーエラー",
}

// NewErrorResponse はエラーからレスポンスとステータスを組み立てる
func NewErrorResponse(err error, now time.Time) (int, ErrorResponse) {
	var (
		code   = http.StatusInternalServerError
		kind   = apperror.KindInternal
		msg    = reasons[apperror.KindInternal]
		fields []FieldErrorResponse
	)

	var he *echo.HTTPError
	if ae, ok := apperror.As(err); ok {
		kind = ae.Kind
		code = StatusOf(kind)
		msg = ae.Message
		for _, f := range ae.Fields {
			fields = append(fields, FieldErrorResponse{Field: f.Field, Message: f.Message})
		}
	} else if errors.As(err, &he) {
		code = he.Code
		kind = kindOfStatus(code)
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	return code, ErrorResponse{
		Status:    statusName(code),
		Reason:    reasons[kind],
		Message:   msg,
		Timestamp: now.Format(TimestampLayout),
		Errors:    fields,
	}
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := NewErrorResponse(err, time.Now())

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.FromContext(c.Request().Context()).Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

func kindOfStatus(code int) apperror.Kind {
	switch {
	case code == http.StatusNotFound:
		return apperror.KindNotFound
	case code == http.StatusConflict:
		return apperror.KindConflict
	case code >= 400 && code < 500:
		return apperror.KindValidation
	default:
		return apperror.KindInternal
	}
}

// statusName は 404 を NOT_FOUND のような定数名にする
func statusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "INTERNAL_SERVER_ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
