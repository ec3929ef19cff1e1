package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-participation/internal/api"
	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

// PrometheusMiddleware はHTTPメトリクスを収集するミドルウェア
// /metrics 自身へのアクセスは記録しない
func PrometheusMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			statusCode := strconv.Itoa(statusOf(c, err))

			m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// statusOf はエラーハンドラーが返すことになるステータスを求める
// エラーレスポンスはミドルウェアを抜けた後に書かれる
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if _, ok := apperror.As(err); ok {
		return api.StatusOf(apperror.KindOf(err))
	}
	return http.StatusInternalServerError
}
