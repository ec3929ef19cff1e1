package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

func TestSetupMiddleware(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e)

	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "test")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Body.String())
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestSetupMiddleware_BodyLimit(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e)

	e.POST("/test", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", 2<<20)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// observeLogs はグローバルロガーを観測用に差し替える
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	prev := logger.Get()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })
	return logs
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantLevel string
		wantMsg   string
		wantCode  int
	}{
		{
			name:      "成功はinfo",
			handler:   func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			wantLevel: "info",
			wantMsg:   "request completed",
			wantCode:  200,
		},
		{
			name:      "ドメインの競合はwarn",
			handler:   func(c echo.Context) error { return apperror.Conflict("満席") },
			wantLevel: "warn",
			wantMsg:   "client error",
			wantCode:  409,
		},
		{
			name:      "未分類のエラーはerror",
			handler:   func(c echo.Context) error { return assert.AnError },
			wantLevel: "error",
			wantMsg:   "server error",
			wantCode:  500,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)
			e := echo.New()
			e.Use(RequestLogger())
			e.GET("/users/:userId/events", tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/users/u-1/events", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-1")
			e.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.FilterMessage(tt.wantMsg).All()
			if assert.Len(t, entries, 1) {
				fields := entries[0].ContextMap()
				assert.Equal(t, tt.wantLevel, entries[0].Level.String())
				assert.Equal(t, "req-1", fields["request_id"])
				assert.Equal(t, "u-1", fields["user_id"])
				assert.Equal(t, "/users/:userId/events", fields["route"])
				assert.EqualValues(t, tt.wantCode, fields["status"])
			}
		})
	}
}

func TestRequestLogger_ContextLogger(t *testing.T) {
	logs := observeLogs(t)
	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/test", func(c echo.Context) error {
		logger.FromContext(c.Request().Context()).Info("handler log")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-2")
	e.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("handler log").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "req-2", entries[0].ContextMap()["request_id"])
	}
}

func TestPrometheusMiddleware(t *testing.T) {
	e := echo.New()
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	e.Use(PrometheusMiddleware(m))

	e.GET("/events/:eventId", func(c echo.Context) error {
		if c.Param("eventId") == "missing" {
			return apperror.NotFound("イベントが見つかりません")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, target := range []string{"/events/1", "/events/2", "/events/missing", "/metrics"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/events/:eventId", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/events/:eventId", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200")))
}

func TestPrometheusMiddleware_WithError(t *testing.T) {
	e := echo.New()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	e.Use(PrometheusMiddleware(m))

	e.GET("/error", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/error", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/error", "400")))
}
