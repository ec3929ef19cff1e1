package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
	}{
		{"開発環境", "development", ""},
		{"本番環境", "production", ""},
		{"レベル指定あり", "development", "debug"},
		{"不正なレベルは無視", "production", "invalid_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogger(tt.env, tt.level)
			require.NotNil(t, l)
			l.Info("test message")
		})
	}
}

func TestNewLogger_LevelApplied(t *testing.T) {
	l := NewLogger("production", "warn")
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestSetAndGet(t *testing.T) {
	original := Get()
	defer Set(original)

	newLogger := zap.NewNop()
	Set(newLogger)

	assert.Equal(t, newLogger, Get())
}

func TestFromContext(t *testing.T) {
	original := Get()
	defer Set(original)

	core, logs := observer.New(zapcore.InfoLevel)
	reqLogger := zap.New(core).With(zap.String("request_id", "req-1"))

	t.Run("コンテキストのロガーを返す", func(t *testing.T) {
		ctx := WithContext(context.Background(), reqLogger)
		FromContext(ctx).Info("moderated")

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "moderated", entry.Message)
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	})

	t.Run("未設定ならグローバルロガー", func(t *testing.T) {
		assert.Equal(t, Get(), FromContext(context.Background()))
	})
}

func TestPackageFunctions(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("test info message", zap.Int("int_field", 42))
		Warn("test warn message")
		Error("test error", zap.String("error_code", "E001"))
		Debug("test debug message")
		_ = With(zap.String("key", "value"))
		_ = Sync()
	})
}
