package xlog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type testMemOutWriter struct {
	data []byte
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testMemOutWriter) Reset() {
	w.data = make([]byte, 0, 4096)
}

func (w *testMemOutWriter) String() string {
	return string(w.data)
}

func newTestMemLogger(t *testing.T, lvl LogLevel, enc LogEncoderType) (XLogger, *testMemOutWriter) {
	t.Helper()
	w := &testMemOutWriter{data: make([]byte, 0, 4096)}
	writerMap[testMemAsOut] = zapcore.AddSync(w)
	t.Cleanup(func() {
		delete(writerMap, testMemAsOut)
	})
	logger := NewXLogger(
		WithXLoggerWriter(testMemAsOut),
		WithXLoggerEncoder(enc),
		WithXLoggerLevel(lvl),
		WithXLoggerConsoleCore(),
	)
	return logger, w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
	require.Equal(t, zapcore.DebugLevel, LogLevel("unknown").zapLevel())
}

func TestParseLogLevel(t *testing.T) {
	testcases := []struct {
		in       string
		expected LogLevel
	}{
		{"", LogLevelDebug},
		{"debug", LogLevelDebug},
		{"info", LogLevelInfo},
		{"Warn", LogLevelWarn},
		{"ERROR", LogLevelError},
		{"trace", LogLevelDebug},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.expected, ParseLogLevel(tc.in))
	}
}

func TestXLogger_JSON(t *testing.T) {
	logger, w := newTestMemLogger(t, LogLevelDebug, JSON)

	logger.Debug("debug msg", zap.Int("value", 1))
	require.Contains(t, w.String(), `"msg":"debug msg"`)
	require.Contains(t, w.String(), `"value":1`)
	require.Contains(t, w.String(), `"lvl":"DEBUG"`)
	w.Reset()

	logger.Info("info msg")
	require.Contains(t, w.String(), `"lvl":"INFO"`)
	w.Reset()

	logger.Warn("warn msg")
	require.Contains(t, w.String(), `"lvl":"WARN"`)
	w.Reset()

	logger.Error(errors.New("boom"), "error msg")
	require.Contains(t, w.String(), `"error":"boom"`)
	w.Reset()

	logger.Logf(zapcore.InfoLevel, "height %d", 3)
	require.Contains(t, w.String(), `"msg":"height 3"`)
	w.Reset()

	logger.Named("avltree").Info("named")
	require.Contains(t, w.String(), `"component":"avltree"`)
	require.NoError(t, logger.Sync())
}

func TestXLogger_LevelFilter(t *testing.T) {
	logger, w := newTestMemLogger(t, LogLevelWarn, PlainText)

	logger.Debug("debug msg")
	logger.Info("info msg")
	require.Empty(t, w.String())

	logger.Warn("warn msg")
	require.True(t, strings.Contains(w.String(), "warn msg"))
	w.Reset()

	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	logger.Warn("warn msg")
	require.Empty(t, w.String())
}

func TestXLogger_Options(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})

	cfg := &loggerCfg{}
	require.NoError(t, WithXLoggerLevelEncoder(nil)(cfg))
	require.NotNil(t, cfg.lvlEncoder)
	require.NoError(t, WithXLoggerTimeEncoder(nil)(cfg))
	require.NotNil(t, cfg.tsEncoder)
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	require.NotPanics(t, func() {
		logger.Debug("discarded")
		logger.Error(nil, "discarded")
		logger.Named("nop").Info("discarded")
	})
	require.NoError(t, logger.Sync())
}
