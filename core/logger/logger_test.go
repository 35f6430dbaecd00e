package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("writes json records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))

		log.Info("worker started", logger.Component("lifecycle"), logger.WorkerID(2))

		out := buf.String()
		assert.Contains(t, out, `"msg":"worker started"`)
		assert.Contains(t, out, `"component":"lifecycle"`)
		assert.Contains(t, out, `"worker_id":2`)
	})

	t.Run("respects level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithLevel(slog.LevelWarn), logger.WithOutput(&buf))

		log.Info("hidden")
		log.Warn("visible")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("production preset tags service", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("prefork"), logger.WithOutput(&buf))

		log.Info("hello")

		assert.Contains(t, buf.String(), `"service":"prefork"`)
		assert.Contains(t, buf.String(), `"env":"production"`)
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("bogus"))
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	assert.Equal(t, "*errors.errorString", logger.ErrorType(err).Value.String())
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.StackTrace(nil).Equal(slog.Attr{}))
	assert.Equal(t, "task", logger.WorkerKind(true).Value.String())
	assert.Equal(t, "request", logger.WorkerKind(false).Value.String())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Contains(t, logger.Stack().Value.String(), "goroutine")
	assert.Contains(t, logger.Caller().Value.String(), "logger_test.go")
}
