// Package logger builds structured loggers on top of log/slog and provides
// nil-safe attribute helpers used across prefork.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithProduction("prefork"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("worker started",
//		logger.Component("lifecycle"),
//		logger.WorkerID(3),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("prefork"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("prefork"))
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, so they can be
// passed unconditionally:
//
//	log.Error("dispatch failed",
//		logger.Error(err),
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.RequestID(id),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
