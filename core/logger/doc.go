// Package logger provides structured logging utilities built on Go's standard
// slog package: a factory with environment-specific configurations and a set
// of nil-safe attribute helpers for common logging scenarios.
//
// # Basic Usage
//
// Create loggers using the factory function with configuration options:
//
//	import "github.com/dmitrymomot/streamcast/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("streamcast"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("streamcast"))
//
//	log.Info("server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// # Attribute Helpers
//
// Use the helpers for consistent attribute naming:
//
//	log.Error("notification failed",
//		logger.Error(err),
//		logger.Component("orchestrator"),
//		logger.Duration(time.Since(start)),
//	)
//
// Helpers return an empty slog.Attr for nil/empty input, so they are safe to
// call without explicit checks.
package logger
