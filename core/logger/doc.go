// Package logger provides a structured logging facility based on Zap.
//
// Debug level selects Zap's development config; every other level uses the
// production config with the configured encoding.
//
// # Context Awareness
//
// WithRayID attaches the request's Ray ID from the Fiber locals so all logs
// of one request can be correlated. WithUser adds the authenticated user id
// as well.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithUser(log, c)
//	l.Error("Sync failed", zap.Error(err))
package logger
