// Package log builds the slog loggers used by catalogscan.
//
// Catalog cells can be long free text (descriptions, cast lists), so every
// logger is wrapped in a ClampHandler that shortens long string attribute
// values before they reach the underlying text or JSON handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("column resolved", "role", "genre", "column", "listed_in")
//	slog.SetDefault(logger)
package log
