// Package logging assembles structured slog loggers and formatting helpers used
// across v4lnode.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus standardized field keys so the
// scanner, hot-plug monitor, and watcher emit lines with the same shape. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
