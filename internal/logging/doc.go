// Package logging configures structured logging for scrivener.
//
// Loggers are built on log/slog with two output formats: a compact console
// handler for interactive use and a JSON handler for machine consumption.
// The daemon log file is rotated by lumberjack. Context helpers attach the
// recording id, stage, and correlation id captured by the services package
// so every stage log line carries consistent fields.
package logging
