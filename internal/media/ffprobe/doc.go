// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no scrivener-specific dependencies and could be extracted
// as a standalone library. The ingest stage uses it to read a recording's
// exact duration before planning chunks, and preflight uses it to confirm a
// source file actually carries an audio stream.
package ffprobe
