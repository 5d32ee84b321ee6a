// Package services provides shared error classification and context
// annotation helpers used by every pipeline stage.
//
// Stage implementations wrap failures with one of the exported sentinel
// errors so the workflow manager can decide whether a recording should be
// retried or parked for review. Context helpers carry the recording
// identifier, stage name, and correlation id so loggers can attach them
// without threading extra parameters through every call.
package services
