// Package transcript assembles per-chunk transcription output into a single
// speaker-labeled transcript.
//
// The pipeline is: Merge re-bases chunk-relative segments onto the
// recording's timeline; Align attributes each segment to a diarization turn
// under a strict-overlap rule; LabelSequentially substitutes deterministic
// placeholder labels when diarization is unavailable; Render serializes the
// result as a structured JSON document and a human-readable script. All
// functions here are pure and deterministic.
package transcript
