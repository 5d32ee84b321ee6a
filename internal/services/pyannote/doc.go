// Package pyannote invokes a pyannote-based diarization CLI.
//
// The labeling stage feeds it a WAV file and gets back time-ordered speaker
// turns, plus optional per-speaker embedding vectors used for matching
// against enrolled voiceprints. Diarization failure is never fatal to the
// pipeline; callers fall back to sequential speaker labels.
package pyannote
