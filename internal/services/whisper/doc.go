// Package whisper invokes the Whisper CLI to transcribe chunk audio.
//
// This package handles:
//   - Whisper invocation with model and language selection
//   - Locating and parsing the JSON output file
//   - Converting engine segments into transcript segments
//
// The transcription stage runs one invocation per chunk; timing in the
// output is relative to the chunk file, re-based later by the merge step.
package whisper
