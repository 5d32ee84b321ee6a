// Package transcription implements the chunk transcription stage. It lists
// the recording's chunk audio in numeric chunk order, transcribes each chunk
// independently with a bounded worker pool, then merges the per-chunk
// segments onto the recording's absolute timeline. A single failed chunk
// fails the whole recording; partial transcripts are never persisted.
package transcription
