// Package publish implements the final pipeline stage. It renders the
// labeled transcript into the structured JSON document, the diarization
// document, and the human-readable speaker script, uploads all three to the
// transcripts container, archives the source video, and removes the
// intermediate artifacts the earlier stages left behind.
package publish
