// Package ffmpeg shells out to ffmpeg for audio extraction.
//
// All extraction produces mono 16 kHz signed 16-bit PCM WAV, the input format
// the transcription and diarization engines expect. Whole-file extraction
// feeds full-recording diarization; ranged extraction cuts the chunk files
// the transcription stage uploads.
package ffmpeg
