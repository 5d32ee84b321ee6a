// Package ingest acquires source media and prepares it for transcription.
//
// The stage downloads remote sources with yt-dlp when needed, probes the
// recording's exact duration with ffprobe, extracts a full-length mono
// 16 kHz WAV, plans fixed-length chunks covering the recording with no gaps
// or overlaps, cuts each chunk with ffmpeg, and uploads the audio artifacts
// to blob storage. The resulting chunk plan is persisted on the queue item
// for the downstream stages.
package ingest
