package preflight

import (
	"context"

	"scrivener/internal/config"
	"scrivener/internal/services/pyannote"
	"scrivener/internal/services/whisper"
	"scrivener/internal/services/ytdlp"
	"scrivener/internal/storage"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks tied to optional features run only when the feature is enabled.
// A nil blobs store skips the storage reachability check.
func RunAll(ctx context.Context, cfg *config.Config, blobs storage.Store) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckFreeSpace("Staging free space", cfg.Paths.StagingDir, MinStagingBytes))

	results = append(results, CheckBinary("FFmpeg", cfg.FFmpegBinary(), "audio extraction"))
	results = append(results, CheckBinary("FFprobe", cfg.FFprobeBinary(), "duration probing"))
	results = append(results, CheckBinary("Whisper", orDefault(cfg.Whisper.Binary, whisper.DefaultBinary), "chunk transcription"))
	results = append(results, CheckBinary("yt-dlp", orDefault(cfg.Discovery.YtdlpBinary, ytdlp.DefaultBinary), "source discovery"))
	if cfg.Diarization.Enabled {
		results = append(results, CheckBinary("Diarizer", orDefault(cfg.Diarization.Binary, pyannote.DefaultBinary), "speaker diarization"))
	}

	if blobs != nil {
		results = append(results, CheckStorage(ctx, cfg, blobs))
	}

	return results
}

// AllPassed reports whether every check in results passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
