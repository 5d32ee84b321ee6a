package config

import (
	"fmt"
	"strings"
)

// normalize expands paths, trims string fields, and backfills zero values
// with defaults so downstream code never needs to re-check them.
func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return fmt.Errorf("staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageBackendLocal
	}
	c.Storage.AccountURL = strings.TrimRight(strings.TrimSpace(c.Storage.AccountURL), "/")
	c.Storage.SASToken = strings.TrimPrefix(strings.TrimSpace(c.Storage.SASToken), "?")
	if c.Storage.LocalDir != "" {
		if c.Storage.LocalDir, err = expandPath(strings.TrimSpace(c.Storage.LocalDir)); err != nil {
			return fmt.Errorf("storage local_dir: %w", err)
		}
	}
	if c.Storage.RequestTimeout <= 0 {
		c.Storage.RequestTimeout = defaultStorageTimeout
	}
	for name, value := range map[string]*string{
		"videos_container":      &c.Storage.VideosContainer,
		"audio_container":       &c.Storage.AudioContainer,
		"transcripts_container": &c.Storage.TranscriptsContainer,
		"processed_container":   &c.Storage.ProcessedContainer,
	} {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			return fmt.Errorf("storage %s must not be empty", name)
		}
	}

	if c.Chunking.ChunkLengthSeconds == 0 {
		c.Chunking.ChunkLengthSeconds = defaultChunkLengthSeconds
	}

	c.Whisper.Binary = strings.TrimSpace(c.Whisper.Binary)
	if c.Whisper.Binary == "" {
		c.Whisper.Binary = defaultWhisperBinary
	}
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.Language = strings.TrimSpace(c.Whisper.Language)
	if c.Whisper.TimeoutSeconds <= 0 {
		c.Whisper.TimeoutSeconds = defaultWhisperTimeout
	}
	if c.Whisper.ChunkWorkers <= 0 {
		c.Whisper.ChunkWorkers = defaultChunkWorkers
	}

	c.Diarization.Binary = strings.TrimSpace(c.Diarization.Binary)
	if c.Diarization.Binary == "" {
		c.Diarization.Binary = defaultDiarizeBinary
	}
	c.Diarization.HFToken = strings.TrimSpace(c.Diarization.HFToken)
	c.Diarization.Scope = strings.ToLower(strings.TrimSpace(c.Diarization.Scope))
	if c.Diarization.Scope == "" {
		c.Diarization.Scope = DiarizationScopeFull
	}
	if c.Diarization.TimeoutSeconds <= 0 {
		c.Diarization.TimeoutSeconds = defaultDiarizeTimeout
	}

	if c.Speaker.EmbeddingsPath != "" {
		if c.Speaker.EmbeddingsPath, err = expandPath(strings.TrimSpace(c.Speaker.EmbeddingsPath)); err != nil {
			return fmt.Errorf("speaker embeddings_path: %w", err)
		}
	}
	if c.Speaker.Threshold == 0 {
		c.Speaker.Threshold = defaultSpeakerThreshold
	}

	c.Discovery.YtdlpBinary = strings.TrimSpace(c.Discovery.YtdlpBinary)
	if c.Discovery.YtdlpBinary == "" {
		c.Discovery.YtdlpBinary = defaultYtdlpBinary
	}
	if c.Discovery.TimeoutSeconds <= 0 {
		c.Discovery.TimeoutSeconds = defaultYtdlpTimeout
	}

	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		c.Workflow.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		c.Workflow.HeartbeatTimeout = defaultHeartbeatTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = defaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = defaultLogMaxAgeDays
	}

	return nil
}
