package config

// Storage backend selectors.
const (
	StorageBackendAzure = "azure"
	StorageBackendLocal = "local"
)

// Diarization scope selectors.
const (
	DiarizationScopeFull         = "full"
	DiarizationScopeLeadingChunk = "leading_chunk"
)

const (
	defaultStagingDir           = "~/.local/share/scrivener/staging"
	defaultLogDir               = "~/.local/share/scrivener/logs"
	defaultStorageLocalDir      = "~/.local/share/scrivener/store"
	defaultStorageTimeout       = 60
	defaultVideosContainer      = "videos"
	defaultAudioContainer       = "audio"
	defaultTranscriptsContainer = "transcripts"
	defaultProcessedContainer   = "videos-processed"
	defaultChunkLengthSeconds   = 1800
	defaultWhisperBinary        = "whisper"
	defaultWhisperModel         = "base"
	defaultWhisperTimeout       = 3600
	defaultChunkWorkers         = 2
	defaultDiarizeBinary        = "diarize"
	defaultDiarizeTimeout       = 1800
	defaultSpeakerThreshold     = 0.75
	defaultYtdlpBinary          = "yt-dlp"
	defaultYtdlpTimeout         = 120
	defaultQueuePollInterval    = 5
	defaultErrorRetryInterval   = 10
	defaultHeartbeatInterval    = 15
	defaultHeartbeatTimeout     = 120
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogMaxSizeMB         = 50
	defaultLogMaxBackups        = 5
	defaultLogMaxAgeDays        = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Storage: Storage{
			Backend:              StorageBackendLocal,
			LocalDir:             defaultStorageLocalDir,
			RequestTimeout:       defaultStorageTimeout,
			VideosContainer:      defaultVideosContainer,
			AudioContainer:       defaultAudioContainer,
			TranscriptsContainer: defaultTranscriptsContainer,
			ProcessedContainer:   defaultProcessedContainer,
		},
		Chunking: Chunking{
			ChunkLengthSeconds: defaultChunkLengthSeconds,
		},
		Whisper: Whisper{
			Binary:         defaultWhisperBinary,
			Model:          defaultWhisperModel,
			TimeoutSeconds: defaultWhisperTimeout,
			ChunkWorkers:   defaultChunkWorkers,
		},
		Diarization: Diarization{
			Enabled:        false,
			Binary:         defaultDiarizeBinary,
			Scope:          DiarizationScopeFull,
			TimeoutSeconds: defaultDiarizeTimeout,
		},
		Speaker: Speaker{
			Threshold: defaultSpeakerThreshold,
		},
		Discovery: Discovery{
			YtdlpBinary:    defaultYtdlpBinary,
			TimeoutSeconds: defaultYtdlpTimeout,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
