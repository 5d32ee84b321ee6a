package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// Storage contains object storage configuration. Backend selects between the
// Azure Blob REST client and a local directory store.
type Storage struct {
	Backend             string `toml:"backend"`
	AccountURL          string `toml:"account_url"`
	SASToken            string `toml:"sas_token"`
	LocalDir            string `toml:"local_dir"`
	RequestTimeout      int    `toml:"request_timeout"`
	VideosContainer     string `toml:"videos_container"`
	AudioContainer      string `toml:"audio_container"`
	TranscriptsContainer string `toml:"transcripts_container"`
	ProcessedContainer  string `toml:"processed_container"`
}

// Chunking controls how long recordings are partitioned before transcription.
type Chunking struct {
	ChunkLengthSeconds int `toml:"chunk_length_seconds"`
}

// Whisper contains transcription engine configuration.
type Whisper struct {
	Binary         string `toml:"binary"`
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	ChunkWorkers   int    `toml:"chunk_workers"`
}

// Diarization contains speaker diarization configuration. Scope selects the
// audio window the diarizer analyzes: "full" runs over the whole recording,
// "leading_chunk" runs over the first chunk only. The leading-chunk mode is
// cheaper but cannot distinguish speakers who first appear later in the
// recording.
type Diarization struct {
	Enabled        bool   `toml:"enabled"`
	Binary         string `toml:"binary"`
	HFToken        string `toml:"hf_token"`
	Scope          string `toml:"scope"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Speaker contains enrollment-based speaker identification configuration.
type Speaker struct {
	Enabled        bool    `toml:"enabled"`
	EmbeddingsPath string  `toml:"embeddings_path"`
	Threshold      float64 `toml:"threshold"`
}

// Discovery contains playlist/video resolution configuration.
type Discovery struct {
	YtdlpBinary    string `toml:"ytdlp_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Workflow contains daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Logging contains log output configuration. Rotation fields feed lumberjack.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	MaxSizeMB     int    `toml:"max_size_mb"`
	MaxBackups    int    `toml:"max_backups"`
	MaxAgeDays    int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for scrivener.
//
// Configuration sections by subsystem:
//   - Paths: staging and log directories
//   - Storage: object storage backend and container names
//   - Chunking: chunk length for long-recording partitioning
//   - Whisper: transcription engine binary, model, and parallelism
//   - Diarization: diarizer binary, token, and analysis scope
//   - Speaker: enrollment-based speaker identification
//   - Discovery: yt-dlp playlist resolution
//   - Workflow: daemon polling intervals and heartbeats
//   - Logging: log format, level, and rotation
type Config struct {
	Paths       Paths       `toml:"paths"`
	Storage     Storage     `toml:"storage"`
	Chunking    Chunking    `toml:"chunking"`
	Whisper     Whisper     `toml:"whisper"`
	Diarization Diarization `toml:"diarization"`
	Speaker     Speaker     `toml:"speaker"`
	Discovery   Discovery   `toml:"discovery"`
	Workflow    Workflow    `toml:"workflow"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scrivener/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scrivener.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Storage.Backend == StorageBackendLocal && strings.TrimSpace(c.Storage.LocalDir) != "" {
		if err := os.MkdirAll(c.Storage.LocalDir, 0o755); err != nil {
			return fmt.Errorf("create storage directory %q: %w", c.Storage.LocalDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for duration probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
