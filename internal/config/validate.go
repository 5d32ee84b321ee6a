package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate verifies the configuration is internally consistent. It reports
// every problem it finds rather than stopping at the first.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		problems = append(problems, "paths.staging_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		problems = append(problems, "paths.log_dir must not be empty")
	}

	switch c.Storage.Backend {
	case StorageBackendLocal:
		if strings.TrimSpace(c.Storage.LocalDir) == "" {
			problems = append(problems, "storage.local_dir required for the local backend")
		}
	case StorageBackendAzure:
		if c.Storage.AccountURL == "" {
			problems = append(problems, "storage.account_url required for the azure backend")
		}
		if c.Storage.SASToken == "" {
			problems = append(problems, "storage.sas_token required for the azure backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("storage.backend %q is not one of %q, %q", c.Storage.Backend, StorageBackendAzure, StorageBackendLocal))
	}

	if c.Chunking.ChunkLengthSeconds <= 0 {
		problems = append(problems, "chunking.chunk_length_seconds must be positive")
	}

	switch c.Diarization.Scope {
	case DiarizationScopeFull, DiarizationScopeLeadingChunk:
	default:
		problems = append(problems, fmt.Sprintf("diarization.scope %q is not one of %q, %q", c.Diarization.Scope, DiarizationScopeFull, DiarizationScopeLeadingChunk))
	}
	if c.Diarization.Enabled && c.Diarization.HFToken == "" {
		problems = append(problems, "diarization.hf_token required when diarization is enabled")
	}

	if c.Speaker.Enabled && strings.TrimSpace(c.Speaker.EmbeddingsPath) == "" {
		problems = append(problems, "speaker.embeddings_path required when speaker identification is enabled")
	}
	if c.Speaker.Threshold < 0 || c.Speaker.Threshold > 1 {
		problems = append(problems, "speaker.threshold must be within [0, 1]")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of \"console\", \"json\"", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
