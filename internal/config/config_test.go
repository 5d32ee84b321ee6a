package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Chunking.ChunkLengthSeconds != 1800 {
		t.Errorf("chunk length = %d, want 1800", cfg.Chunking.ChunkLengthSeconds)
	}
	if cfg.Storage.Backend != StorageBackendLocal {
		t.Errorf("backend = %q, want local", cfg.Storage.Backend)
	}
	if cfg.Diarization.Enabled {
		t.Error("diarization should be disabled by default without an hf token")
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
staging_dir = "` + filepath.Join(dir, "staging") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[chunking]
chunk_length_seconds = 600

[whisper]
model = "large-v3"
chunk_workers = 4

[diarization]
enabled = true
hf_token = "hf_test"
scope = "leading_chunk"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Chunking.ChunkLengthSeconds != 600 {
		t.Errorf("chunk length = %d, want 600", cfg.Chunking.ChunkLengthSeconds)
	}
	if cfg.Whisper.Model != "large-v3" {
		t.Errorf("model = %q, want large-v3", cfg.Whisper.Model)
	}
	if cfg.Whisper.ChunkWorkers != 4 {
		t.Errorf("chunk workers = %d, want 4", cfg.Whisper.ChunkWorkers)
	}
	if cfg.Diarization.Scope != DiarizationScopeLeadingChunk {
		t.Errorf("scope = %q, want leading_chunk", cfg.Diarization.Scope)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "bad backend",
			mutate: func(c *Config) { c.Storage.Backend = "s3" },
			want:   "storage.backend",
		},
		{
			name:   "azure missing sas",
			mutate: func(c *Config) { c.Storage.Backend = StorageBackendAzure; c.Storage.AccountURL = "https://acct.blob.core.windows.net" },
			want:   "sas_token",
		},
		{
			name:   "zero chunk length",
			mutate: func(c *Config) { c.Chunking.ChunkLengthSeconds = -1 },
			want:   "chunk_length_seconds",
		},
		{
			name:   "diarization without token",
			mutate: func(c *Config) { c.Diarization.Enabled = true; c.Diarization.HFToken = "" },
			want:   "hf_token",
		},
		{
			name:   "speaker without embeddings",
			mutate: func(c *Config) { c.Speaker.Enabled = true },
			want:   "embeddings_path",
		},
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.Speaker.Threshold = 1.5 },
			want:   "threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Paths.StagingDir = t.TempDir()
			cfg.Paths.LogDir = t.TempDir()
			cfg.Storage.LocalDir = t.TempDir()
			cfg.Diarization.Scope = DiarizationScopeFull
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[chunking]") {
		t.Error("sample config missing [chunking] section")
	}
}
