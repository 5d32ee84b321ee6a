package pyannote

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDiarizeParsesOutput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "rec_full.wav")
	if err := os.WriteFile(source, []byte("wav"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	svc := NewService(Config{HFToken: "token"})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		payload := `{
            "segments": [
                {"start": 10, "end": 20, "speaker": "SPEAKER_01"},
                {"start": 0, "end": 10, "speaker": "SPEAKER_00"},
                {"start": 30, "end": 30, "speaker": "SPEAKER_00"}
            ],
            "embeddings": {"SPEAKER_00": [0.1, 0.2], "SPEAKER_01": [0.3, 0.4]}
        }`
		return os.WriteFile(filepath.Join(dir, "rec_full.diarization.json"), []byte(payload), 0o644)
	})

	result, err := svc.Diarize(context.Background(), source, dir)
	if err != nil {
		t.Fatalf("Diarize failed: %v", err)
	}
	if len(result.Turns) != 2 {
		t.Fatalf("expected 2 valid turns, got %d", len(result.Turns))
	}
	if result.Turns[0].Speaker != "SPEAKER_00" {
		t.Errorf("turns not sorted by start: %+v", result.Turns)
	}
	if len(result.Embeddings) != 2 {
		t.Errorf("embeddings not parsed: %#v", result.Embeddings)
	}
}

func TestDiarizeRequiresSource(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Diarize(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestDiarizePropagatesRunnerError(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.ErrPermission
	})
	if _, err := svc.Diarize(context.Background(), "in.wav", t.TempDir()); err == nil {
		t.Fatal("expected error from runner")
	}
}

func TestLoadResultMissingFile(t *testing.T) {
	if _, err := LoadResult(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
