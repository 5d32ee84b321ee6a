package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scrivener/internal/storage"
	"scrivener/internal/testsupport"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass for 1-byte requirement, got: %s", result.Detail)
	}
	// No filesystem has this much free.
	if result := CheckFreeSpace("space", dir, 1<<62); result.Passed {
		t.Fatal("expected failure for absurd requirement")
	}
}

func TestCheckBinary(t *testing.T) {
	if result := CheckBinary("shell", "sh", "testing"); !result.Passed {
		t.Fatalf("expected sh on PATH, got: %s", result.Detail)
	}
	if result := CheckBinary("missing", "definitely-not-a-binary", "testing"); result.Passed {
		t.Fatal("expected failure for missing binary")
	}
}

func TestCheckStorage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	blobs, err := storage.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if result := CheckStorage(context.Background(), cfg, blobs); !result.Passed {
		t.Fatalf("expected storage reachable, got: %s", result.Detail)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAllWithStubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg, nil)
	names := make(map[string]Result, len(results))
	for _, result := range results {
		names[result.Name] = result
	}
	for _, want := range []string{"Staging directory", "Log directory", "FFmpeg", "FFprobe", "Whisper", "yt-dlp"} {
		result, ok := names[want]
		if !ok {
			t.Errorf("missing check %q", want)
			continue
		}
		if !result.Passed {
			t.Errorf("check %q failed: %s", want, result.Detail)
		}
	}
	if _, ok := names["Diarizer"]; ok {
		t.Error("diarizer check present with diarization disabled")
	}
}

func TestRunAllIncludesDiarizerWhenEnabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithDiarization())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg, nil)
	found := false
	for _, result := range results {
		if result.Name == "Diarizer" {
			found = true
			if !result.Passed {
				t.Errorf("diarizer check failed: %s", result.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected diarizer check in results")
	}
}
