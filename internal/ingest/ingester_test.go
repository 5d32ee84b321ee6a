package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"scrivener/internal/chunking"
	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/media/ffprobe"
	"scrivener/internal/queue"
	"scrivener/internal/services"
	"scrivener/internal/stage"
	"scrivener/internal/storage"
	"scrivener/internal/testsupport"
)

type fakeDownloader struct {
	path string
	err  error
}

func (f *fakeDownloader) Download(_ context.Context, _, destDir string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	target := filepath.Join(destDir, "source.mp4")
	if err := os.WriteFile(target, []byte("media"), 0o644); err != nil {
		return "", err
	}
	f.path = target
	return target, nil
}

type fakeExtractor struct {
	ranges []struct{ start, duration float64 }
	err    error
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, _, output string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(output, []byte("wav"), 0o644)
}

func (f *fakeExtractor) ExtractRange(_ context.Context, _, output string, start, duration float64) error {
	if f.err != nil {
		return f.err
	}
	f.ranges = append(f.ranges, struct{ start, duration float64 }{start, duration})
	return os.WriteFile(output, []byte("wav"), 0o644)
}

func probeResult(duration string) ProbeFunc {
	return func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "audio", Channels: 2}},
			Format:  ffprobe.Format{Duration: duration},
		}, nil
	}
}

func newTestIngester(t *testing.T, cfg *config.Config, store *queue.Store, probe ProbeFunc) (*Ingester, storage.Store, *fakeExtractor) {
	t.Helper()

	blobs, err := storage.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("storage.NewFromConfig: %v", err)
	}
	extractor := &fakeExtractor{}
	ingester := NewIngesterWithDependencies(
		cfg, store, logging.NewNop(), blobs,
		&fakeDownloader{}, extractor, probe,
	)
	return ingester, blobs, extractor
}

func TestPrepareRejectsItemWithoutSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ingester, _, _ := newTestIngester(t, cfg, store, probeResult("60"))

	item := &queue.Item{Status: queue.StatusPending}
	err := ingester.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteDownloadsProbesAndChunks(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithChunkLength(100))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	ingester, blobs, extractor := newTestIngester(t, cfg, store, probeResult("250"))

	item := testsupport.NewRecording(t, store, "https://example.com/watch?v=abc", "Town Hall")
	item.Status = queue.StatusPreparing

	if err := ingester.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if item.DurationSeconds != 250 {
		t.Errorf("DurationSeconds = %v, want 250", item.DurationSeconds)
	}
	if item.MediaFile == "" || item.AudioFile == "" {
		t.Errorf("expected media and audio paths, got %q and %q", item.MediaFile, item.AudioFile)
	}

	plan, err := stage.ParseChunkPlan(item.ChunkPlanJSON)
	if err != nil {
		t.Fatalf("ParseChunkPlan: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(plan))
	}
	if got := plan.TotalDuration(); got != 250 {
		t.Errorf("plan total duration = %v, want 250", got)
	}
	if len(extractor.ranges) != 3 {
		t.Fatalf("extract range calls = %d, want 3", len(extractor.ranges))
	}
	if last := extractor.ranges[2]; last.start != 200 || last.duration != 50 {
		t.Errorf("final range = %+v, want start 200 duration 50", last)
	}

	names, err := blobs.List(context.Background(), cfg.Storage.AudioContainer, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := map[string]bool{
		chunking.FullAudioBlobName(item.RecordingID): false,
	}
	for i := 1; i <= 3; i++ {
		want[chunking.BlobName(item.RecordingID, i)] = false
	}
	for _, name := range names {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("blob %s not uploaded", name)
		}
	}
}

func TestExecuteSkipsDownloadWhenMediaFilePresent(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithChunkLength(600))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	ingester, _, _ := newTestIngester(t, cfg, store, probeResult("90"))

	item, err := store.NewFromFile(context.Background(), filepath.Join(t.TempDir(), "town_hall.mp4"))
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	if err := os.WriteFile(item.MediaFile, []byte("media"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	item.Status = queue.StatusPreparing

	failingFetcher := &fakeDownloader{err: fmt.Errorf("download should not run")}
	ingester.fetcher = failingFetcher

	if err := ingester.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	plan, err := stage.ParseChunkPlan(item.ChunkPlanJSON)
	if err != nil {
		t.Fatalf("ParseChunkPlan: %v", err)
	}
	if len(plan) != 1 {
		t.Errorf("chunk count = %d, want 1", len(plan))
	}
}

func TestExecuteRejectsMediaWithoutAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)

	noAudio := func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "video"}},
			Format:  ffprobe.Format{Duration: "120"},
		}, nil
	}
	ingester, _, _ := newTestIngester(t, cfg, store, noAudio)

	item := testsupport.NewRecording(t, store, "https://example.com/watch?v=silent", "Silent")
	item.Status = queue.StatusPreparing

	err := ingester.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteWrapsDownloadFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	ingester, _, _ := newTestIngester(t, cfg, store, probeResult("60"))
	ingester.fetcher = &fakeDownloader{err: fmt.Errorf("network unreachable")}

	item := testsupport.NewRecording(t, store, "https://example.com/watch?v=gone", "Gone")
	item.Status = queue.StatusPreparing

	err := ingester.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestHealthCheckReportsMissingBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ingester, _, _ := newTestIngester(t, cfg, store, probeResult("60"))

	t.Setenv("PATH", t.TempDir())
	health := ingester.HealthCheck(context.Background())
	if health.Ready {
		t.Fatal("expected unhealthy result without ffmpeg on PATH")
	}
}

func TestHealthCheckHealthyWithStubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	store := testsupport.MustOpenStore(t, cfg)
	ingester, _, _ := newTestIngester(t, cfg, store, probeResult("60"))

	health := ingester.HealthCheck(context.Background())
	if !health.Ready {
		t.Fatalf("expected healthy, got %q", health.Detail)
	}
}
