package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"scrivener/internal/chunking"
	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/queue"
	"scrivener/internal/services"
	"scrivener/internal/services/whisper"
	"scrivener/internal/stage"
	"scrivener/internal/storage"
	"scrivener/internal/transcript"
)

// Engine transcribes one audio file. *whisper.Service implements it.
type Engine interface {
	TranscribeFile(ctx context.Context, source, outputDir string) ([]transcript.Segment, error)
}

// Transcriber runs per-chunk transcription and the merge barrier.
type Transcriber struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	blobs  storage.Store
	engine Engine

	progressMu sync.Mutex
}

// NewTranscriber constructs the transcription stage handler with the
// configured whisper engine.
func NewTranscriber(cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store) *Transcriber {
	engine := whisper.NewService(whisper.Config{
		Binary:   cfg.Whisper.Binary,
		Model:    cfg.Whisper.Model,
		Language: cfg.Whisper.Language,
	})
	return NewTranscriberWithDependencies(cfg, store, logger, blobs, engine)
}

// NewTranscriberWithDependencies allows injecting the engine (used in tests).
func NewTranscriberWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store, engine Engine) *Transcriber {
	return &Transcriber{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "transcription"),
		blobs:  blobs,
		engine: engine,
	}
}

func (t *Transcriber) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Transcribing", "Preparing chunk transcription")
	if strings.TrimSpace(item.ChunkPlanJSON) == "" {
		return services.Wrap(
			services.ErrValidation, "transcription", "load chunk plan",
			"Chunk plan missing; rerun ingest", nil)
	}
	return nil
}

func (t *Transcriber) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, t.logger)

	plan, err := stage.ParseChunkPlan(item.ChunkPlanJSON)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		return services.Wrap(
			services.ErrValidation, "transcription", "load chunk plan",
			"Chunk plan missing; rerun ingest", nil)
	}

	workDir := item.StagingRoot(t.cfg.Paths.StagingDir)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "transcription", "create staging dir", "Failed to create staging directory", err)
	}

	names, err := t.blobs.List(ctx, t.cfg.Storage.AudioContainer, chunking.ChunkPrefix(item.RecordingID))
	if err != nil {
		return services.Wrap(services.ErrTransient, "transcription", "list chunks", "Failed to list chunk audio in storage", err)
	}
	chunking.SortBlobNames(names)
	if len(names) != len(plan) {
		return services.Wrap(
			services.ErrValidation, "transcription", "list chunks",
			fmt.Sprintf("Found %d chunk blobs but the plan has %d chunks; rerun ingest", len(names), len(plan)), nil)
	}

	workers := t.cfg.Whisper.ChunkWorkers
	if workers < 1 {
		workers = 1
	}
	logger.Info(
		"starting chunk transcription",
		logging.Int("chunk_count", len(plan)),
		logging.Int("workers", workers),
	)

	perChunk := make([][]transcript.Segment, len(plan))
	completed := 0

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, name := range names {
		i, name := i, name
		group.Go(func() error {
			chunkPath := filepath.Join(workDir, name)
			if err := t.blobs.Download(groupCtx, t.cfg.Storage.AudioContainer, name, chunkPath); err != nil {
				return services.Wrap(services.ErrTransient, "transcription", "download chunk",
					fmt.Sprintf("Failed to download %s", name), err)
			}

			chunkCtx, cancel := context.WithTimeout(groupCtx, t.cfg.Whisper.Timeout())
			segments, err := t.engine.TranscribeFile(chunkCtx, chunkPath, workDir)
			cancel()
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				return services.Wrap(services.ErrExternalTool, "transcription", "transcribe chunk",
					fmt.Sprintf("Transcription failed on %s", name), err)
			}
			perChunk[i] = segments

			t.progressMu.Lock()
			completed++
			t.updateProgress(groupCtx, item,
				fmt.Sprintf("Transcribed chunk %d of %d", completed, len(plan)),
				float64(completed)/float64(len(plan))*90)
			t.progressMu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	merged, err := transcript.Merge(perChunk, plan.Offsets())
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcription", "merge segments",
			"Chunk transcripts could not be merged", err)
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcription", "encode segments",
			"Merged transcript could not be serialized", err)
	}
	segmentsBlob := transcript.SegmentsBlobName(item.RecordingID)
	if err := t.blobs.Put(ctx, t.cfg.Storage.TranscriptsContainer, segmentsBlob, data); err != nil {
		return services.Wrap(services.ErrTransient, "transcription", "upload segments",
			"Failed to upload merged transcript", err)
	}

	item.SetProgressComplete("Transcribed", fmt.Sprintf("Merged %d segments from %d chunks", len(merged), len(plan)))
	logger.Info(
		"transcription completed",
		logging.Int("chunk_count", len(plan)),
		logging.Int("segment_count", len(merged)),
	)
	return nil
}

func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcription"
	if t.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if t.blobs == nil {
		return stage.Unhealthy(name, "storage unavailable")
	}
	binary := t.cfg.Whisper.Binary
	if binary == "" {
		binary = whisper.DefaultBinary
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("%s not found on PATH", binary))
	}
	return stage.Healthy(name)
}

func (t *Transcriber) updateProgress(ctx context.Context, item *queue.Item, message string, percent float64) {
	updated := *item
	updated.ProgressMessage = message
	updated.ProgressPercent = percent
	if err := t.store.Update(ctx, &updated); err != nil {
		logging.WithContext(ctx, t.logger).Warn("failed to persist transcription progress", logging.Error(err))
		return
	}
	*item = updated
}
