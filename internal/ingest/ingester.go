package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scrivener/internal/chunking"
	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/media/ffmpeg"
	"scrivener/internal/media/ffprobe"
	"scrivener/internal/queue"
	"scrivener/internal/services"
	"scrivener/internal/services/ytdlp"
	"scrivener/internal/stage"
	"scrivener/internal/storage"
)

// Downloader fetches a remote source into a local directory.
type Downloader interface {
	Download(ctx context.Context, url, destDir string) (string, error)
}

// AudioExtractor cuts audio out of media files. *ffmpeg.Extractor
// implements it.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, input, output string) error
	ExtractRange(ctx context.Context, input, output string, start, duration float64) error
}

// ProbeFunc inspects a media file. It exists so tests can substitute ffprobe.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Ingester acquires media, plans chunks, and uploads chunk audio.
type Ingester struct {
	cfg       *config.Config
	store     *queue.Store
	logger    *slog.Logger
	blobs     storage.Store
	fetcher   Downloader
	extractor AudioExtractor
	probe     ProbeFunc
}

// NewIngester constructs the ingest stage handler using default dependencies.
func NewIngester(cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store) *Ingester {
	return NewIngesterWithDependencies(
		cfg, store, logger, blobs,
		ytdlp.NewService(cfg.Discovery.YtdlpBinary),
		ffmpeg.NewExtractor(cfg.FFmpegBinary()),
		ffprobe.Inspect,
	)
}

// NewIngesterWithDependencies allows injecting collaborators (used in tests).
func NewIngesterWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store, fetcher Downloader, extractor AudioExtractor, probe ProbeFunc) *Ingester {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "ingest"))
	}
	return &Ingester{
		cfg:       cfg,
		store:     store,
		logger:    stageLogger,
		blobs:     blobs,
		fetcher:   fetcher,
		extractor: extractor,
		probe:     probe,
	}
}

func (i *Ingester) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, i.logger)
	item.InitProgress("Ingesting", "Preparing media acquisition")
	if item.MediaFile == "" && strings.TrimSpace(item.SourceURL) == "" {
		return services.Wrap(
			services.ErrValidation, "ingest", "validate inputs",
			"Item has neither a media file nor a source URL", nil)
	}
	logger.Info(
		"starting ingest preparation",
		logging.String("title", strings.TrimSpace(item.Title)),
		logging.String("source_url", strings.TrimSpace(item.SourceURL)),
	)
	return nil
}

func (i *Ingester) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, i.logger)

	workDir := item.StagingRoot(i.cfg.Paths.StagingDir)
	if workDir == "" {
		return services.Wrap(
			services.ErrConfiguration, "ingest", "resolve staging dir",
			"Staging directory not configured; set staging_dir in your scrivener config", nil)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "ingest", "create staging dir", "Failed to create staging directory", err)
	}

	if item.MediaFile == "" {
		i.updateProgress(ctx, item, "Downloading source media", 5)
		downloadCtx, cancel := context.WithTimeout(ctx, i.cfg.Discovery.Timeout())
		path, err := i.fetcher.Download(downloadCtx, item.SourceURL, workDir)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return services.Wrap(services.ErrExternalTool, "ingest", "download source", "Failed to download source media", err)
		}
		item.MediaFile = path
		logger.Info("source media downloaded", logging.String("media_file", path))
	}

	if _, err := os.Stat(item.MediaFile); err != nil {
		return services.Wrap(services.ErrValidation, "ingest", "stat media file", "Media file is missing or unreadable", err)
	}

	i.updateProgress(ctx, item, "Probing media duration", 15)
	probed, err := i.probe(ctx, i.cfg.FFprobeBinary(), item.MediaFile)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "ingest", "probe media", "ffprobe failed on the media file", err)
	}
	if !probed.HasAudio() {
		return services.Wrap(services.ErrValidation, "ingest", "probe media", "Media file has no audio stream", nil)
	}
	duration, err := probed.DurationSeconds()
	if err != nil {
		return services.Wrap(services.ErrValidation, "ingest", "probe media", "Media file reports no usable duration", err)
	}
	item.DurationSeconds = duration

	i.updateProgress(ctx, item, "Extracting full audio track", 25)
	fullAudioPath := filepath.Join(workDir, chunking.FullAudioBlobName(item.RecordingID))
	if err := i.extractor.ExtractAudio(ctx, item.MediaFile, fullAudioPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "ingest", "extract audio", "ffmpeg failed to extract the audio track", err)
	}
	item.AudioFile = fullAudioPath

	i.updateProgress(ctx, item, "Uploading full audio", 35)
	if err := i.blobs.Upload(ctx, i.cfg.Storage.AudioContainer, chunking.FullAudioBlobName(item.RecordingID), fullAudioPath); err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "upload full audio", "Failed to upload full audio to storage", err)
	}

	plan, err := chunking.PlanChunks(duration, i.cfg.Chunking.ChunkLengthSeconds)
	if err != nil {
		return services.Wrap(services.ErrValidation, "ingest", "plan chunks", "Could not partition the recording into chunks", err)
	}
	logger.Info(
		"chunk plan built",
		logging.Float64("duration_seconds", duration),
		logging.Int("chunk_count", len(plan)),
	)

	// Chunk extraction and upload dominates ingest time; spread its
	// progress across the remaining range.
	progressStart, progressEnd := 40.0, 95.0
	step := (progressEnd - progressStart) / float64(len(plan))
	for idx, chunk := range plan {
		chunkName := chunking.BlobName(item.RecordingID, chunk.Index)
		chunkPath := filepath.Join(workDir, chunkName)
		if err := i.extractor.ExtractRange(ctx, fullAudioPath, chunkPath, chunk.Start, chunk.Duration()); err != nil {
			return services.Wrap(services.ErrExternalTool, "ingest", "extract chunk",
				fmt.Sprintf("ffmpeg failed to cut chunk %d", chunk.Index), err)
		}
		if err := i.blobs.Upload(ctx, i.cfg.Storage.AudioContainer, chunkName, chunkPath); err != nil {
			return services.Wrap(services.ErrTransient, "ingest", "upload chunk",
				fmt.Sprintf("Failed to upload chunk %d to storage", chunk.Index), err)
		}
		i.updateProgress(ctx, item,
			fmt.Sprintf("Uploaded chunk %d of %d", chunk.Index, len(plan)),
			progressStart+step*float64(idx+1))
	}

	planJSON, err := stage.EncodeChunkPlan(plan)
	if err != nil {
		return err
	}
	item.ChunkPlanJSON = planJSON
	item.SetProgressComplete("Ingested", fmt.Sprintf("Prepared %d chunks", len(plan)))
	logger.Info(
		"ingest completed",
		logging.Int("chunk_count", len(plan)),
		logging.Float64("duration_seconds", duration),
	)
	return nil
}

func (i *Ingester) HealthCheck(ctx context.Context) stage.Health {
	const name = "ingest"
	if i.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(i.cfg.Paths.StagingDir) == "" {
		return stage.Unhealthy(name, "staging directory not configured")
	}
	if i.blobs == nil {
		return stage.Unhealthy(name, "storage unavailable")
	}
	for _, binary := range []string{i.cfg.FFmpegBinary(), i.cfg.FFprobeBinary()} {
		if _, err := exec.LookPath(binary); err != nil {
			return stage.Unhealthy(name, fmt.Sprintf("%s not found on PATH", binary))
		}
	}
	return stage.Healthy(name)
}

func (i *Ingester) updateProgress(ctx context.Context, item *queue.Item, message string, percent float64) {
	logger := logging.WithContext(ctx, i.logger)
	updated := *item
	updated.ProgressMessage = message
	updated.ProgressPercent = percent
	if err := i.store.Update(ctx, &updated); err != nil {
		logger.Warn("failed to persist ingest progress", logging.Error(err))
		return
	}
	*item = updated
}
