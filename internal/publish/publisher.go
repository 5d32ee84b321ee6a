package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"scrivener/internal/chunking"
	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/queue"
	"scrivener/internal/services"
	"scrivener/internal/stage"
	"scrivener/internal/storage"
	"scrivener/internal/transcript"
)

// Publisher renders and persists a recording's final artifacts.
type Publisher struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	blobs  storage.Store
}

// NewPublisher constructs the publish stage handler.
func NewPublisher(cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store) *Publisher {
	return &Publisher{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "publish"),
		blobs:  blobs,
	}
}

func (p *Publisher) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Publishing", "Preparing artifact publication")
	return nil
}

func (p *Publisher) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, p.logger)
	container := p.cfg.Storage.TranscriptsContainer

	segments, turns, err := p.loadLabeled(ctx, item)
	if err != nil {
		return err
	}

	p.updateProgress(ctx, item, "Rendering transcript documents", 20)
	docJSON, script, err := transcript.Render(segments)
	if err != nil {
		return services.Wrap(services.ErrValidation, "publish", "render transcript",
			"Labeled transcript failed to render; rerun labeling", err)
	}
	diarJSON, err := transcript.RenderTurns(turns)
	if err != nil {
		return services.Wrap(services.ErrValidation, "publish", "render diarization",
			"Diarization turns failed to render; rerun labeling", err)
	}

	p.updateProgress(ctx, item, "Uploading artifacts", 40)
	artifacts := []struct {
		name string
		data []byte
	}{
		{transcript.TranscriptBlobName(item.RecordingID), docJSON},
		{transcript.DiarizationBlobName(item.RecordingID), diarJSON},
		{transcript.ScriptBlobName(item.RecordingID), []byte(script)},
	}
	for _, artifact := range artifacts {
		if err := p.blobs.Put(ctx, container, artifact.name, artifact.data); err != nil {
			return services.Wrap(services.ErrTransient, "publish", "upload artifact",
				fmt.Sprintf("Failed to upload %s", artifact.name), err)
		}
	}
	item.TranscriptBlob = transcript.TranscriptBlobName(item.RecordingID)
	item.DiarizationBlob = transcript.DiarizationBlobName(item.RecordingID)
	item.ScriptBlob = transcript.ScriptBlobName(item.RecordingID)

	p.updateProgress(ctx, item, "Archiving source video", 70)
	if err := p.archiveSource(ctx, item); err != nil {
		return services.Wrap(services.ErrTransient, "publish", "archive source",
			"Failed to archive the source video", err)
	}

	p.updateProgress(ctx, item, "Cleaning up intermediate artifacts", 90)
	p.cleanup(ctx, item)

	item.SetProgressComplete("Completed", fmt.Sprintf("Published %d segments", len(segments)))
	logger.Info(
		"publish completed",
		logging.String("transcript_blob", item.TranscriptBlob),
		logging.String("script_blob", item.ScriptBlob),
		logging.Int("segment_count", len(segments)),
	)
	return nil
}

func (p *Publisher) loadLabeled(ctx context.Context, item *queue.Item) ([]transcript.Segment, []transcript.Turn, error) {
	container := p.cfg.Storage.TranscriptsContainer

	data, err := p.blobs.Get(ctx, container, transcript.LabeledBlobName(item.RecordingID))
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "publish", "load labeled segments",
			"Labeled transcript not found; rerun labeling", err)
	}
	var segments []transcript.Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "publish", "load labeled segments",
			"Labeled transcript is corrupt; rerun labeling", err)
	}

	data, err = p.blobs.Get(ctx, container, transcript.TurnsBlobName(item.RecordingID))
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "publish", "load turns",
			"Diarization turns not found; rerun labeling", err)
	}
	var turns []transcript.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "publish", "load turns",
			"Diarization turns are corrupt; rerun labeling", err)
	}
	return segments, turns, nil
}

// archiveSource moves the source video into the processed container. Sources
// that originated in the videos container are moved blob-to-blob; locally
// downloaded sources are uploaded from disk.
func (p *Publisher) archiveSource(ctx context.Context, item *queue.Item) error {
	if item.MediaFile == "" {
		return nil
	}
	base := filepath.Base(item.MediaFile)

	err := p.blobs.Copy(ctx, p.cfg.Storage.VideosContainer, base, p.cfg.Storage.ProcessedContainer, base)
	if err == nil {
		return p.blobs.Delete(ctx, p.cfg.Storage.VideosContainer, base)
	}
	if !errors.Is(err, storage.ErrBlobNotFound) {
		return err
	}

	if _, statErr := os.Stat(item.MediaFile); statErr != nil {
		// Source gone on both sides; nothing left to archive.
		return nil
	}
	return p.blobs.Upload(ctx, p.cfg.Storage.ProcessedContainer, base, item.MediaFile)
}

// cleanup removes intermediate blobs and the staging directory. Failures are
// logged and swallowed: the artifacts are already published and a retry would
// redo completed work.
func (p *Publisher) cleanup(ctx context.Context, item *queue.Item) {
	logger := logging.WithContext(ctx, p.logger)

	interim := []string{
		transcript.SegmentsBlobName(item.RecordingID),
		transcript.LabeledBlobName(item.RecordingID),
		transcript.TurnsBlobName(item.RecordingID),
	}
	for _, name := range interim {
		if err := p.blobs.Delete(ctx, p.cfg.Storage.TranscriptsContainer, name); err != nil {
			logger.Warn("failed to delete intermediate blob", logging.String("blob", name), logging.Error(err))
		}
	}

	chunks, err := p.blobs.List(ctx, p.cfg.Storage.AudioContainer, chunking.ChunkPrefix(item.RecordingID))
	if err != nil {
		logger.Warn("failed to list chunk blobs for cleanup", logging.Error(err))
	}
	for _, name := range chunks {
		if err := p.blobs.Delete(ctx, p.cfg.Storage.AudioContainer, name); err != nil {
			logger.Warn("failed to delete chunk blob", logging.String("blob", name), logging.Error(err))
		}
	}

	workDir := item.StagingRoot(p.cfg.Paths.StagingDir)
	if workDir != "" {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("failed to remove staging directory", logging.String("dir", workDir), logging.Error(err))
		}
	}
}

func (p *Publisher) HealthCheck(ctx context.Context) stage.Health {
	const name = "publish"
	if p.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if p.blobs == nil {
		return stage.Unhealthy(name, "storage unavailable")
	}
	return stage.Healthy(name)
}

func (p *Publisher) updateProgress(ctx context.Context, item *queue.Item, message string, percent float64) {
	updated := *item
	updated.ProgressMessage = message
	updated.ProgressPercent = percent
	if err := p.store.Update(ctx, &updated); err != nil {
		logging.WithContext(ctx, p.logger).Warn("failed to persist publish progress", logging.Error(err))
		return
	}
	*item = updated
}
