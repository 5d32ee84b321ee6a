package labeling

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scrivener/internal/chunking"
	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/queue"
	"scrivener/internal/services"
	"scrivener/internal/services/pyannote"
	"scrivener/internal/speaker"
	"scrivener/internal/stage"
	"scrivener/internal/storage"
	"scrivener/internal/transcript"
)

// Diarizer runs speaker diarization over one audio file. *pyannote.Service
// implements it.
type Diarizer interface {
	Diarize(ctx context.Context, source, outputDir string) (pyannote.Result, error)
}

// Labeler runs diarization alignment with the sequential-label fallback.
type Labeler struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	blobs    storage.Store
	diarizer Diarizer
}

// NewLabeler constructs the labeling stage handler with the configured
// diarization engine.
func NewLabeler(cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store) *Labeler {
	diarizer := pyannote.NewService(pyannote.Config{
		Binary:  cfg.Diarization.Binary,
		HFToken: cfg.Diarization.HFToken,
	})
	return NewLabelerWithDependencies(cfg, store, logger, blobs, diarizer)
}

// NewLabelerWithDependencies allows injecting the diarizer (used in tests).
func NewLabelerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store, diarizer Diarizer) *Labeler {
	return &Labeler{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "labeling"),
		blobs:    blobs,
		diarizer: diarizer,
	}
}

func (l *Labeler) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Labeling", "Preparing speaker labeling")
	return nil
}

func (l *Labeler) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, l.logger)

	workDir := item.StagingRoot(l.cfg.Paths.StagingDir)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "labeling", "create staging dir", "Failed to create staging directory", err)
	}

	data, err := l.blobs.Get(ctx, l.cfg.Storage.TranscriptsContainer, transcript.SegmentsBlobName(item.RecordingID))
	if err != nil {
		return services.Wrap(services.ErrValidation, "labeling", "load segments",
			"Merged transcript not found; rerun transcription", err)
	}
	var segments []transcript.Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return services.Wrap(services.ErrValidation, "labeling", "load segments",
			"Merged transcript is corrupt; rerun transcription", err)
	}

	labeled, turns, available := l.label(ctx, item, workDir, segments)
	if err := ctx.Err(); err != nil {
		return err
	}
	item.DiarizationAvailable = available

	l.updateProgress(ctx, item, "Persisting labeled transcript", 90)
	labeledData, err := json.Marshal(labeled)
	if err != nil {
		return services.Wrap(services.ErrValidation, "labeling", "encode labeled segments",
			"Labeled transcript could not be serialized", err)
	}
	if err := l.blobs.Put(ctx, l.cfg.Storage.TranscriptsContainer, transcript.LabeledBlobName(item.RecordingID), labeledData); err != nil {
		return services.Wrap(services.ErrTransient, "labeling", "upload labeled segments",
			"Failed to upload labeled transcript", err)
	}
	if turns == nil {
		turns = []transcript.Turn{}
	}
	turnsData, err := json.Marshal(turns)
	if err != nil {
		return services.Wrap(services.ErrValidation, "labeling", "encode turns",
			"Diarization turns could not be serialized", err)
	}
	if err := l.blobs.Put(ctx, l.cfg.Storage.TranscriptsContainer, transcript.TurnsBlobName(item.RecordingID), turnsData); err != nil {
		return services.Wrap(services.ErrTransient, "labeling", "upload turns",
			"Failed to upload diarization turns", err)
	}

	mode := "diarized"
	if !available {
		mode = "fallback"
	}
	item.SetProgressComplete("Labeled", fmt.Sprintf("Labeled %d segments (%s)", len(labeled), mode))
	logger.Info(
		"labeling completed",
		logging.Int("segment_count", len(labeled)),
		logging.Int("turn_count", len(turns)),
		logging.Bool("diarization_available", available),
	)
	return nil
}

// label produces the labeled segment list plus the diarization turns used,
// reporting whether real diarization backed the labels. Diarization failure
// is deliberately non-fatal here: the transcript must never block on it.
func (l *Labeler) label(ctx context.Context, item *queue.Item, workDir string, segments []transcript.Segment) ([]transcript.Segment, []transcript.Turn, bool) {
	logger := logging.WithContext(ctx, l.logger)

	if !l.cfg.Diarization.Enabled {
		logger.Info("diarization disabled, applying sequential labels")
		return transcript.LabelSequentially(segments), nil, false
	}

	l.updateProgress(ctx, item, "Running speaker diarization", 20)
	result, err := l.diarize(ctx, item, workDir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, false
		}
		logger.Warn("diarization failed, applying sequential labels", logging.Error(err))
		return transcript.LabelSequentially(segments), nil, false
	}

	turns := result.Turns
	if l.cfg.Speaker.Enabled && len(result.Embeddings) > 0 {
		turns = l.identifySpeakers(ctx, turns, result.Embeddings)
	}

	l.updateProgress(ctx, item, "Aligning segments with speaker turns", 70)
	return transcript.Align(segments, turns), turns, true
}

func (l *Labeler) diarize(ctx context.Context, item *queue.Item, workDir string) (pyannote.Result, error) {
	audioBlob := chunking.FullAudioBlobName(item.RecordingID)
	if l.cfg.Diarization.Scope == config.DiarizationScopeLeadingChunk {
		audioBlob = chunking.BlobName(item.RecordingID, 1)
	}
	audioPath := filepath.Join(workDir, audioBlob)
	if err := l.blobs.Download(ctx, l.cfg.Storage.AudioContainer, audioBlob, audioPath); err != nil {
		return pyannote.Result{}, fmt.Errorf("download %s: %w", audioBlob, err)
	}

	diarizeCtx, cancel := context.WithTimeout(ctx, l.cfg.Diarization.Timeout())
	defer cancel()
	return l.diarizer.Diarize(diarizeCtx, audioPath, workDir)
}

// identifySpeakers renames diarization labels that match an enrolled voice
// profile. Enrollment problems only cost the renaming, never the stage.
func (l *Labeler) identifySpeakers(ctx context.Context, turns []transcript.Turn, embeddings map[string][]float64) []transcript.Turn {
	logger := logging.WithContext(ctx, l.logger)

	profiles, err := speaker.LoadProfiles(l.cfg.Speaker.EmbeddingsPath)
	if err != nil {
		logger.Warn("failed to load speaker profiles, keeping diarization labels", logging.Error(err))
		return turns
	}
	matcher := speaker.NewMatcher(profiles, l.cfg.Speaker.Threshold)
	resolved := matcher.ResolveLabels(embeddings)
	if len(resolved) == 0 {
		return turns
	}
	logger.Info("identified enrolled speakers", logging.Int("matched", len(resolved)))
	return speaker.RenameTurns(turns, resolved)
}

func (l *Labeler) HealthCheck(ctx context.Context) stage.Health {
	const name = "labeling"
	if l.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if l.blobs == nil {
		return stage.Unhealthy(name, "storage unavailable")
	}
	if l.cfg.Diarization.Enabled {
		binary := l.cfg.Diarization.Binary
		if binary == "" {
			binary = pyannote.DefaultBinary
		}
		if _, err := exec.LookPath(binary); err != nil {
			return stage.Unhealthy(name, fmt.Sprintf("%s not found on PATH", binary))
		}
		if strings.TrimSpace(l.cfg.Diarization.HFToken) == "" {
			return stage.Unhealthy(name, "diarization enabled without hf_token")
		}
	}
	return stage.Healthy(name)
}

func (l *Labeler) updateProgress(ctx context.Context, item *queue.Item, message string, percent float64) {
	updated := *item
	updated.ProgressMessage = message
	updated.ProgressPercent = percent
	if err := l.store.Update(ctx, &updated); err != nil {
		logging.WithContext(ctx, l.logger).Warn("failed to persist labeling progress", logging.Error(err))
		return
	}
	*item = updated
}
