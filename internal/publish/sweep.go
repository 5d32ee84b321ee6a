package publish

import (
	"context"
	"fmt"
	"log/slog"

	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/storage"
)

// Sweep moves every blob in the videos container into the processed
// container. It is the maintenance counterpart to per-item archival, used to
// drain sources that were uploaded but never queued. Returns the number of
// blobs moved.
func Sweep(ctx context.Context, cfg *config.Config, blobs storage.Store, logger *slog.Logger) (int, error) {
	logger = logging.NewComponentLogger(logger, "archive")

	names, err := blobs.List(ctx, cfg.Storage.VideosContainer, "")
	if err != nil {
		return 0, fmt.Errorf("list videos container: %w", err)
	}

	moved := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		if err := blobs.Copy(ctx, cfg.Storage.VideosContainer, name, cfg.Storage.ProcessedContainer, name); err != nil {
			return moved, fmt.Errorf("copy %s: %w", name, err)
		}
		if err := blobs.Delete(ctx, cfg.Storage.VideosContainer, name); err != nil {
			return moved, fmt.Errorf("delete %s: %w", name, err)
		}
		logger.Info("archived source video", logging.String("blob", name))
		moved++
	}
	return moved, nil
}
