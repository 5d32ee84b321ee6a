package workflow

import (
	"context"
	"errors"
	"os"
	"strings"

	"scrivener/internal/logging"
	"scrivener/internal/queue"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	logger := logging.WithContext(ctx, m.logger)

	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = stageName + " failed without error detail"
	}
	item.SetFailed(message)
	if queue.NeedsReviewForError(stageErr) {
		item.NeedsReview = true
		item.ReviewReason = message
	}

	logger.Error(
		"stage failed",
		logging.String("error_message", message),
		logging.Bool("needs_review", item.NeedsReview),
		logging.Error(stageErr),
	)

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.cleanStaging(ctx, item)
	m.setLastItem(item)
}

// cleanStaging removes the item's working directory. Failed items restart
// their stage from blob storage, so on-disk intermediates are never needed
// again.
func (m *Manager) cleanStaging(ctx context.Context, item *queue.Item) {
	workDir := item.StagingRoot(m.cfg.Paths.StagingDir)
	if workDir == "" {
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		logging.WithContext(ctx, m.logger).Warn(
			"failed to remove staging directory",
			logging.String("dir", workDir),
			logging.Error(err),
		)
	}
}
