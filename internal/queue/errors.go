package queue

import (
	"errors"

	"scrivener/internal/services"
)

// NeedsReviewForError reports whether a stage error describes a condition a
// retry will not fix, so the failed item should be flagged for manual review.
// Validation, configuration, and not-found failures need an operator;
// external-tool and transient failures stay eligible for automatic retry.
func NeedsReviewForError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, services.ErrValidation) ||
		errors.Is(err, services.ErrConfiguration) ||
		errors.Is(err, services.ErrNotFound)
}
