package testsupport

import (
	"context"
	"testing"

	"scrivener/internal/config"
	"scrivener/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRecording enqueues a URL-sourced recording for tests using the provided store.
func NewRecording(t testing.TB, store *queue.Store, sourceURL, title string) *queue.Item {
	t.Helper()

	item, err := store.NewFromURL(context.Background(), sourceURL, title)
	if err != nil {
		t.Fatalf("store.NewFromURL: %v", err)
	}
	return item
}
