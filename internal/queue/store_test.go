package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"scrivener/internal/queue"
	"scrivener/internal/services"
	"scrivener/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewFromURL(ctx, "https://example.com/watch?v=abc", "Weekly Sync")
	if err != nil {
		t.Fatalf("NewFromURL failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.RecordingID == "" {
		t.Fatal("expected recording ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Weekly Sync" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}

	found, err := store.FindByRecordingID(ctx, item.RecordingID)
	if err != nil {
		t.Fatalf("FindByRecordingID failed: %v", err)
	}
	if found == nil || found.ID != item.ID {
		t.Fatalf("expected to find inserted item, got %#v", found)
	}
}

func TestNewFromFileDerivesTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewFromFile(ctx, "/media/town_hall-q3.mp4")
	if err != nil {
		t.Fatalf("NewFromFile failed: %v", err)
	}
	if item.Title != "Town Hall Q3" {
		t.Fatalf("unexpected derived title: %q", item.Title)
	}
	if item.MediaFile != "/media/town_hall-q3.mp4" {
		t.Fatalf("unexpected media file: %q", item.MediaFile)
	}
}

func TestUpdateRoundTripsFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewRecording(t, store, "https://example.com/rec", "Recording")

	item.Status = queue.StatusChunked
	item.AudioFile = "/staging/rec/audio.wav"
	item.DurationSeconds = 3661
	item.ChunkPlanJSON = `[{"index":1,"start":0,"end":1800}]`
	item.DiarizationAvailable = true
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusChunked {
		t.Fatalf("expected chunked status, got %s", fetched.Status)
	}
	if fetched.DurationSeconds != 3661 {
		t.Fatalf("duration did not round-trip: %v", fetched.DurationSeconds)
	}
	if !fetched.DiarizationAvailable {
		t.Fatal("diarization flag did not round-trip")
	}
	if fetched.ChunkPlanJSON == "" {
		t.Fatal("chunk plan did not round-trip")
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		name          string
		initialStatus queue.Status
		expected      queue.Status
	}{
		{"preparing", queue.StatusPreparing, queue.StatusPending},
		{"transcribing", queue.StatusTranscribing, queue.StatusChunked},
		{"labeling", queue.StatusLabeling, queue.StatusTranscribed},
		{"publishing", queue.StatusPublishing, queue.StatusLabeled},
	}
	var ids []int64
	for i, tc := range cases {
		item := testsupport.NewRecording(t, store, fmt.Sprintf("https://example.com/%d", i), tc.name)
		item.Status = tc.initialStatus
		item.ProgressStage = tc.name
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if int(count) != len(cases) {
		t.Fatalf("expected %d items reset, got %d", len(cases), count)
	}

	for idx, tc := range cases {
		updated, err := store.GetByID(ctx, ids[idx])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if updated.Status != tc.expected {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.expected, updated.Status)
		}
		if updated.LastHeartbeat != nil {
			t.Fatalf("%s: expected heartbeat cleared", tc.name)
		}
	}
}

func TestReclaimStaleProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stale := testsupport.NewRecording(t, store, "https://example.com/stale", "Stale")
	stale.Status = queue.StatusTranscribing
	old := time.Now().Add(-10 * time.Minute).UTC()
	stale.LastHeartbeat = &old
	if err := store.Update(ctx, stale); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fresh := testsupport.NewRecording(t, store, "https://example.com/fresh", "Fresh")
	fresh.Status = queue.StatusTranscribing
	now := time.Now().UTC()
	fresh.LastHeartbeat = &now
	if err := store.Update(ctx, fresh); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reclaimed item, got %d", count)
	}

	reclaimed, err := store.GetByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reclaimed.Status != queue.StatusChunked {
		t.Fatalf("expected chunked status after reclaim, got %s", reclaimed.Status)
	}

	untouched, err := store.GetByID(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != queue.StatusTranscribing {
		t.Fatalf("fresh item should keep its status, got %s", untouched.Status)
	}
}

func TestRetryFailedClearsReviewFlags(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewRecording(t, store, "https://example.com/failed", "Failed")
	item.SetFailed("whisper crashed")
	item.NeedsReview = true
	item.ReviewReason = "manual check"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.RetryFailed(ctx, item.ID)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 retried item, got %d", count)
	}

	updated, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", updated.Status)
	}
	if updated.NeedsReview || updated.ReviewReason != "" {
		t.Fatalf("review flags should be cleared: %#v", updated)
	}
	if updated.ErrorMessage != "" {
		t.Fatalf("error message should be cleared, got %q", updated.ErrorMessage)
	}
}

func TestNextForStatusesOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.NewRecording(t, store, "https://example.com/a", "A")
	second := testsupport.NewRecording(t, store, "https://example.com/b", "B")
	second.Status = queue.StatusChunked
	if err := store.Update(ctx, second); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	next, err := store.NextForStatuses(ctx, queue.StatusPending, queue.StatusChunked)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest item first, got %#v", next)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewRecording(t, store, "https://example.com/1", "One")
	done := testsupport.NewRecording(t, store, "https://example.com/2", "Two")
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[queue.StatusPending] != 1 || stats[queue.StatusCompleted] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 2 || health.Pending != 1 || health.Completed != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestNeedsReviewForError(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "ingest", "probe", "bad input", nil)
	if !queue.NeedsReviewForError(validationErr) {
		t.Fatal("validation errors should flag review")
	}
	toolErr := services.Wrap(services.ErrExternalTool, "transcribing", "run whisper", "crashed", nil)
	if queue.NeedsReviewForError(toolErr) {
		t.Fatal("external tool errors should stay retryable")
	}
	if queue.NeedsReviewForError(nil) {
		t.Fatal("nil error should not flag review")
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus(" Transcribing "); !ok || status != queue.StatusTranscribing {
		t.Fatalf("unexpected parse result: %s %v", status, ok)
	}
	if _, ok := queue.ParseStatus("bogus"); ok {
		t.Fatal("unknown status should not parse")
	}
}
