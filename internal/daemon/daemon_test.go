package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scrivener/internal/config"
	"scrivener/internal/daemon"
	"scrivener/internal/logging"
	"scrivener/internal/queue"
	"scrivener/internal/stage"
	"scrivener/internal/testsupport"
	"scrivener/internal/workflow"
)

type stubHandler struct{}

func (stubHandler) Prepare(context.Context, *queue.Item) error    { return nil }
func (stubHandler) Execute(context.Context, *queue.Item) error    { return nil }
func (stubHandler) HealthCheck(context.Context) stage.Health      { return stage.Healthy("stub") }

// blockedHandler parks until cancellation so queue state stays put.
type blockedHandler struct{}

func (blockedHandler) Prepare(context.Context, *queue.Item) error { return nil }
func (blockedHandler) Execute(ctx context.Context, _ *queue.Item) error {
	<-ctx.Done()
	return ctx.Err()
}
func (blockedHandler) HealthCheck(context.Context) stage.Health { return stage.Healthy("blocked") }

func newTestDaemon(t *testing.T, cfg *config.Config) (*daemon.Daemon, *queue.Store) {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	mgr := workflow.NewManager(cfg, store, logging.NewNop())
	mgr.ConfigureStages(workflow.StageSet{})

	d, err := daemon.New(cfg, store, logging.NewNop(), mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, store
}

func TestStartRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 0
	first, store := newTestDaemon(t, cfg)

	// Give the first instance one real stage so Start succeeds.
	mgr := workflow.NewManager(cfg, store, logging.NewNop())
	mgr.ConfigureStages(workflow.StageSet{Ingester: stubHandler{}})
	var err error
	first, err = daemon.New(cfg, store, logging.NewNop(), mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	t.Cleanup(first.Stop)

	secondMgr := workflow.NewManager(cfg, store, logging.NewNop())
	secondMgr.ConfigureStages(workflow.StageSet{Ingester: stubHandler{}})
	second, err := daemon.New(cfg, store, logging.NewNop(), secondMgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start after lock release: %v", err)
	}
	second.Stop()
}

func TestStartResetsStuckItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 0
	_, store := newTestDaemon(t, cfg)

	ctx := context.Background()
	item := testsupport.NewRecording(t, store, "https://example.com/watch?v=stuck", "Stuck")
	item.Status = queue.StatusTranscribing
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	mgr := workflow.NewManager(cfg, store, logging.NewNop())
	mgr.ConfigureStages(workflow.StageSet{Publisher: blockedHandler{}})
	d, err := daemon.New(cfg, store, logging.NewNop(), mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)

	updated, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Status != queue.StatusChunked {
		t.Errorf("status = %s, want rollback to %s", updated.Status, queue.StatusChunked)
	}
}

func TestAddURLValidatesInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, _ := newTestDaemon(t, cfg)

	ctx := context.Background()
	if _, err := d.AddURL(ctx, "", "Title"); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := d.AddURL(ctx, "not a url", "Title"); err == nil {
		t.Error("expected error for malformed url")
	}
	item, err := d.AddURL(ctx, "https://example.com/watch?v=ok", "Quarterly Review")
	if err != nil {
		t.Fatalf("AddURL: %v", err)
	}
	if item.Title != "Quarterly Review" || item.Status != queue.StatusPending {
		t.Errorf("item = %+v", item)
	}
}

func TestAddFileValidatesInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, _ := newTestDaemon(t, cfg)

	ctx := context.Background()
	if _, err := d.AddFile(ctx, ""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := d.AddFile(ctx, t.TempDir()); err == nil {
		t.Error("expected error for directory path")
	}

	mediaPath := filepath.Join(t.TempDir(), "weekly_sync.mp4")
	if err := os.WriteFile(mediaPath, []byte("media"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	item, err := d.AddFile(ctx, mediaPath)
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if item.Title != "Weekly Sync" {
		t.Errorf("title = %q, want derived title", item.Title)
	}
}

func TestStatusReportsPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, _ := newTestDaemon(t, cfg)

	status := d.Status(context.Background())
	if status.Running {
		t.Error("Running = true before Start")
	}
	if status.QueueDBPath == "" || status.LockFilePath == "" {
		t.Errorf("paths not populated: %+v", status)
	}
	if filepath.Base(status.QueueDBPath) != queue.DBFileName {
		t.Errorf("QueueDBPath = %q, want a %s path", status.QueueDBPath, queue.DBFileName)
	}
}
