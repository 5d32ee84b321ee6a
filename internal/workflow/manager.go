package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/queue"
	"scrivener/internal/stage"
)

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration

	heartbeat *HeartbeatMonitor

	stages             []pipelineStage
	statusOrder        []queue.Status
	stageByStart       map[queue.Status]pipelineStage
	processingStatuses []queue.Status

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// StageSet bundles the concrete stage handlers the manager orchestrates.
type StageSet struct {
	Ingester    stage.Handler
	Transcriber stage.Handler
	Labeler     stage.Handler
	Publisher   stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow-manager"),
		pollInterval: cfg.Workflow.PollInterval(),
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			cfg.Workflow.Heartbeat(),
			cfg.Workflow.StaleCutoff(),
		),
	}
}

// ConfigureStages registers the concrete stage handlers the workflow will run.
func (m *Manager) ConfigureStages(set StageSet) {
	var stages []pipelineStage
	if set.Ingester != nil {
		stages = append(stages, pipelineStage{
			name:             "ingest",
			handler:          set.Ingester,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusPreparing,
			doneStatus:       queue.StatusChunked,
		})
	}
	if set.Transcriber != nil {
		stages = append(stages, pipelineStage{
			name:             "transcription",
			handler:          set.Transcriber,
			startStatus:      queue.StatusChunked,
			processingStatus: queue.StatusTranscribing,
			doneStatus:       queue.StatusTranscribed,
		})
	}
	if set.Labeler != nil {
		stages = append(stages, pipelineStage{
			name:             "labeling",
			handler:          set.Labeler,
			startStatus:      queue.StatusTranscribed,
			processingStatus: queue.StatusLabeling,
			doneStatus:       queue.StatusLabeled,
		})
	}
	if set.Publisher != nil {
		stages = append(stages, pipelineStage{
			name:             "publish",
			handler:          set.Publisher,
			startStatus:      queue.StatusLabeled,
			processingStatus: queue.StatusPublishing,
			doneStatus:       queue.StatusCompleted,
		})
	}

	stageByStart := make(map[queue.Status]pipelineStage, len(stages))
	statusOrder := make([]queue.Status, 0, len(stages))
	processing := make([]queue.Status, 0, len(stages))
	for _, stg := range stages {
		stageByStart[stg.startStatus] = stg
		statusOrder = append(statusOrder, stg.startStatus)
		processing = append(processing, stg.processingStatus)
	}

	m.mu.Lock()
	m.stages = stages
	m.statusOrder = statusOrder
	m.stageByStart = stageByStart
	m.processingStatuses = processing
	m.mu.Unlock()
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}
