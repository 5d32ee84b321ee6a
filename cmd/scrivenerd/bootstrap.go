package main

import (
	"log/slog"

	"scrivener/internal/config"
	"scrivener/internal/ingest"
	"scrivener/internal/labeling"
	"scrivener/internal/publish"
	"scrivener/internal/queue"
	"scrivener/internal/storage"
	"scrivener/internal/transcription"
	"scrivener/internal/workflow"
)

type stageConfigurer interface {
	ConfigureStages(workflow.StageSet)
}

func registerStages(reg stageConfigurer, cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store) {
	if reg == nil || cfg == nil {
		return
	}

	reg.ConfigureStages(workflow.StageSet{
		Ingester:    ingest.NewIngester(cfg, store, logger, blobs),
		Transcriber: transcription.NewTranscriber(cfg, store, logger, blobs),
		Labeler:     labeling.NewLabeler(cfg, store, logger, blobs),
		Publisher:   publish.NewPublisher(cfg, store, logger, blobs),
	})
}
