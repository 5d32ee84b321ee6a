package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scrivener/internal/config"
	"scrivener/internal/daemon"
	"scrivener/internal/ingest"
	"scrivener/internal/labeling"
	"scrivener/internal/logging"
	"scrivener/internal/preflight"
	"scrivener/internal/publish"
	"scrivener/internal/queue"
	"scrivener/internal/storage"
	"scrivener/internal/transcription"
	"scrivener/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the processing daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open queue store: %w", err)
			}
			defer store.Close()

			blobs, err := storage.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init object storage: %w", err)
			}

			if !skipPreflight {
				results := preflight.RunAll(signalCtx, cfg, blobs)
				errOut := cmd.ErrOrStderr()
				for _, result := range results {
					if result.Passed {
						continue
					}
					fmt.Fprintf(errOut, "preflight %s: %s\n", result.Name, result.Detail)
				}
				if !preflight.AllPassed(results) {
					return fmt.Errorf("preflight checks failed; fix the environment or rerun with --skip-preflight")
				}
			}

			workflowManager := workflow.NewManager(cfg, store, logger)
			configureStages(workflowManager, cfg, store, logger, blobs)

			d, err := daemon.New(cfg, store, logger, workflowManager)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			if err := d.Start(signalCtx); err != nil {
				return fmt.Errorf("start daemon: %w", err)
			}

			<-signalCtx.Done()
			logger.Info("scrivener daemon shutting down")
			d.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start even when environment checks fail")
	return cmd
}

func configureStages(mgr *workflow.Manager, cfg *config.Config, store *queue.Store, logger *slog.Logger, blobs storage.Store) {
	if mgr == nil || cfg == nil {
		return
	}

	mgr.ConfigureStages(workflow.StageSet{
		Ingester:    ingest.NewIngester(cfg, store, logger, blobs),
		Transcriber: transcription.NewTranscriber(cfg, store, logger, blobs),
		Labeler:     labeling.NewLabeler(cfg, store, logger, blobs),
		Publisher:   publish.NewPublisher(cfg, store, logger, blobs),
	})
}
