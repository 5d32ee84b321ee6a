package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrivener/internal/config"
	"scrivener/internal/preflight"
	"scrivener/internal/queue"
	"scrivener/internal/storage"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show environment checks and queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(cmd.OutOrStdout())

				blobs, err := storage.NewFromConfig(cfg)
				if err != nil {
					fmt.Fprintln(out, renderStatusLine("Object storage", statusError, err.Error(), colorize))
					blobs = nil
				}

				fmt.Fprintln(out, "Environment:")
				results := preflight.RunAll(cmd.Context(), cfg, blobs)
				for _, result := range results {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				if !preflight.AllPassed(results) {
					fmt.Fprintln(out, renderStatusLine("Overall", statusWarn, "one or more checks failed", colorize))
				}

				fmt.Fprintln(out)
				fmt.Fprintln(out, "Queue:")
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(out, statusIndent+"Queue is empty")
				} else {
					fmt.Fprintln(out, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				}

				fmt.Fprintln(out)
				fmt.Fprintln(out, "Database:")
				dbHealth, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Path", statusInfo, dbHealth.DBPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Readable", boolKind(dbHealth.DatabaseReadable), yesNo(dbHealth.DatabaseReadable), colorize))
				fmt.Fprintln(out, renderStatusLine("Integrity", boolKind(dbHealth.IntegrityCheck), yesNo(dbHealth.IntegrityCheck), colorize))
				if len(dbHealth.MissingColumns) > 0 {
					fmt.Fprintln(out, renderStatusLine("Schema", statusError, fmt.Sprintf("missing columns: %v", dbHealth.MissingColumns), colorize))
				}
				if dbHealth.Error != "" {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, dbHealth.Error, colorize))
				}
				return nil
			})
		},
	}
}

func boolKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusError
}
