package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrivener/internal/logging"
	"scrivener/internal/publish"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage archived source recordings",
	}

	archiveCmd.AddCommand(newArchiveSweepCommand(ctx))
	return archiveCmd
}

func newArchiveSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Move every remaining source video into the processed container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, blobs, err := ctx.openStorage()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			moved, err := publish.Sweep(cmd.Context(), cfg, blobs, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %d source videos\n", moved)
			return nil
		},
	}
}
