package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scrivener/internal/config"
	"scrivener/internal/queue"
	"scrivener/internal/services/ytdlp"
)

var localFileExtensions = map[string]struct{}{
	".mkv":  {},
	".mp4":  {},
	".mov":  {},
	".webm": {},
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <url-or-path>",
		Short: "Add a recording URL or local media file to the queue",
		Long: "Add queues a recording for processing. Remote URLs are resolved with yt-dlp\n" +
			"before queueing; playlist URLs expand into one queue item per video. Local\n" +
			"paths must point at an existing media file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := strings.TrimSpace(args[0])
			if source == "" {
				return errors.New("source is required")
			}
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				if isRemoteSource(source) {
					return addRemote(cmd, cfg, store, source, title)
				}
				return addLocalFile(cmd, store, source)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Override the recording title (single videos only)")
	return cmd
}

func isRemoteSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func addRemote(cmd *cobra.Command, cfg *config.Config, store *queue.Store, source, title string) error {
	resolver := ytdlp.NewService(cfg.Discovery.YtdlpBinary)

	resolveCtx, cancel := context.WithTimeout(cmd.Context(), cfg.Discovery.Timeout())
	defer cancel()

	videos, err := resolver.Resolve(resolveCtx, source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	if title != "" && len(videos) > 1 {
		return fmt.Errorf("--title cannot be applied to a playlist of %d videos", len(videos))
	}

	out := cmd.OutOrStdout()
	for _, video := range videos {
		itemTitle := title
		if itemTitle == "" {
			itemTitle = video.Title
		}
		item, err := store.NewFromURL(cmd.Context(), video.URL, itemTitle)
		if err != nil {
			return fmt.Errorf("enqueue %s: %w", video.URL, err)
		}
		fmt.Fprintf(out, "Queued %q as item #%d\n", item.Title, item.ID)
	}
	if len(videos) > 1 {
		fmt.Fprintf(out, "Expanded playlist into %d queue items\n", len(videos))
	}
	return nil
}

func addLocalFile(cmd *cobra.Command, store *queue.Store, source string) error {
	absPath, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file does not exist: %s", absPath)
		}
		return fmt.Errorf("inspect file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", absPath)
	}

	ext := strings.ToLower(filepath.Ext(info.Name()))
	if _, ok := localFileExtensions[ext]; !ok {
		return fmt.Errorf("unsupported file extension %q", ext)
	}

	item, err := store.NewFromFile(cmd.Context(), absPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Queued %q as item #%d\n", item.Title, item.ID)
	return nil
}
