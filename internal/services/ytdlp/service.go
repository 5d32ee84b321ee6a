package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultBinary is the yt-dlp command used when none is configured.
const DefaultBinary = "yt-dlp"

// Video is one downloadable entry discovered from a source URL.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Service wraps yt-dlp invocations.
type Service struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewService creates a yt-dlp service using the provided binary.
// An empty binary falls back to "yt-dlp" on PATH.
func NewService(binary string) *Service {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Binary returns the configured yt-dlp binary for preflight checks.
func (s *Service) Binary() string {
	return s.binary
}

// Resolve expands a source into individual videos. The source may be a
// single video URL, a playlist URL, or a comma-separated list of URLs;
// playlists are flattened so every entry becomes its own video.
func (s *Service) Resolve(ctx context.Context, source string) ([]Video, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("resolve: empty source")
	}

	var videos []Video
	for _, part := range strings.Split(source, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		resolved, err := s.resolveOne(ctx, part)
		if err != nil {
			return nil, err
		}
		videos = append(videos, resolved...)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("resolve: no videos found in %q", source)
	}
	return videos, nil
}

func (s *Service) resolveOne(ctx context.Context, url string) ([]Video, error) {
	output, err := s.run(ctx, "--flat-playlist", "-J", url)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", url, err)
	}

	var payload struct {
		Type    string `json:"_type"`
		ID      string `json:"id"`
		Title   string `json:"title"`
		URL     string `json:"webpage_url"`
		Entries []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, fmt.Errorf("resolve %s: parse yt-dlp json: %w", url, err)
	}

	if payload.Type != "playlist" {
		target := payload.URL
		if target == "" {
			target = url
		}
		return []Video{{ID: payload.ID, Title: payload.Title, URL: target}}, nil
	}

	videos := make([]Video, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		if entry.URL == "" {
			continue
		}
		videos = append(videos, Video{ID: entry.ID, Title: entry.Title, URL: entry.URL})
	}
	return videos, nil
}

// Download fetches a single video into destDir and returns the path of the
// downloaded file.
func (s *Service) Download(ctx context.Context, url, destDir string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("download: empty url")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", fmt.Errorf("download: empty destination")
	}

	output, err := s.run(ctx,
		"--no-playlist",
		"--no-simulate",
		"--print", "after_move:filepath",
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
		url,
	)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	path := lastNonEmptyLine(string(output))
	if path == "" {
		return "", fmt.Errorf("download %s: yt-dlp reported no file path", url)
	}
	return path, nil
}

func (s *Service) run(ctx context.Context, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", s.binary, err)
	}
	return output, nil
}

func lastNonEmptyLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
