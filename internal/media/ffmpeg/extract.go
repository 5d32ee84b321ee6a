package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Extractor runs ffmpeg audio extraction with a configurable binary.
type Extractor struct {
	binary string
}

// NewExtractor returns an Extractor using the provided ffmpeg binary.
// An empty binary falls back to "ffmpeg" on PATH.
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary}
}

// ExtractAudio converts the full audio track of input into a mono 16 kHz
// PCM WAV at output, overwriting any existing file.
func (e *Extractor) ExtractAudio(ctx context.Context, input, output string) error {
	return e.run(ctx, extractArgs(input, output, -1, -1))
}

// ExtractRange converts a window of input starting at start seconds and
// lasting duration seconds into a mono 16 kHz PCM WAV at output.
func (e *Extractor) ExtractRange(ctx context.Context, input, output string, start, duration float64) error {
	if start < 0 {
		return fmt.Errorf("ffmpeg extract: negative start %v", start)
	}
	if duration <= 0 {
		return fmt.Errorf("ffmpeg extract: non-positive duration %v", duration)
	}
	return e.run(ctx, extractArgs(input, output, start, duration))
}

func (e *Extractor) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg extract: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg extract: %w: %s", err, tail(string(output)))
	}
	return nil
}

// extractArgs builds the ffmpeg argument list. A negative start or duration
// means whole-file extraction.
func extractArgs(input, output string, start, duration float64) []string {
	args := []string{"-hide_banner", "-nostdin", "-y", "-i", input}
	if start >= 0 && duration > 0 {
		args = append(args,
			"-ss", strconv.FormatFloat(start, 'f', -1, 64),
			"-t", strconv.FormatFloat(duration, 'f', -1, 64),
		)
	}
	args = append(args,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		output,
	)
	return args
}

// tail returns the last few lines of ffmpeg output, which is where the
// actual error message lives.
func tail(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return "no output"
	}
	lines := strings.Split(output, "\n")
	const keep = 4
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
