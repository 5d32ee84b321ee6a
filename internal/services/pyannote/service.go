package pyannote

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"scrivener/internal/transcript"
)

// DefaultBinary is the diarization command used when none is configured.
const DefaultBinary = "diarize"

// Config captures runtime settings for diarization invocations.
type Config struct {
	// Binary is the diarization executable name or path.
	Binary string
	// HFToken is the Hugging Face token the pyannote pipeline requires.
	HFToken string
}

// Result holds the outcome of one diarization run.
type Result struct {
	// Turns are the speaker turns in time order.
	Turns []transcript.Turn
	// Embeddings maps each diarization speaker label to its voice embedding,
	// when the tool emits them. May be empty.
	Embeddings map[string][]float64
}

// Service provides speaker diarization via an external CLI.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a diarization service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Binary returns the configured diarization binary for preflight checks.
func (s *Service) Binary() string {
	return s.cfg.Binary
}

// Diarize runs diarization on a WAV file and parses the resulting JSON.
// outputDir is where the tool writes {base}.diarization.json; it defaults to
// the source's directory.
func (s *Service) Diarize(ctx context.Context, source, outputDir string) (Result, error) {
	if source == "" {
		return Result{}, fmt.Errorf("diarize: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("diarize: ensure output dir: %w", err)
	}

	jsonPath := filepath.Join(outputDir, outputBaseName(source))
	args := []string{source, "--output", jsonPath}
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return Result{}, fmt.Errorf("diarize: %w", err)
	}

	result, err := LoadResult(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("diarize output: %w", err)
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if s.cfg.HFToken != "" {
		cmd.Env = append(os.Environ(), "HF_TOKEN="+s.cfg.HFToken)
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func outputBaseName(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return base + ".diarization.json"
}

type enginePayload struct {
	Segments   []engineTurn         `json:"segments"`
	Embeddings map[string][]float64 `json:"embeddings"`
}

type engineTurn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// LoadResult parses a diarization JSON file. Turns are returned sorted by
// start time so alignment's first-match rule picks the earliest turn.
func LoadResult(jsonPath string) (Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, err
	}
	var payload enginePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("parse diarization json: %w", err)
	}

	turns := make([]transcript.Turn, 0, len(payload.Segments))
	for _, turn := range payload.Segments {
		if turn.End <= turn.Start || strings.TrimSpace(turn.Speaker) == "" {
			continue
		}
		turns = append(turns, transcript.Turn{Start: turn.Start, End: turn.End, Speaker: turn.Speaker})
	}
	sort.SliceStable(turns, func(a, b int) bool {
		return turns[a].Start < turns[b].Start
	})

	return Result{Turns: turns, Embeddings: payload.Embeddings}, nil
}
