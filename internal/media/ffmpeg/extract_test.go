package ffmpeg

import (
	"context"
	"strings"
	"testing"
)

func TestExtractArgsWholeFile(t *testing.T) {
	args := extractArgs("in.mp4", "out.wav", -1, -1)
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-ss") {
		t.Fatalf("whole-file extraction must not seek: %s", joined)
	}
	for _, want := range []string{"-ac 1", "-ar 16000", "-c:a pcm_s16le", "-vn"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in args: %s", want, joined)
		}
	}
	if args[len(args)-1] != "out.wav" {
		t.Errorf("output must be the final argument: %s", joined)
	}
}

func TestExtractArgsRange(t *testing.T) {
	args := extractArgs("in.mp4", "out.wav", 1800, 61)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-ss 1800") {
		t.Errorf("missing seek offset: %s", joined)
	}
	if !strings.Contains(joined, "-t 61") {
		t.Errorf("missing duration: %s", joined)
	}
}

func TestExtractRangeRejectsBadWindow(t *testing.T) {
	e := NewExtractor("")
	if err := e.ExtractRange(context.Background(), "in.mp4", "out.wav", -1, 10); err == nil {
		t.Fatal("expected error for negative start")
	}
	if err := e.ExtractRange(context.Background(), "in.mp4", "out.wav", 0, 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestTailKeepsLastLines(t *testing.T) {
	out := "a\nb\nc\nd\ne\nf"
	got := tail(out)
	if got != "c\nd\ne\nf" {
		t.Errorf("unexpected tail: %q", got)
	}
	if tail("  ") != "no output" {
		t.Error("expected placeholder for empty output")
	}
}
