package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"scrivener/internal/services"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = NewComponentLogger(logger, "ingest")
	logger.Info("chunk uploaded", String("blob", "abc_chunk_1.wav"), Int("index", 1))

	line := buf.String()
	if !strings.Contains(line, "INFO ingest: chunk uploaded") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "blob=abc_chunk_1.wav") {
		t.Errorf("missing blob attr: %q", line)
	}
	if !strings.Contains(line, "index=1") {
		t.Errorf("missing index attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("diarization failed", String("reason", "engine not reachable"))
	if !strings.Contains(buf.String(), `reason="engine not reachable"`) {
		t.Errorf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("stage completed", String(FieldStage, "transcribing"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("missing key %q in %v", key, payload)
		}
	}
	if payload["level"] != "info" {
		t.Errorf("level = %v, want info", payload["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("should not appear")
	logger.Warn("should appear")
	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("info line leaked through warn filter")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn line missing")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithItemID(context.Background(), 7)
	ctx = services.WithRecordingID(ctx, "vid123")
	ctx = services.WithStage(ctx, "labeling")

	WithContext(ctx, logger).Info("aligning")
	line := buf.String()
	for _, want := range []string{"item_id=7", "recording_id=vid123", "stage=labeling"} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %q in %q", want, line)
		}
	}
}
