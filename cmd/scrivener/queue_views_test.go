package main

import (
	"strings"
	"testing"
	"time"

	"scrivener/internal/queue"
)

func TestBuildQueueStatusRowsSortsByStatus(t *testing.T) {
	stats := map[queue.Status]int{
		queue.StatusPending:   3,
		queue.StatusCompleted: 1,
		queue.StatusFailed:    2,
	}

	rows := buildQueueStatusRows(stats)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Completed" || rows[0][1] != "1" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[2][0] != "Pending" || rows[2][1] != "3" {
		t.Errorf("unexpected last row: %v", rows[2])
	}
}

func TestBuildQueueListRowsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	items := []*queue.Item{
		{ID: 1, Title: "Morning Standup", Status: queue.StatusCompleted, CreatedAt: base},
		{ID: 2, Title: "All Hands", Status: queue.StatusPending, CreatedAt: base.Add(time.Hour)},
	}

	rows := buildQueueListRows(items)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "All Hands" {
		t.Errorf("expected newest item first, got %q", rows[0][1])
	}
	if rows[1][2] != "Completed" {
		t.Errorf("expected formatted status, got %q", rows[1][2])
	}
}

func TestQueueItemTitleFallbacks(t *testing.T) {
	cases := []struct {
		name string
		item queue.Item
		want string
	}{
		{"explicit title", queue.Item{Title: "Board Review"}, "Board Review"},
		{"media file basename", queue.Item{MediaFile: "/staging/rec/meeting.mp4"}, "meeting.mp4"},
		{"source url", queue.Item{SourceURL: "https://example.com/watch?v=abc"}, "https://example.com/watch?v=abc"},
		{"nothing known", queue.Item{}, "Unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := queueItemTitle(&tc.item); got != tc.want {
				t.Errorf("queueItemTitle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatProgressUsesStageKeyWhenStageEmpty(t *testing.T) {
	item := &queue.Item{Status: queue.StatusPending}
	got := formatProgress(item)
	if !strings.HasPrefix(got, "Planned") {
		t.Errorf("expected stage key fallback, got %q", got)
	}

	item = &queue.Item{Status: queue.StatusTranscribing, ProgressStage: "Transcribing", ProgressPercent: 42}
	got = formatProgress(item)
	if !strings.Contains(got, "42%") {
		t.Errorf("expected percent in %q", got)
	}
}

func TestIsRemoteSource(t *testing.T) {
	if !isRemoteSource("https://example.com/video") {
		t.Error("https should be remote")
	}
	if !isRemoteSource("HTTP://example.com/video") {
		t.Error("scheme match should be case-insensitive")
	}
	if isRemoteSource("/srv/media/recording.mkv") {
		t.Error("absolute path should be local")
	}
	if isRemoteSource("recording.mkv") {
		t.Error("bare filename should be local")
	}
}

func TestRenderTableIncludesHeadersAndRows(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Title"},
		[][]string{{"1", "All Hands"}},
		[]columnAlignment{alignRight, alignLeft},
	)
	if !strings.Contains(out, "ID") || !strings.Contains(out, "All Hands") {
		t.Errorf("rendered table missing content:\n%s", out)
	}
}
