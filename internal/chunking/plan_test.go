package chunking

import (
	"errors"
	"math"
	"testing"
)

func TestPlanChunksExactMultiple(t *testing.T) {
	plan, err := PlanChunks(3600, 1800)
	if err != nil {
		t.Fatalf("PlanChunks: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(plan))
	}
	want := Plan{
		{Index: 1, Start: 0, End: 1800},
		{Index: 2, Start: 1800, End: 3600},
	}
	for i, c := range plan {
		if c != want[i] {
			t.Errorf("chunk %d = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestPlanChunksTruncatesFinalChunk(t *testing.T) {
	plan, err := PlanChunks(3661, 1800)
	if err != nil {
		t.Fatalf("PlanChunks: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(plan))
	}
	last := plan[2]
	if last.Start != 3600 || last.End != 3661 {
		t.Errorf("final chunk = [%v, %v], want [3600, 3661]", last.Start, last.End)
	}
	if plan.TotalDuration() != 3661 {
		t.Errorf("total duration = %v, want 3661", plan.TotalDuration())
	}
}

func TestPlanChunksCoversWithoutGapsOrOverlaps(t *testing.T) {
	durations := []float64{1, 0.5, 1799.9, 1800, 1800.1, 7523.25, 36000}
	for _, total := range durations {
		plan, err := PlanChunks(total, 1800)
		if err != nil {
			t.Fatalf("PlanChunks(%v): %v", total, err)
		}
		if plan[0].Start != 0 {
			t.Errorf("total %v: first chunk starts at %v", total, plan[0].Start)
		}
		for i := 1; i < len(plan); i++ {
			if plan[i].Start != plan[i-1].End {
				t.Errorf("total %v: gap or overlap between chunk %d and %d", total, i, i+1)
			}
			if plan[i].Index != i+1 {
				t.Errorf("total %v: chunk %d has index %d", total, i, plan[i].Index)
			}
		}
		if got := plan[len(plan)-1].End; math.Abs(got-total) > 0 {
			t.Errorf("total %v: last chunk ends at %v", total, got)
		}
	}
}

func TestPlanChunksShortRecordingSingleChunk(t *testing.T) {
	plan, err := PlanChunks(42.5, 1800)
	if err != nil {
		t.Fatalf("PlanChunks: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(plan))
	}
	if plan[0].Duration() != 42.5 {
		t.Errorf("duration = %v, want 42.5", plan[0].Duration())
	}
}

func TestPlanChunksRejectsBadInput(t *testing.T) {
	if _, err := PlanChunks(0, 1800); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero duration: err = %v, want ErrInvalidDuration", err)
	}
	if _, err := PlanChunks(-10, 1800); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("negative duration: err = %v, want ErrInvalidDuration", err)
	}
	if _, err := PlanChunks(100, 0); err == nil {
		t.Error("zero chunk length: expected error")
	}
}

func TestOffsets(t *testing.T) {
	plan, err := PlanChunks(3661, 1800)
	if err != nil {
		t.Fatalf("PlanChunks: %v", err)
	}
	offsets := plan.Offsets()
	want := []float64{0, 1800, 3600}
	if len(offsets) != len(want) {
		t.Fatalf("offsets = %v, want %v", offsets, want)
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("offset %d = %v, want %v", i, offsets[i], want[i])
		}
	}
}
