package transcript

import (
	"errors"
	"testing"
)

func TestMergeRebasesChunkOffsets(t *testing.T) {
	perChunk := [][]Segment{
		{
			{Start: 0, End: 4.5, Text: "first chunk opening"},
			{Start: 4.5, End: 9, Text: "first chunk closing"},
		},
		{
			{Start: 0, End: 3, Text: "second chunk opening"},
		},
	}

	merged, err := Merge(perChunk, []float64{0, 1800})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if len(merged) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(merged))
	}
	if merged[2].Start != 1800 || merged[2].End != 1803 {
		t.Errorf("second chunk segment not re-based: got [%v, %v]", merged[2].Start, merged[2].End)
	}
	if merged[2].Text != "second chunk opening" {
		t.Errorf("unexpected text: %q", merged[2].Text)
	}
}

func TestMergeSortsByStart(t *testing.T) {
	perChunk := [][]Segment{
		{{Start: 5, End: 8, Text: "late in chunk"}},
		{{Start: 0, End: 2, Text: "early in chunk"}},
	}

	merged, err := Merge(perChunk, []float64{0, 1})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if merged[0].Start != 1 {
		t.Errorf("segments not sorted by start: first start = %v", merged[0].Start)
	}
	if merged[1].Start != 5 {
		t.Errorf("segments not sorted by start: second start = %v", merged[1].Start)
	}
}

func TestMergeStableForEqualStarts(t *testing.T) {
	perChunk := [][]Segment{
		{
			{Start: 10, End: 12, Text: "spoken first"},
			{Start: 10, End: 11, Text: "spoken second"},
		},
	}

	merged, err := Merge(perChunk, []float64{0})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if merged[0].Text != "spoken first" || merged[1].Text != "spoken second" {
		t.Errorf("equal-start segments reordered: %q, %q", merged[0].Text, merged[1].Text)
	}
}

func TestMergeOffsetCountMismatch(t *testing.T) {
	_, err := Merge([][]Segment{{}, {}}, []float64{0})
	if err == nil {
		t.Fatal("expected error for mismatched offsets")
	}
}

func TestMergeEmptyInput(t *testing.T) {
	merged, err := Merge(nil, nil)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("expected empty result, got %d segments", len(merged))
	}
}

func TestMergeRejectsMalformedSegment(t *testing.T) {
	perChunk := [][]Segment{{{Start: 5, End: 5, Text: "zero length"}}}
	_, err := Merge(perChunk, []float64{0})
	if !errors.Is(err, ErrMalformedSegment) {
		t.Fatalf("expected ErrMalformedSegment, got %v", err)
	}
}
