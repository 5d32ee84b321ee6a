package transcript

import "testing"

func TestLabelSequentially(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2, Text: "one"},
		{Start: 2, End: 4, Text: "two"},
		{Start: 4, End: 6, Text: "three"},
	}

	labeled := LabelSequentially(segments)
	want := []string{"Speaker 1", "Speaker 2", "Speaker 3"}
	for i, seg := range labeled {
		if seg.Speaker != want[i] {
			t.Errorf("segment %d: expected %q, got %q", i, want[i], seg.Speaker)
		}
	}
	if segments[0].Speaker != "" {
		t.Error("input slice was modified")
	}
}

func TestLabelSequentiallyEmpty(t *testing.T) {
	labeled := LabelSequentially(nil)
	if len(labeled) != 0 {
		t.Errorf("expected empty result, got %d segments", len(labeled))
	}
}
