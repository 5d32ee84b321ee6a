package transcript

import "fmt"

// LabelSequentially assigns placeholder labels "Speaker 1", "Speaker 2", ...
// one per segment in order. This is the degraded path used when diarization
// is disabled or fails: the numbering does not attempt to track actual
// talkers and must never be mistaken for diarization output. It exists so a
// transcript is always renderable regardless of diarization availability.
//
// The input slice is not modified; a labeled copy is returned.
func LabelSequentially(segments []Segment) []Segment {
	labeled := make([]Segment, len(segments))
	copy(labeled, segments)
	for i := range labeled {
		labeled[i].Speaker = fmt.Sprintf("Speaker %d", i+1)
	}
	return labeled
}
