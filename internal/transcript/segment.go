package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSegment reports a segment violating the time or text
// invariants. A render-time occurrence indicates an upstream contract
// violation rather than bad user input.
var ErrMalformedSegment = errors.New("malformed segment")

// Segment is a transcribed span of speech. Start and End are seconds;
// Speaker is empty until labeling and stays empty when no diarization turn
// overlaps the segment.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Turn is one diarization interval: a span of audio attributed to a single
// (anonymous) speaker label. Labels are opaque and stable within a
// recording, not human names.
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Overlaps reports whether the segment and turn share any open interval.
// Touching endpoints do not count as overlap.
func (s Segment) Overlaps(t Turn) bool {
	return s.End > t.Start && s.Start < t.End
}

// Validate checks the segment invariants: 0 <= start < end and non-blank
// text.
func (s Segment) Validate() error {
	if s.Start < 0 || s.End <= s.Start {
		return fmt.Errorf("%w: interval [%v, %v]", ErrMalformedSegment, s.Start, s.End)
	}
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("%w: empty text at [%v, %v]", ErrMalformedSegment, s.Start, s.End)
	}
	return nil
}
