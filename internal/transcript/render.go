package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

type documentSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker *string `json:"speaker"`
}

type document struct {
	Segments []documentSegment `json:"segments"`
}

type turnDocument struct {
	Segments []Turn `json:"segments"`
}

// UnknownSpeaker is the display label used in the readable script for
// segments no diarization turn overlapped.
const UnknownSpeaker = "Unknown"

// Render serializes labeled segments into the structured JSON document and
// the human-readable script. Unlabeled segments serialize with a null
// speaker in the document and display as "Unknown" in the script. Both
// outputs are byte-deterministic for a given input. Segments must already
// satisfy the transcript invariants; a violation here means an upstream bug.
func Render(segments []Segment) ([]byte, string, error) {
	doc := document{Segments: make([]documentSegment, 0, len(segments))}
	var script strings.Builder

	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return nil, "", fmt.Errorf("render segment %d: %w", i, err)
		}

		ds := documentSegment{Start: seg.Start, End: seg.End, Text: seg.Text}
		if seg.Speaker != "" {
			speaker := seg.Speaker
			ds.Speaker = &speaker
		}
		doc.Segments = append(doc.Segments, ds)

		display := seg.Speaker
		if display == "" {
			display = UnknownSpeaker
		}
		fmt.Fprintf(&script, "%s - %.2f to %.2f: %s\n\n", display, seg.Start, seg.End, strings.TrimSpace(seg.Text))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("render transcript json: %w", err)
	}
	return data, script.String(), nil
}

// RenderTurns serializes diarization turns as the diarization interchange
// document.
func RenderTurns(turns []Turn) ([]byte, error) {
	doc := turnDocument{Segments: turns}
	if doc.Segments == nil {
		doc.Segments = []Turn{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render diarization json: %w", err)
	}
	return data, nil
}

// ParseDocument decodes a structured transcript document produced by Render.
func ParseDocument(data []byte) ([]Segment, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}
	segments := make([]Segment, 0, len(doc.Segments))
	for _, ds := range doc.Segments {
		seg := Segment{Start: ds.Start, End: ds.End, Text: ds.Text}
		if ds.Speaker != nil {
			seg.Speaker = *ds.Speaker
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
