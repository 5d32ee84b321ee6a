package transcript

import (
	"fmt"
	"sort"
)

// Merge concatenates per-chunk segment lists into one recording-wide
// sequence. Segment times from the transcription engine are relative to the
// chunk file they came from (each chunk is a standalone file starting at 0),
// so every segment is re-based by adding its chunk's offset in the original
// recording. The result is ordered by start time; equal starts keep chunk
// order, then intra-chunk order.
func Merge(perChunk [][]Segment, chunkOffsets []float64) ([]Segment, error) {
	if len(perChunk) != len(chunkOffsets) {
		return nil, fmt.Errorf("merge: %d chunk segment lists but %d offsets", len(perChunk), len(chunkOffsets))
	}

	total := 0
	for _, segments := range perChunk {
		total += len(segments)
	}
	merged := make([]Segment, 0, total)
	for i, segments := range perChunk {
		offset := chunkOffsets[i]
		for j, seg := range segments {
			if err := seg.Validate(); err != nil {
				return nil, fmt.Errorf("merge chunk %d segment %d: %w", i, j, err)
			}
			seg.Start += offset
			seg.End += offset
			merged = append(merged, seg)
		}
	}

	// Chunks are already in timeline order, so this is usually a no-op;
	// the stable sort guards against engines reporting segments slightly
	// out of order within a chunk.
	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Start < merged[b].Start
	})
	return merged, nil
}
