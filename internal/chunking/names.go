package chunking

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var chunkIndexPattern = regexp.MustCompile(`chunk_(\d+)`)

// BlobName returns the storage blob name for a recording's chunk.
func BlobName(recordingID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d.wav", recordingID, index)
}

// FullAudioBlobName returns the storage blob name for a recording's
// full-length audio, used for whole-recording diarization.
func FullAudioBlobName(recordingID string) string {
	return fmt.Sprintf("%s_full.wav", recordingID)
}

// ChunkPrefix returns the listing prefix that matches every chunk blob of a
// recording.
func ChunkPrefix(recordingID string) string {
	return recordingID + "_chunk_"
}

// ParseIndex extracts the 1-based chunk index embedded in a blob name.
// The second return value is false when the name carries no chunk index.
func ParseIndex(name string) (int, bool) {
	match := chunkIndexPattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return index, true
}

// SortBlobNames orders chunk blob names by their embedded index, numerically:
// chunk_2 sorts before chunk_10. Names without an index sort last, keeping
// their relative order.
func SortBlobNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, aok := ParseIndex(names[i])
		b, bok := ParseIndex(names[j])
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		return a < b
	})
}
