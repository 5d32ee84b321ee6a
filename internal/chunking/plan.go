package chunking

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration reports a non-positive recording duration.
var ErrInvalidDuration = errors.New("invalid duration")

// Chunk is one time-bounded window of the source recording. Index is
// 1-based; Start and End are seconds from the start of the recording.
type Chunk struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the chunk length in seconds.
func (c Chunk) Duration() float64 {
	return c.End - c.Start
}

// Plan is the ordered set of chunks covering a recording with no gaps and no
// overlaps. The last chunk ends at the recording's exact duration.
type Plan []Chunk

// TotalDuration returns the end of the final chunk, which equals the
// recording duration the plan was built for.
func (p Plan) TotalDuration() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].End
}

// Offsets returns each chunk's start time, indexed by position. The merge
// step uses these to re-base chunk-relative segment times onto the
// recording's timeline.
func (p Plan) Offsets() []float64 {
	offsets := make([]float64, len(p))
	for i, c := range p {
		offsets[i] = c.Start
	}
	return offsets
}

// PlanChunks partitions a recording of totalDuration seconds into chunks of
// at most chunkLength seconds. The final chunk is shorter whenever
// totalDuration is not an exact multiple; it is never rounded up.
func PlanChunks(totalDuration float64, chunkLength int) (Plan, error) {
	if totalDuration <= 0 {
		return nil, fmt.Errorf("%w: %v seconds", ErrInvalidDuration, totalDuration)
	}
	if chunkLength <= 0 {
		return nil, fmt.Errorf("chunk length must be positive, got %d", chunkLength)
	}

	length := float64(chunkLength)
	count := int(math.Ceil(totalDuration / length))
	plan := make(Plan, 0, count)
	for i := 1; i <= count; i++ {
		start := float64(i-1) * length
		end := math.Min(float64(i)*length, totalDuration)
		plan = append(plan, Chunk{Index: i, Start: start, End: end})
	}
	return plan, nil
}
