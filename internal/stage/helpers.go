package stage

import (
	"encoding/json"

	"scrivener/internal/chunking"
	"scrivener/internal/services"
)

// ParseChunkPlan parses the chunk plan JSON recorded on a queue item.
// On failure it returns a services.ErrValidation suitable for stage Execute methods.
func ParseChunkPlan(raw string) (chunking.Plan, error) {
	if raw == "" {
		return nil, nil
	}
	var plan chunking.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, services.Wrap(
			services.ErrValidation, "stage", "parse chunk plan",
			"Chunk plan missing or invalid; rerun ingest", err)
	}
	return plan, nil
}

// EncodeChunkPlan serializes a chunk plan for storage on a queue item.
func EncodeChunkPlan(plan chunking.Plan) (string, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return "", services.Wrap(
			services.ErrValidation, "stage", "encode chunk plan",
			"Chunk plan could not be serialized", err)
	}
	return string(data), nil
}
