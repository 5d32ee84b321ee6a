package speaker

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"

	"scrivener/internal/transcript"
)

// DefaultThreshold is the minimum cosine similarity for an enrolled match.
const DefaultThreshold = 0.75

// Profile is one enrolled speaker.
type Profile struct {
	Name      string    `json:"name"`
	Embedding []float64 `json:"embedding"`
}

// Matcher resolves diarization labels to enrolled speaker names.
type Matcher struct {
	profiles  []Profile
	threshold float64
}

// NewMatcher builds a matcher over the given profiles. A non-positive
// threshold falls back to DefaultThreshold.
func NewMatcher(profiles []Profile, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{profiles: profiles, threshold: threshold}
}

// LoadProfiles reads enrolled speaker profiles from a JSON file holding a
// list of {name, embedding} objects.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load speaker profiles: %w", err)
	}
	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse speaker profiles: %w", err)
	}
	valid := profiles[:0]
	for _, p := range profiles {
		if p.Name == "" || len(p.Embedding) == 0 {
			continue
		}
		valid = append(valid, p)
	}
	return valid, nil
}

// CosineSimilarity returns the cosine similarity of two embeddings, in
// [-1, 1]. Mismatched or zero-norm vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

// BestMatch returns the enrolled name closest to the embedding, when its
// similarity clears the threshold.
func (m *Matcher) BestMatch(embedding []float64) (string, float64, bool) {
	bestName := ""
	bestSimilarity := 0.0
	for _, profile := range m.profiles {
		similarity := CosineSimilarity(embedding, profile.Embedding)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestName = profile.Name
		}
	}
	if bestName == "" || bestSimilarity < m.threshold {
		return "", bestSimilarity, false
	}
	return bestName, bestSimilarity, true
}

// ResolveLabels maps each diarization label to an enrolled name using the
// label's embedding. Labels without an embedding or without a close enough
// enrolled profile are absent from the result.
func (m *Matcher) ResolveLabels(embeddings map[string][]float64) map[string]string {
	if len(embeddings) == 0 || len(m.profiles) == 0 {
		return nil
	}
	labels := make([]string, 0, len(embeddings))
	for label := range embeddings {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	resolved := make(map[string]string)
	for _, label := range labels {
		if name, _, ok := m.BestMatch(embeddings[label]); ok {
			resolved[label] = name
		}
	}
	if len(resolved) == 0 {
		return nil
	}
	return resolved
}

// RenameTurns rewrites turn labels through the resolved mapping. Turns whose
// label has no mapping are returned unchanged.
func RenameTurns(turns []transcript.Turn, resolved map[string]string) []transcript.Turn {
	if len(resolved) == 0 {
		return turns
	}
	renamed := make([]transcript.Turn, len(turns))
	copy(renamed, turns)
	for i := range renamed {
		if name, ok := resolved[renamed[i].Speaker]; ok {
			renamed[i].Speaker = name
		}
	}
	return renamed
}
