// Package speaker maps anonymous diarization labels to enrolled speaker
// names by comparing voice embeddings.
//
// Operators enroll known speakers by storing a reference embedding per name.
// When the diarizer emits per-label embeddings, each label is matched
// against the enrolled set by cosine similarity; labels without a
// sufficiently close match keep their anonymous form.
package speaker
