package transcript

import "fmt"

// Blob names for transcript artifacts, keyed by recording ID. The *_segments
// and *_turns documents are intermediate hand-offs between pipeline stages;
// the transcript, diarization, and script documents are the published
// deliverables.

func SegmentsBlobName(recordingID string) string {
	return fmt.Sprintf("%s_segments.json", recordingID)
}

func LabeledBlobName(recordingID string) string {
	return fmt.Sprintf("%s_labeled.json", recordingID)
}

func TurnsBlobName(recordingID string) string {
	return fmt.Sprintf("%s_turns.json", recordingID)
}

func TranscriptBlobName(recordingID string) string {
	return fmt.Sprintf("%s_transcript.json", recordingID)
}

func DiarizationBlobName(recordingID string) string {
	return fmt.Sprintf("%s_diarization.json", recordingID)
}

func ScriptBlobName(recordingID string) string {
	return fmt.Sprintf("%s_speaker_script.txt", recordingID)
}
