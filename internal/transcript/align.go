package transcript

// Align attributes each segment to a speaker using the recording's
// diarization turns. A turn matches a segment when the two strictly overlap;
// containment is deliberately not required, since diarization turns are
// often shorter than transcript segments and a containment rule would leave
// long segments unlabeled. When several turns overlap a segment the first
// one in turn order wins, which is the earliest-starting turn as long as the
// turn list is time-ordered. Segments with no overlapping turn keep an empty
// speaker; display fallback text is the renderer's concern.
//
// The input slice is not modified; Align returns a labeled copy.
func Align(segments []Segment, turns []Turn) []Segment {
	labeled := make([]Segment, len(segments))
	copy(labeled, segments)
	for i := range labeled {
		for _, turn := range turns {
			if labeled[i].Overlaps(turn) {
				labeled[i].Speaker = turn.Speaker
				break
			}
		}
	}
	return labeled
}
