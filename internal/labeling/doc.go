// Package labeling implements the speaker labeling stage. It attributes
// merged transcript segments to speakers using diarization turns, falling
// back to sequential placeholder labels whenever diarization is disabled or
// fails. The fallback keeps the pipeline moving: a recording always leaves
// this stage with a fully labeled transcript, and the queue item records
// whether real diarization backed the labels.
package labeling
