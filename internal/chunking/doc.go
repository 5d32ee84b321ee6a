// Package chunking computes chunk boundaries for long recordings and owns
// the chunk blob naming scheme.
//
// A recording longer than one transcription window is split into fixed-length
// chunks; the final chunk is truncated to the recording's exact duration so
// extraction never runs past end of file. Chunk blobs embed a 1-based index
// ("{id}_chunk_{n}.wav") and any component recovering chunk order from a
// storage listing must sort on that index numerically.
package chunking
