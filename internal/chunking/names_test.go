package chunking

import (
	"reflect"
	"testing"
)

func TestBlobName(t *testing.T) {
	if got := BlobName("abc123", 4); got != "abc123_chunk_4.wav" {
		t.Errorf("BlobName = %q", got)
	}
	if got := FullAudioBlobName("abc123"); got != "abc123_full.wav" {
		t.Errorf("FullAudioBlobName = %q", got)
	}
	if got := ChunkPrefix("abc123"); got != "abc123_chunk_" {
		t.Errorf("ChunkPrefix = %q", got)
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		ok    bool
	}{
		{"abc_chunk_1.wav", 1, true},
		{"abc_chunk_12.wav", 12, true},
		{"nested/dir/xyz_chunk_3.wav", 3, true},
		{"abc_full.wav", 0, false},
		{"chunk_.wav", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		index, ok := ParseIndex(tt.name)
		if index != tt.index || ok != tt.ok {
			t.Errorf("ParseIndex(%q) = %d, %v; want %d, %v", tt.name, index, ok, tt.index, tt.ok)
		}
	}
}

func TestSortBlobNamesNumeric(t *testing.T) {
	names := []string{
		"v_chunk_10.wav",
		"v_chunk_2.wav",
		"v_chunk_1.wav",
		"v_chunk_11.wav",
	}
	SortBlobNames(names)
	want := []string{
		"v_chunk_1.wav",
		"v_chunk_2.wav",
		"v_chunk_10.wav",
		"v_chunk_11.wav",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}
}

func TestSortBlobNamesUnindexedLast(t *testing.T) {
	names := []string{"v_full.wav", "v_chunk_2.wav", "v_chunk_1.wav"}
	SortBlobNames(names)
	want := []string{"v_chunk_1.wav", "v_chunk_2.wav", "v_full.wav"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}
}
