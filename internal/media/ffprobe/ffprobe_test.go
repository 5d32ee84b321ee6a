package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", SampleRate: "48000", Channels: 2},
		},
		Format: Format{
			Duration: "3661.00",
		},
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if !result.HasAudio() {
		t.Fatal("expected HasAudio to be true")
	}
	duration, err := result.DurationSeconds()
	if err != nil {
		t.Fatalf("DurationSeconds failed: %v", err)
	}
	if duration != 3661 {
		t.Fatalf("unexpected duration: %v", duration)
	}
}

func TestDurationSecondsRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		duration string
	}{
		{"empty", ""},
		{"garbage", "not-a-number"},
		{"zero", "0"},
		{"negative", "-5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Result{Format: Format{Duration: tc.duration}}
			if _, err := result.DurationSeconds(); err == nil {
				t.Fatalf("expected error for duration %q", tc.duration)
			}
		})
	}
}
