package config

import "time"

// Timeout returns the storage request timeout as a duration.
func (s Storage) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Timeout returns the per-chunk transcription timeout as a duration.
func (w Whisper) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// Timeout returns the diarization run timeout as a duration.
func (d Diarization) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Timeout returns the source resolution timeout as a duration.
func (d Discovery) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// PollInterval returns the queue polling interval as a duration.
func (w Workflow) PollInterval() time.Duration {
	return time.Duration(w.QueuePollInterval) * time.Second
}

// RetryInterval returns the post-error backoff interval as a duration.
func (w Workflow) RetryInterval() time.Duration {
	return time.Duration(w.ErrorRetryInterval) * time.Second
}

// Heartbeat returns the heartbeat publish interval as a duration.
func (w Workflow) Heartbeat() time.Duration {
	return time.Duration(w.HeartbeatInterval) * time.Second
}

// StaleCutoff returns how long an item may go without a heartbeat before it
// is reclaimed.
func (w Workflow) StaleCutoff() time.Duration {
	return time.Duration(w.HeartbeatTimeout) * time.Second
}
