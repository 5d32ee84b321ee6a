// Package workflow drives queue items through the pipeline stages.
//
// The Manager polls the queue for the oldest actionable item, transitions it
// to the owning stage's processing status, runs the stage handler with a
// heartbeat goroutine, then advances the item to the stage's done status.
// Items whose heartbeats go stale (crashed or killed daemon) are rolled back
// to their pre-stage status and picked up again on a later pass.
package workflow
