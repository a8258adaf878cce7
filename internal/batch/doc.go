// Package batch runs the tagging pipeline over a set of photos and owns
// the run lifecycle: Idle, Running, Paused, Stopped, Completed.
//
// Pause and stop are requested asynchronously but honored only at photo
// boundaries, so no photo is ever half-written. Pausing persists a state
// file naming the source, settings, and cursor; Resume picks up exactly at
// the cursor. Stopping and completing discard the state file. A file lock
// keeps two runs from touching the same state directory at once.
package batch
