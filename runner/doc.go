// Package runner is the domain-facing entry point: it resolves pedagogical
// requests against the strategy catalog, tracks asynchronous strategy
// batches, dispatches team membership transitions, replays recorded
// membership during playback, and escalates authorization requests.
package runner
