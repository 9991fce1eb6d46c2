// Package engine orchestrates validation plugins against a manifest
// batch.
//
// The engine runs every registered plugin either sequentially in
// registration order or concurrently, races each invocation against a
// configurable timeout, and aggregates findings into a single Result
// whose ordering always equals registration order regardless of
// scheduling mode.
//
// Timeouts are best effort: the engine derives a per-plugin context with
// the configured deadline and stops waiting when it fires, but it has no
// way to preempt a plugin that ignores its context. A timed-out plugin's
// goroutine may keep running invisibly to the caller. This is a known
// limitation of the design, not a bug.
package engine
