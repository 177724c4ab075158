// Package extraction drives a batch of videos through inspection, planning
// and mkvextract invocation.
//
// Runner.Run verifies every required tool once before any video is touched;
// a gate failure aborts the batch with no outcomes. After that each video
// moves independently through pending, inspecting, planning, invoking and
// ends in done or failed. A failure only affects its own video. Videos may
// be processed by a bounded worker pool, but the Report always lists
// outcomes in input order.
//
// Non-dry-run batches hold an advisory file lock in the state directory so
// two vx processes never write the same outputs concurrently.
package extraction
