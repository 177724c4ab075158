// Package services defines the error markers and context helpers shared by
// the inspection, planning, and extraction layers.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with
//     the tool or video they concern, so the batch runner can classify them
//     (precondition vs per-video) without string matching.
//   - Context helpers that stamp run identifiers and video names for
//     logging.
//
// Use these helpers when wiring new tool integrations so failure reporting
// stays uniform across commands.
package services
