// Package preflight provides readiness checks run before a batch starts and
// by the "vx check" command.
//
// Two kinds of check exist:
//   - tool checks: the MKVToolNix binaries an operation needs, verified
//     through the deps Gate (presence and minimum version)
//   - directory checks: the output base directory and the state directory
//     must be writable, or creatable beneath a writable ancestor
//
// Tool failures are preconditions and abort a batch; directory failures are
// reported so the caller can decide.
package preflight
