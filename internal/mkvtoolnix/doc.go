// Package mkvtoolnix wraps the MKVToolNix command-line tools vx delegates to.
//
// Key types:
//   - Identification: parsed `mkvmerge -i -F json` output (container flag,
//     tracks, attachments)
//   - Instruction: one "<id>:<path>" extraction token for mkvextract
//   - Client: runs identification and extraction with optional per-call
//     timeouts and an injectable command runner
//
// The package has no knowledge of extraction planning; it only speaks the
// tools' wire formats and classifies their failures with services markers.
package mkvtoolnix
