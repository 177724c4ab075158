// Package planner computes the extraction instructions for one container.
//
// Planning is pure: a Mode maps a ContainerInfo and a base directory to an
// ordered list of ExtractionSpec values without touching the filesystem or
// running any tool. Two modes exist:
//
//   - TrackExtraction: tracks of one type (subtitles by default), named
//     <base>/<stem>.<ext>, or <base>/<stem>_<id>.<ext> when more than one
//     track matches. Extensions come from the CodecTable; an unmapped codec
//     fails the whole container with an UnsupportedCodec error.
//   - AttachmentExtraction: every attachment, stored as
//     <base>/<stem>/<stored filename>.
package planner
