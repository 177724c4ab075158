// Package main hosts the vx CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the internal
// packages: tracks and attachments run an extraction batch, inspect lists a
// container's contents, check verifies MKVToolNix, history reads the run
// journal and config scaffolds the TOML file. Configuration resolution,
// logger construction and output formatting live here so commands stay
// declarative.
package main
