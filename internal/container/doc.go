// Package container turns mkvmerge identification output into the
// structured ContainerInfo the extraction planner consumes.
//
// Inspector.Inspect rejects unrecognized files with an UnsupportedContainer
// error, so a ContainerInfo returned without error is always safe to plan
// against. Track and attachment order is the probe's order.
package container
