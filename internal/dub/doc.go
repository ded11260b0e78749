// Package dub drives the synthesis stage: it computes the timeline slot of
// every segment, synthesizes speech through the configured backend, and
// fits each clip into its slot. Segments are processed by a bounded worker
// pool; one failing segment never stops the run.
package dub
