// Package segment defines the ordered transcript segment list threaded
// through the dubbing pipeline, plus the JSON interchange format used by
// upstream recognition and downstream muxing.
package segment
