// Command dubber drives the dubbing pipeline: translating transcript
// segments, synthesizing speech for them, and fitting the clips onto the
// original timeline.
package main
