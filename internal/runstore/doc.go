// Package runstore persists dubbing run history and per-segment progress in
// SQLite. A run records which source file was dubbed with what settings;
// segment states let an interrupted run resume without redoing finished
// work.
package runstore
