// Package store persists watched sources and discovered episodes in SQLite
// and owns the episode lifecycle state machine.
//
// An episode moves through four states: it is created pending, a download
// decision moves it to published or skipped (both terminal download
// decisions), and reconciliation may later move a published episode to
// missing when its file disappears from disk. Every other transition is a
// guarded no-op, so repeated runs converge instead of fighting each other.
//
// All mutations are single-statement row updates. Open additionally takes a
// file lock next to the database so two concurrent runs cannot interleave
// writes.
package store
