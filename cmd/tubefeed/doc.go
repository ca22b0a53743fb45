// Package main hosts the tubefeed CLI entrypoint and command graph.
//
// The Cobra-based command tree covers source registration, episode
// inspection, the ingest/acquire/reconcile/render stages, and the composite
// refresh that runs them in order. It centralizes configuration resolution,
// store locking, and structured logging setup so subcommands can focus on
// user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
