// Package logging constructs the slog loggers used across tubefeed.
//
// Two handler formats are supported: a human-oriented console handler with
// optional ANSI color (enabled only on terminals) and a JSON handler for
// machine consumption. Both honour the configured level and write to stdout
// plus a log file under the data directory.
package logging
