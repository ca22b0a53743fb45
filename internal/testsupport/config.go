// Package testsupport provides shared constructors for tests: configs seeded
// with per-test temp directories, opened stores with cleanup registered, and
// stub executables for the external binaries tubefeed shells out to.
package testsupport

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"tubefeed/internal/config"
	"tubefeed/internal/logging"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Feed.Title = "Test Feed"
	cfgVal.Feed.BaseURL = "https://example.com/podcast"

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithBatchSize overrides the acquisition batch cap on the test config.
func WithBatchSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Acquire.BatchSize = n
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, both external binaries are
// stubbed. The stubs exit zero and produce no output; tests needing richer
// behavior use StubBinary.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		prependPath(b.t, binDir)
	}
}

// StubBinary installs an executable shell script under a fresh directory
// prepended to PATH, shadowing any earlier stub of the same name.
func StubBinary(t testing.TB, name, script string) {
	t.Helper()
	binDir := t.TempDir()
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	prependPath(t, binDir)
}

func prependPath(t testing.TB, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// Logger returns a discard logger for tests.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	return logging.NewNop()
}
