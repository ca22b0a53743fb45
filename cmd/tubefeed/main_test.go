package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
staging_dir = %q
library_dir = %q
data_dir = %q

[feed]
title = "Test Feed"
base_url = "https://example.com/podcast"
`,
		filepath.Join(base, "staging"),
		filepath.Join(base, "library"),
		filepath.Join(base, "data"),
	)
	path := filepath.Join(base, "tubefeed.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func TestSourceAddAndList(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runCommand(t, "--config", cfgPath,
		"source", "add", "UCtest123", "My Channel",
		"--min-length", "10", "--title-remove", "[4K]")
	if !strings.Contains(out, "Registered channel UCtest123") {
		t.Fatalf("unexpected add output: %s", out)
	}

	out = runCommand(t, "--config", cfgPath, "source", "list")
	for _, fragment := range []string{"UCtest123", "My Channel", "channel", "[4K]"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("list output missing %q:\n%s", fragment, out)
		}
	}
}

func TestSourceSetUpdatesPolicy(t *testing.T) {
	cfgPath := writeTestConfig(t)

	runCommand(t, "--config", cfgPath, "source", "add", "PLtest", "Playlist", "--kind", "playlist")
	runCommand(t, "--config", cfgPath, "source", "set", "PLtest", "--min-length", "25")

	out := runCommand(t, "--config", cfgPath, "source", "list")
	if !strings.Contains(out, "25") {
		t.Fatalf("updated policy not visible:\n%s", out)
	}
}

func TestSourceSetUnknownFails(t *testing.T) {
	cfgPath := writeTestConfig(t)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "source", "set", "ghost", "--min-length", "5"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}

func TestEpisodeListEmpty(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runCommand(t, "--config", cfgPath, "episode", "list")
	if !strings.Contains(out, "No episodes") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestStatusCountsAllStates(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runCommand(t, "--config", cfgPath, "status")
	for _, state := range []string{"pending", "skipped", "published", "missing", "total"} {
		if !strings.Contains(out, state) {
			t.Errorf("status output missing %q:\n%s", state, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out := runCommand(t, "config", "init", "--path", target)
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	// Second init without --overwrite must refuse.
	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestRenderWritesEmptyFeed(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out := runCommand(t, "--config", cfgPath, "render")
	if !strings.Contains(out, "Feed written to") {
		t.Fatalf("unexpected output: %s", out)
	}

	feedPath := filepath.Join(filepath.Dir(cfgPath), "library", "index.rss")
	data, err := os.ReadFile(feedPath)
	if err != nil {
		t.Fatalf("feed not written: %v", err)
	}
	if !strings.Contains(string(data), "<rss") {
		t.Fatalf("feed is not RSS: %s", data)
	}
}
