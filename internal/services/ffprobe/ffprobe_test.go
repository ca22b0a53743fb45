package ffprobe_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tubefeed/internal/services"
	"tubefeed/internal/services/ffprobe"
	"tubefeed/internal/testsupport"
)

func TestDurationSeconds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.StubBinary(t, "ffprobe", `#!/bin/sh
echo '{"format":{"duration":"614.371000"}}'
`)

	media := filepath.Join(t.TempDir(), "episode.m4a")
	if err := os.WriteFile(media, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := ffprobe.New(cfg, testsupport.Logger(t))
	duration, err := client.DurationSeconds(context.Background(), media)
	if err != nil {
		t.Fatalf("DurationSeconds failed: %v", err)
	}
	if duration != 614 {
		t.Fatalf("expected 614 seconds, got %d", duration)
	}
}

func TestDurationSecondsProbeFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.StubBinary(t, "ffprobe", "#!/bin/sh\nexit 1\n")

	client := ffprobe.New(cfg, testsupport.Logger(t))
	_, err := client.DurationSeconds(context.Background(), "/nonexistent/file.m4a")
	if err == nil {
		t.Fatal("expected error from failing probe")
	}
	if !services.IsTransient(err) {
		t.Fatalf("probe failure should be transient: %v", err)
	}
}

func TestDurationSecondsMalformedOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.StubBinary(t, "ffprobe", "#!/bin/sh\necho 'not json'\n")

	client := ffprobe.New(cfg, testsupport.Logger(t))
	if _, err := client.DurationSeconds(context.Background(), "file.m4a"); err == nil {
		t.Fatal("expected error for malformed probe output")
	}
}
