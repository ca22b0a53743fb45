package acquire_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tubefeed/internal/acquire"
	"tubefeed/internal/config"
	"tubefeed/internal/fileutil"
	"tubefeed/internal/store"
	"tubefeed/internal/testsupport"
)

// fakeDownloader writes a staging file per video id unless told to fail or
// to succeed without producing output.
type fakeDownloader struct {
	cfg      *config.Config
	fail     map[string]error
	noOutput map[string]bool
	calls    []string
}

func (d *fakeDownloader) Download(_ context.Context, videoID string) (string, error) {
	d.calls = append(d.calls, videoID)
	if err, ok := d.fail[videoID]; ok {
		return "", err
	}
	path := filepath.Join(d.cfg.Paths.StagingDir, videoID+d.cfg.AudioExt())
	if d.noOutput[videoID] {
		return path, nil
	}
	if err := os.WriteFile(path, []byte("audio:"+videoID), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeProber struct {
	durations map[string]int
	err       error
}

func (p *fakeProber) DurationSeconds(_ context.Context, path string) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	id := filepath.Base(path)
	return p.durations[id[:len(id)-len(filepath.Ext(id))]], nil
}

type fixture struct {
	cfg        *config.Config
	st         *store.Store
	downloader *fakeDownloader
	prober     *fakeProber
	pipeline   *acquire.Pipeline
}

func newFixture(t *testing.T, minLength int, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.AddSource(t, st, store.Source{ID: "chan1", MinLength: minLength})

	downloader := &fakeDownloader{cfg: cfg, fail: map[string]error{}, noOutput: map[string]bool{}}
	prober := &fakeProber{durations: map[string]int{}}
	return &fixture{
		cfg:        cfg,
		st:         st,
		downloader: downloader,
		prober:     prober,
		pipeline:   acquire.New(cfg, st, downloader, prober, testsupport.Logger(t)),
	}
}

func (f *fixture) addPending(t *testing.T, id string, day int) {
	t.Helper()
	testsupport.InsertEpisode(t, f.st, id, "chan1", time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC))
}

func (f *fixture) libraryPath(id string) string {
	return filepath.Join(f.cfg.Paths.LibraryDir, id+f.cfg.AudioExt())
}

func TestRunPublishesLongEnoughEpisode(t *testing.T) {
	f := newFixture(t, 10)
	f.addPending(t, "vid1", 1)
	f.prober.durations["vid1"] = 700

	summary, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Selected != 1 || summary.Published != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	ep, _ := f.st.GetEpisode(context.Background(), "vid1")
	if ep.Status != store.StatusPublished || ep.Duration != 700 {
		t.Fatalf("unexpected episode state: %#v", ep)
	}
	if !fileutil.FileExists(f.libraryPath("vid1")) {
		t.Fatal("published file missing from library")
	}
	if fileutil.FileExists(filepath.Join(f.cfg.Paths.StagingDir, "vid1"+f.cfg.AudioExt())) {
		t.Fatal("staging copy left behind")
	}
}

func TestRunSkipsShortEpisodeAndDeletesFile(t *testing.T) {
	f := newFixture(t, 10)
	f.addPending(t, "vid1", 1)
	f.prober.durations["vid1"] = 500

	summary, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	ep, _ := f.st.GetEpisode(context.Background(), "vid1")
	if ep.Status != store.StatusSkipped || ep.Duration != 500 {
		t.Fatalf("unexpected episode state: %#v", ep)
	}
	if fileutil.FileExists(f.libraryPath("vid1")) {
		t.Fatal("rejected file must not reach the library")
	}
	if fileutil.FileExists(filepath.Join(f.cfg.Paths.StagingDir, "vid1"+f.cfg.AudioExt())) {
		t.Fatal("rejected file must be deleted from staging")
	}
}

func TestRunBoundarySkipsExactlyBelowPolicy(t *testing.T) {
	// 600 seconds satisfies a 10-minute policy; 599 does not.
	f := newFixture(t, 10)
	f.addPending(t, "exact", 1)
	f.addPending(t, "under", 2)
	f.prober.durations["exact"] = 600
	f.prober.durations["under"] = 599

	summary, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Published != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	exact, _ := f.st.GetEpisode(context.Background(), "exact")
	if exact.Status != store.StatusPublished {
		t.Fatalf("600s against a 10-minute policy must publish, got %s", exact.Status)
	}
	under, _ := f.st.GetEpisode(context.Background(), "under")
	if under.Status != store.StatusSkipped {
		t.Fatalf("599s against a 10-minute policy must skip, got %s", under.Status)
	}
}

func TestRunProbeFailureCountsAsZero(t *testing.T) {
	f := newFixture(t, 10)
	f.addPending(t, "vid1", 1)
	f.prober.err = errors.New("unreadable container")

	summary, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	ep, _ := f.st.GetEpisode(context.Background(), "vid1")
	if ep.Status != store.StatusSkipped || ep.Duration != 0 {
		t.Fatalf("unexpected episode state: %#v", ep)
	}
}

func TestRunDownloadFailureLeavesPending(t *testing.T) {
	f := newFixture(t, 10)
	f.addPending(t, "vid1", 1)
	f.addPending(t, "vid2", 2)
	f.downloader.fail["vid1"] = errors.New("network unreachable")
	f.prober.durations["vid2"] = 700

	summary, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("a failed download must not abort the batch: %v", err)
	}
	if summary.Failed != 1 || summary.Published != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	ep, _ := f.st.GetEpisode(context.Background(), "vid1")
	if ep.Status != store.StatusPending {
		t.Fatalf("failed download must stay pending, got %s", ep.Status)
	}
}

func TestRunMissingOutputLeavesPending(t *testing.T) {
	f := newFixture(t, 10)
	f.addPending(t, "livevid", 1)
	f.downloader.noOutput["livevid"] = true

	summary, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	ep, _ := f.st.GetEpisode(context.Background(), "livevid")
	if ep.Status != store.StatusPending {
		t.Fatalf("missing output must stay pending, got %s", ep.Status)
	}
}

func TestRunHonorsBatchSize(t *testing.T) {
	f := newFixture(t, 0, testsupport.WithBatchSize(2))
	for day := 1; day <= 5; day++ {
		f.addPending(t, "vid"+string(rune('0'+day)), day)
	}

	summary, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Selected != 2 {
		t.Fatalf("expected batch of 2, got %d", summary.Selected)
	}
	if len(f.downloader.calls) != 2 {
		t.Fatalf("downloader invoked %d times", len(f.downloader.calls))
	}
	// Oldest publications first.
	if f.downloader.calls[0] != "vid1" || f.downloader.calls[1] != "vid2" {
		t.Fatalf("unexpected batch order: %v", f.downloader.calls)
	}
}
