package feed_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tubefeed/internal/feed"
	"tubefeed/internal/store"
	"tubefeed/internal/testsupport"
)

func seedPublished(t *testing.T, st *store.Store, libraryDir, id string, pub time.Time) {
	t.Helper()
	testsupport.InsertEpisode(t, st, id, "chan1", pub)
	if err := st.MarkPublished(context.Background(), id, 700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(libraryDir, id+".m4a")
	if err := os.WriteFile(path, []byte("audio-"+id), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestProjectOrdersByPublicationDate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.AddSource(t, st, store.Source{ID: "chan1"})

	d1 := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// Insert in arbitrary order.
	seedPublished(t, st, cfg.Paths.LibraryDir, "middle", d2)
	seedPublished(t, st, cfg.Paths.LibraryDir, "newest", d3)
	seedPublished(t, st, cfg.Paths.LibraryDir, "oldest", d1)

	entries, err := feed.NewProjector(st, testsupport.Logger(t)).Project(context.Background())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	want := []string{"oldest", "middle", "newest"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, entry := range entries {
		if entry.Episode.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], entry.Episode.ID)
		}
		if entry.Position != i {
			t.Errorf("entry %s: expected position %d, got %d", entry.Episode.ID, i, entry.Position)
		}
	}
}

func TestProjectExcludesIneligibleEpisodes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.AddSource(t, st, store.Source{ID: "chan1"})
	ctx := context.Background()

	seedPublished(t, st, cfg.Paths.LibraryDir, "good", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	testsupport.InsertEpisode(t, st, "pend", "chan1", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	testsupport.InsertEpisode(t, st, "short", "chan1", time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC))
	if err := st.MarkSkipped(ctx, "short", 100); err != nil {
		t.Fatal(err)
	}

	seedPublished(t, st, cfg.Paths.LibraryDir, "gone", time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC))
	if err := st.MarkMissing(ctx, "gone"); err != nil {
		t.Fatal(err)
	}

	entries, err := feed.NewProjector(st, testsupport.Logger(t)).Project(ctx)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Episode.ID != "good" {
		t.Fatalf("unexpected projection: %#v", entries)
	}
}

func TestRenderProducesRSS(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.AddSource(t, st, store.Source{ID: "chan1"})

	seedPublished(t, st, cfg.Paths.LibraryDir, "vid1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	entries, err := feed.NewProjector(st, testsupport.Logger(t)).Project(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	doc, err := feed.NewRenderer(cfg, testsupport.Logger(t)).Render(entries)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, fragment := range []string{
		"<rss",
		"<title>" + cfg.Feed.Title + "</title>",
		cfg.Feed.BaseURL + "/vid1.m4a",
		"<enclosure",
	} {
		if !strings.Contains(doc, fragment) {
			t.Errorf("document missing %q", fragment)
		}
	}
}

func TestRenderEmptyProjection(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	doc, err := feed.NewRenderer(cfg, testsupport.Logger(t)).Render(nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(doc, "<rss") {
		t.Fatal("empty projection must still render a valid document")
	}
	if strings.Contains(doc, "<item>") {
		t.Fatal("empty projection must contain no items")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	renderer := feed.NewRenderer(cfg, testsupport.Logger(t))

	if err := renderer.WriteFile("<rss>first</rss>"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := renderer.WriteFile("<rss>second</rss>"); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(cfg.FeedPath())
	if err != nil {
		t.Fatalf("reading feed: %v", err)
	}
	if string(data) != "<rss>second</rss>" {
		t.Fatalf("unexpected feed contents: %s", data)
	}

	// No temporary files left behind.
	entries, err := os.ReadDir(filepath.Dir(cfg.FeedPath()))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".feed-") {
			t.Errorf("leftover temporary file %s", entry.Name())
		}
	}
}
