package testsupport

import (
	"context"
	"testing"
	"time"

	"tubefeed/internal/config"
	"tubefeed/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg, Logger(t))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// AddSource registers a source for tests using the provided store.
func AddSource(t testing.TB, st *store.Store, src store.Source) {
	t.Helper()

	if src.Kind == "" {
		src.Kind = store.KindChannel
	}
	if err := st.AddSource(context.Background(), src); err != nil {
		t.Fatalf("store.AddSource: %v", err)
	}
}

// InsertEpisode records a pending episode for tests.
func InsertEpisode(t testing.TB, st *store.Store, id, sourceID string, pubDate time.Time) {
	t.Helper()

	err := st.InsertEpisode(context.Background(), store.Episode{
		ID:       id,
		SourceID: sourceID,
		Title:    "Episode " + id,
		PubDate:  pubDate,
	})
	if err != nil {
		t.Fatalf("store.InsertEpisode: %v", err)
	}
}
