// Package feed projects eligible episodes out of the store and renders them
// as a podcast RSS document.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eduncan911/podcast"

	"tubefeed/internal/config"
	"tubefeed/internal/logging"
	"tubefeed/internal/store"
)

// Entry is one feed position. Position is the 0-based index in publication
// order, oldest first.
type Entry struct {
	Position int
	Episode  *store.Episode
}

// Projector reads the ordered set of feed-eligible episodes. It never
// mutates the store.
type Projector struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProjector builds a Projector.
func NewProjector(st *store.Store, logger *slog.Logger) *Projector {
	return &Projector{
		store:  st,
		logger: logging.WithComponent(logger, "feed"),
	}
}

// Project returns every published episode in publication order with its feed
// position. Skipped and missing episodes never appear.
func (p *Projector) Project(ctx context.Context) ([]Entry, error) {
	episodes, err := p.store.ListEpisodes(ctx, store.Filter{
		Processed: store.Bool(true),
		Present:   store.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(episodes))
	for i, ep := range episodes {
		entries[i] = Entry{Position: i, Episode: ep}
	}
	return entries, nil
}

// Renderer serializes projected entries into podcast RSS.
type Renderer struct {
	feed       config.Feed
	libraryDir string
	audioExt   string
	feedPath   string
	logger     *slog.Logger
}

// NewRenderer builds a Renderer from application configuration.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	return &Renderer{
		feed:       cfg.Feed,
		libraryDir: cfg.Paths.LibraryDir,
		audioExt:   cfg.AudioExt(),
		feedPath:   cfg.FeedPath(),
		logger:     logging.WithComponent(logger, "feed"),
	}
}

// Render produces the RSS document for the given entries. Enclosure sizes
// are read from the published files; an unreadable file renders with size
// zero rather than failing the whole document.
func (r *Renderer) Render(entries []Entry) (string, error) {
	now := time.Now()
	p := podcast.New(r.feed.Title, r.feed.Link, r.feed.Description, &now, &now)
	if r.feed.Language != "" {
		p.Language = r.feed.Language
	}
	if r.feed.Author != "" {
		p.IAuthor = r.feed.Author
	}

	for _, entry := range entries {
		ep := entry.Episode
		item := podcast.Item{
			Title:       ep.Title,
			Description: ep.Description,
		}
		if item.Description == "" {
			item.Description = ep.Title
		}
		pubDate := ep.PubDate
		item.AddPubDate(&pubDate)
		item.AddDuration(int64(ep.Duration))
		if ep.Thumbnail != "" {
			item.AddImage(ep.Thumbnail)
		}

		enclosureURL := fmt.Sprintf("%s/%s%s", r.feed.BaseURL, ep.ID, r.audioExt)
		item.AddEnclosure(enclosureURL, enclosureType(r.audioExt), r.fileSize(ep.ID))

		if _, err := p.AddItem(item); err != nil {
			return "", fmt.Errorf("add feed item %s: %w", ep.ID, err)
		}
	}
	return p.String(), nil
}

// WriteFile writes the rendered document to the configured feed path via a
// temporary file and rename, so readers never observe a half-written feed.
func (r *Renderer) WriteFile(doc string) error {
	dir := filepath.Dir(r.feedPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create feed directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".feed-*.xml")
	if err != nil {
		return fmt.Errorf("create temporary feed file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("write feed document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary feed file: %w", err)
	}
	if err := os.Rename(tmpName, r.feedPath); err != nil {
		return fmt.Errorf("publish feed document: %w", err)
	}

	r.logger.Info("feed written", slog.String("path", r.feedPath))
	return nil
}

func (r *Renderer) fileSize(episodeID string) int64 {
	info, err := os.Stat(filepath.Join(r.libraryDir, episodeID+r.audioExt))
	if err != nil {
		r.logger.Warn("enclosure size unavailable",
			slog.String(logging.FieldEpisodeID, episodeID),
		)
		return 0
	}
	return info.Size()
}

func enclosureType(ext string) podcast.EnclosureType {
	if ext == ".mp3" {
		return podcast.MP3
	}
	return podcast.M4A
}
