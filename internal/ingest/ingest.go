// Package ingest walks every registered source, discovers newly published
// episodes, and records the eligible ones as pending downloads.
package ingest

import (
	"context"
	"log/slog"
	"strings"

	"tubefeed/internal/discovery"
	"tubefeed/internal/logging"
	"tubefeed/internal/store"
	"tubefeed/internal/textutil"
)

// Summary reports what one ingestion run saw and did.
type Summary struct {
	Sources    int
	Discovered int
	Filtered   int
	Inserted   int
	Failed     int
}

// Runner ingests discovery results into the store.
type Runner struct {
	store  *store.Store
	finder discovery.Finder
	logger *slog.Logger
}

// New builds a Runner.
func New(st *store.Store, finder discovery.Finder, logger *slog.Logger) *Runner {
	return &Runner{
		store:  st,
		finder: finder,
		logger: logging.WithComponent(logger, "ingest"),
	}
}

// Run ingests every registered source. A source whose feed cannot be fetched
// or parsed is logged and counted as failed without disturbing the others;
// its episodes are picked up on a later run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	sources, err := r.store.ListSources(ctx)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	summary.Sources = len(sources)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result, err := r.ingestSource(ctx, *src)
		if err != nil {
			summary.Failed++
			r.logger.Error("source ingestion failed",
				slog.String(logging.FieldSourceID, src.ID),
				slog.Any("error", err),
			)
			continue
		}
		summary.Discovered += result.Discovered
		summary.Filtered += result.Filtered
		summary.Inserted += result.Inserted
	}
	return summary, nil
}

// RunSource ingests a single source by id.
func (r *Runner) RunSource(ctx context.Context, sourceID string) (Summary, error) {
	src, err := r.store.GetSource(ctx, sourceID)
	if err != nil {
		return Summary{}, err
	}
	if src == nil {
		return Summary{}, store.ErrSourceNotFound
	}

	result, err := r.ingestSource(ctx, *src)
	if err != nil {
		return Summary{Sources: 1, Failed: 1}, err
	}
	result.Sources = 1
	return result, nil
}

func (r *Runner) ingestSource(ctx context.Context, src store.Source) (Summary, error) {
	raw, err := r.finder.Discover(ctx, src.Kind, src.ID)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	summary.Discovered = len(raw)
	for _, entry := range raw {
		if !textutil.ContainsFold(entry.Title, src.MustContain) {
			summary.Filtered++
			r.logger.Debug("title filtered",
				slog.String(logging.FieldSourceID, src.ID),
				slog.String(logging.FieldEpisodeID, entry.VideoID),
			)
			continue
		}

		exists, err := r.store.EpisodeExists(ctx, entry.VideoID)
		if err != nil {
			return summary, err
		}
		if exists {
			continue
		}

		ep := store.Episode{
			ID:          entry.VideoID,
			SourceID:    src.ID,
			Title:       textutil.CleanTitle(entry.Title, src.TitleRemove),
			Description: strings.TrimSpace(entry.Description),
			PubDate:     entry.Published,
			Thumbnail:   entry.Thumbnail,
		}
		if err := r.store.InsertEpisode(ctx, ep); err != nil {
			return summary, err
		}
		summary.Inserted++
		r.logger.Info("episode discovered",
			slog.String(logging.FieldSourceID, src.ID),
			slog.String(logging.FieldEpisodeID, ep.ID),
			slog.String("title", ep.Title),
		)
	}

	r.logger.Info("source ingested",
		slog.String(logging.FieldSourceID, src.ID),
		slog.Int("discovered", summary.Discovered),
		slog.Int("filtered", summary.Filtered),
		slog.Int("inserted", summary.Inserted),
	)
	return summary, nil
}
