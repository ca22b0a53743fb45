// Package reconcile corrects the store against the library directory: a
// published episode whose audio file has disappeared loses its presence and
// drops out of the feed.
package reconcile

import (
	"context"
	"log/slog"

	"tubefeed/internal/config"
	"tubefeed/internal/fileutil"
	"tubefeed/internal/logging"
	"tubefeed/internal/store"
)

// Summary reports what one reconciliation run found.
type Summary struct {
	Published int
	Missing   int
}

// Runner compares recorded presence against the filesystem.
type Runner struct {
	store      *store.Store
	libraryDir string
	audioExt   string
	logger     *slog.Logger
}

// New builds a Runner from application configuration.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Runner {
	return &Runner{
		store:      st,
		libraryDir: cfg.Paths.LibraryDir,
		audioExt:   cfg.AudioExt(),
		logger:     logging.WithComponent(logger, "reconcile"),
	}
}

// Run marks every published episode without a backing file as missing. The
// correction is one-directional: files on disk without a published record
// are ignored, since adopting them would fabricate provenance.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	onDisk, err := fileutil.ListNames(r.libraryDir, r.audioExt)
	if err != nil {
		return Summary{}, err
	}

	published, err := r.store.ListEpisodes(ctx, store.Filter{Present: store.Bool(true)})
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	summary.Published = len(published)
	for _, ep := range published {
		if _, ok := onDisk[ep.ID+r.audioExt]; ok {
			continue
		}
		if err := r.store.MarkMissing(ctx, ep.ID); err != nil {
			return summary, err
		}
		summary.Missing++
		r.logger.Warn("published file disappeared",
			slog.String(logging.FieldEpisodeID, ep.ID),
		)
	}

	r.logger.Info("reconciliation finished",
		slog.Int("published", summary.Published),
		slog.Int("missing", summary.Missing),
	)
	return summary, nil
}
