// Package acquire drains the pending-download backlog: it fetches audio for
// pending episodes, measures it, applies the owning source's minimum-length
// policy, and publishes or permanently skips each item.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tubefeed/internal/config"
	"tubefeed/internal/fileutil"
	"tubefeed/internal/logging"
	"tubefeed/internal/services/ffprobe"
	"tubefeed/internal/services/ytdlp"
	"tubefeed/internal/store"
)

// Summary reports what one acquisition run did.
type Summary struct {
	Selected  int
	Published int
	Skipped   int
	// Failed counts episodes left pending for a later retry.
	Failed int
}

// Pipeline moves pending episodes toward a terminal state.
type Pipeline struct {
	store      *store.Store
	downloader ytdlp.Downloader
	prober     ffprobe.Prober
	libraryDir string
	audioExt   string
	batchSize  int
	logger     *slog.Logger
}

// New builds a Pipeline from application configuration.
func New(cfg *config.Config, st *store.Store, downloader ytdlp.Downloader, prober ffprobe.Prober, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:      st,
		downloader: downloader,
		prober:     prober,
		libraryDir: cfg.Paths.LibraryDir,
		audioExt:   cfg.AudioExt(),
		batchSize:  cfg.Acquire.BatchSize,
		logger:     logging.WithComponent(logger, "acquire"),
	}
}

// Run processes up to one batch of pending episodes. A failed download never
// aborts the batch; the episode stays pending and the pipeline moves on.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	pending, err := p.store.SelectForDownload(ctx, p.batchSize)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	summary.Selected = len(pending)
	for _, ep := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		switch outcome, err := p.acquire(ctx, ep); {
		case err != nil:
			summary.Failed++
			p.logger.Warn("acquisition failed",
				slog.String(logging.FieldEpisodeID, ep.ID),
				slog.Any("error", err),
			)
		case outcome == outcomePublished:
			summary.Published++
		default:
			summary.Skipped++
		}
	}

	p.logger.Info("acquisition run finished",
		slog.Int("selected", summary.Selected),
		slog.Int("published", summary.Published),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

type outcome int

const (
	outcomePublished outcome = iota
	outcomeSkipped
)

func (p *Pipeline) acquire(ctx context.Context, ep *store.Episode) (outcome, error) {
	src, err := p.store.GetSource(ctx, ep.SourceID)
	if err != nil {
		return 0, err
	}
	if src == nil {
		return 0, fmt.Errorf("episode %s: %w", ep.ID, store.ErrSourceNotFound)
	}

	staged, err := p.downloader.Download(ctx, ep.ID)
	if err != nil {
		return 0, err
	}
	// yt-dlp exits zero without producing a file for content it refuses
	// outright, live broadcasts among them. Leave the episode pending so a
	// later run picks it up once the content becomes fetchable.
	if !fileutil.FileExists(staged) {
		return 0, fmt.Errorf("download of %s produced no file", ep.ID)
	}

	duration, err := p.prober.DurationSeconds(ctx, staged)
	if err != nil {
		p.logger.Warn("duration probe failed, treating as zero",
			slog.String(logging.FieldEpisodeID, ep.ID),
			slog.Any("error", err),
		)
		duration = 0
	}

	if duration < src.MinLength*60 {
		if err := os.Remove(staged); err != nil {
			return 0, fmt.Errorf("remove rejected download %s: %w", staged, err)
		}
		if err := p.store.MarkSkipped(ctx, ep.ID, duration); err != nil {
			return 0, err
		}
		p.logger.Info("episode skipped by length policy",
			slog.String(logging.FieldEpisodeID, ep.ID),
			slog.Int("duration", duration),
			slog.Int("min_length", src.MinLength),
		)
		return outcomeSkipped, nil
	}

	published := filepath.Join(p.libraryDir, ep.ID+p.audioExt)
	if err := fileutil.MoveFile(staged, published); err != nil {
		return 0, fmt.Errorf("publish %s: %w", ep.ID, err)
	}
	if err := p.store.MarkPublished(ctx, ep.ID, duration); err != nil {
		return 0, err
	}
	p.logger.Info("episode published",
		slog.String(logging.FieldEpisodeID, ep.ID),
		slog.Int("duration", duration),
		slog.String("path", published),
	)
	return outcomePublished, nil
}
