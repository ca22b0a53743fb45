package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tubefeed/internal/logging"
)

const episodeColumns = "id, source_id, title, description, pub_date, thumbnail, duration, status, created_at, updated_at"

// EpisodeExists reports whether an episode id is already tracked.
func (s *Store) EpisodeExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM episodes WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("episode exists: %w", err)
	}
	return count > 0, nil
}

// InsertEpisode records a newly discovered episode in the pending state.
// Discovery re-scans the same remote feeds every run, so duplicate ids are
// expected: they are logged and dropped, never an error. An insert against
// an unregistered source is rejected by the foreign key and handled the
// same way.
func (s *Store) InsertEpisode(ctx context.Context, ep Episode) error {
	ep.ID = strings.TrimSpace(ep.ID)
	if ep.ID == "" {
		return fmt.Errorf("episode id is required")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (id, source_id, title, description, pub_date, thumbnail, duration, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		ep.ID,
		ep.SourceID,
		strings.TrimSpace(ep.Title),
		strings.TrimSpace(ep.Description),
		ep.PubDate.UTC().Format(time.RFC3339Nano),
		strings.TrimSpace(ep.Thumbnail),
		StatusPending,
		now,
		now,
	)
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		s.logger.Debug("episode already tracked",
			slog.String(logging.FieldEpisodeID, ep.ID))
		return nil
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		s.logger.Warn("episode references unknown source",
			slog.String(logging.FieldEpisodeID, ep.ID),
			slog.String(logging.FieldSourceID, ep.SourceID))
		return nil
	}
	return fmt.Errorf("insert episode: %w", err)
}

// GetEpisode fetches an episode by id, returning nil when absent.
func (s *Store) GetEpisode(ctx context.Context, id string) (*Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = ?`, id)
	ep, err := scanEpisode(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return ep, nil
}

// MarkPublished transitions a pending episode to published and records its
// measured duration. The transition is guarded: any other current state
// leaves the row untouched.
func (s *Store) MarkPublished(ctx context.Context, id string, duration int) error {
	return s.transition(ctx, id, StatusPublished, &duration, StatusPending)
}

// MarkSkipped transitions a pending episode to skipped, recording the
// duration that failed policy. Terminal: the episode is never downloaded
// again and never published.
func (s *Store) MarkSkipped(ctx context.Context, id string, duration int) error {
	return s.transition(ctx, id, StatusSkipped, &duration, StatusPending)
}

// MarkMissing transitions a published episode to missing. Idempotent: a
// second call, or a call against a non-published episode, changes nothing.
func (s *Store) MarkMissing(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusMissing, nil, StatusPublished)
}

// transition performs a guarded single-row state change. The WHERE clause
// carries the allowed source state so an illegal transition degrades to an
// affected-rows count of zero instead of corrupting the record.
func (s *Store) transition(ctx context.Context, id string, to Status, duration *int, from Status) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var (
		res interface{ RowsAffected() (int64, error) }
		err error
	)
	if duration != nil {
		res, err = s.db.ExecContext(ctx,
			`UPDATE episodes SET status = ?, duration = ?, updated_at = ? WHERE id = ? AND status = ?`,
			to, *duration, now, id, from,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE episodes SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			to, now, id, from,
		)
	}
	if err != nil {
		return fmt.Errorf("mark %s: %w", to, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		s.logger.Debug("transition skipped",
			slog.String(logging.FieldEpisodeID, id),
			slog.String("to", string(to)),
			slog.String("required", string(from)))
	}
	return nil
}

// ListEpisodes returns episodes matching the filter ordered by publication
// date ascending (id as tiebreak).
func (s *Store) ListEpisodes(ctx context.Context, filter Filter) ([]*Episode, error) {
	return s.queryEpisodes(ctx, filter, 0)
}

// SelectForDownload returns the un-downloaded backlog bounded to limit,
// earliest published first. Bounding keeps a single run's network and disk
// work finite; the rest of the backlog drains over subsequent runs.
func (s *Store) SelectForDownload(ctx context.Context, limit int) ([]*Episode, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("download batch limit must be positive, got %d", limit)
	}
	return s.queryEpisodes(ctx, Filter{Processed: Bool(false), Present: Bool(false)}, limit)
}

func (s *Store) queryEpisodes(ctx context.Context, filter Filter, limit int) ([]*Episode, error) {
	statuses := filter.Statuses()
	if len(statuses) == 0 {
		return nil, nil
	}

	query := `SELECT ` + episodeColumns + ` FROM episodes`
	var args []any
	if len(statuses) < len(allStatuses) {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY pub_date, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

// Stats returns episode counts per lifecycle state.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM episodes GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("episode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int, len(allStatuses))
	for rows.Next() {
		var (
			statusStr string
			count     int
		)
		if err := rows.Scan(&statusStr, &count); err != nil {
			return nil, err
		}
		if status, ok := ParseStatus(statusStr); ok {
			stats[status] = count
		}
	}
	return stats, rows.Err()
}
