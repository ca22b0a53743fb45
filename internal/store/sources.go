package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tubefeed/internal/logging"
)

const sourceColumns = "id, kind, name, min_length, must_contain, title_remove, created_at"

// ErrSourceNotFound reports an operation against an unregistered source id.
var ErrSourceNotFound = errors.New("source is not registered")

// AddSource registers a new watched source. Registration is idempotent: an
// id that already exists leaves the stored row untouched and is not an
// error.
func (s *Store) AddSource(ctx context.Context, src Source) error {
	src.ID = strings.TrimSpace(src.ID)
	if src.ID == "" {
		return errors.New("source id is required")
	}
	if _, ok := ParseKind(string(src.Kind)); !ok {
		return fmt.Errorf("unknown source kind %q", src.Kind)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sources (id, kind, name, min_length, must_contain, title_remove, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		src.ID,
		src.Kind,
		strings.TrimSpace(src.Name),
		src.MinLength,
		strings.TrimSpace(src.MustContain),
		strings.TrimSpace(src.TitleRemove),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		s.logger.Info("source already registered",
			slog.String(logging.FieldSourceID, src.ID))
	}
	return nil
}

// UpdateSourcePolicy updates the mutable policy fields of a registered
// source; identity (id, kind) is immutable.
func (s *Store) UpdateSourcePolicy(ctx context.Context, src Source) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sources SET name = ?, min_length = ?, must_contain = ?, title_remove = ? WHERE id = ?`,
		strings.TrimSpace(src.Name),
		src.MinLength,
		strings.TrimSpace(src.MustContain),
		strings.TrimSpace(src.TitleRemove),
		strings.TrimSpace(src.ID),
	)
	if err != nil {
		return fmt.Errorf("update source policy: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("source %s: %w", src.ID, ErrSourceNotFound)
	}
	return nil
}

// GetSource fetches a source by id, returning nil when absent.
func (s *Store) GetSource(ctx context.Context, id string) (*Source, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id)
	src, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return src, nil
}

// ListSources returns all registered sources in id order.
func (s *Store) ListSources(ctx context.Context) ([]*Source, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func scanSource(scanner interface{ Scan(dest ...any) error }) (*Source, error) {
	var (
		src        Source
		kindStr    string
		createdRaw string
	)
	if err := scanner.Scan(
		&src.ID,
		&kindStr,
		&src.Name,
		&src.MinLength,
		&src.MustContain,
		&src.TitleRemove,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	src.Kind = Kind(kindStr)
	src.CreatedAt = parseTime(createdRaw)
	return &src, nil
}
