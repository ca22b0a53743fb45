package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanEpisode(scanner interface{ Scan(dest ...any) error }) (*Episode, error) {
	var (
		ep         Episode
		statusStr  string
		pubRaw     string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&ep.ID,
		&ep.SourceID,
		&ep.Title,
		&ep.Description,
		&pubRaw,
		&ep.Thumbnail,
		&ep.Duration,
		&statusStr,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	status, ok := ParseStatus(statusStr)
	if !ok {
		status = StatusPending
	}
	ep.Status = status
	ep.PubDate = parseTime(pubRaw)
	ep.CreatedAt = parseTime(createdRaw)
	ep.UpdatedAt = parseTime(updatedRaw)
	return &ep, nil
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
