package store

import (
	"strings"
	"time"
)

// Kind distinguishes the two discovery feed shapes a source can have.
type Kind string

const (
	KindChannel  Kind = "channel"
	KindPlaylist Kind = "playlist"
)

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindChannel:
		return KindChannel, true
	case KindPlaylist:
		return KindPlaylist, true
	}
	return "", false
}

// Source is a watched remote origin with its eligibility policy.
type Source struct {
	ID   string
	Kind Kind
	Name string
	// MinLength is the minimum acceptable episode duration in minutes;
	// shorter downloads are skipped permanently.
	MinLength int
	// MustContain restricts ingestion to titles containing this substring
	// (case-insensitive). Empty means no restriction.
	MustContain string
	// TitleRemove is removed (case-insensitively) from raw titles at
	// ingestion time.
	TitleRemove string
	CreatedAt   time.Time
}

// Status represents the lifecycle of an episode.
type Status string

const (
	// StatusPending: discovered, no download decision yet.
	StatusPending Status = "pending"
	// StatusSkipped: downloaded but rejected by policy; never retried,
	// never published.
	StatusSkipped Status = "skipped"
	// StatusPublished: a playable file exists in the library.
	StatusPublished Status = "published"
	// StatusMissing: previously published but the file has disappeared
	// from disk.
	StatusMissing Status = "missing"
)

var allStatuses = []Status{
	StatusPending,
	StatusSkipped,
	StatusPublished,
	StatusMissing,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Processed reports whether a terminal download decision has been made.
func (s Status) Processed() bool {
	return s != StatusPending
}

// Present reports whether a playable file currently exists for the episode.
func (s Status) Present() bool {
	return s == StatusPublished
}

// Episode is one discovered remote media item tracked through download and
// publication. Title and Description are stored post-cleanup and trimmed.
type Episode struct {
	ID          string
	SourceID    string
	Title       string
	Description string
	PubDate     time.Time
	Thumbnail   string
	// Duration in seconds; 0 until measured by the acquisition pipeline.
	Duration  int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Processed reports whether a terminal download decision has been made.
func (e Episode) Processed() bool { return e.Status.Processed() }

// Present reports whether a playable file currently exists on disk.
func (e Episode) Present() bool { return e.Status.Present() }

// Filter selects episodes by the two derived lifecycle flags. A nil field
// means no constraint on that flag. This is the single read path shared by
// the download selector (processed=false) and the feed projector
// (processed=true, present=true).
type Filter struct {
	Processed *bool
	Present   *bool
}

// Statuses resolves the filter to the set of matching states.
func (f Filter) Statuses() []Status {
	matched := make([]Status, 0, len(allStatuses))
	for _, status := range allStatuses {
		if f.Processed != nil && status.Processed() != *f.Processed {
			continue
		}
		if f.Present != nil && status.Present() != *f.Present {
			continue
		}
		matched = append(matched, status)
	}
	return matched
}

// Bool is a convenience for building Filter literals.
func Bool(v bool) *bool { return &v }
