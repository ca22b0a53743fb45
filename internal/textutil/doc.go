// Package textutil provides the pure text transforms applied to episode
// metadata at ingestion time: title cleanup (case-insensitive removal of a
// per-source pattern) and case-insensitive substring matching for title
// filters.
//
// All matching is performed on NFC-normalized text so that titles using
// combining characters compare equal to their precomposed forms.
package textutil
