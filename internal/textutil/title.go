package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanTitle removes every case-insensitive occurrence of pattern from raw
// and trims surrounding whitespace. Interior runs of whitespace left behind
// by a removal are collapsed to a single space. An empty pattern leaves the
// title untouched apart from trimming.
func CleanTitle(raw, pattern string) string {
	title := norm.NFC.String(raw)
	pattern = norm.NFC.String(strings.TrimSpace(pattern))

	if pattern != "" {
		title = removeFold(title, pattern)
	}
	return strings.Join(strings.Fields(title), " ")
}

// ContainsFold reports whether s contains substr ignoring case. An empty
// substr always matches.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	s = norm.NFC.String(s)
	substr = norm.NFC.String(substr)
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// removeFold strips every case-insensitive occurrence of pattern from s.
// Offsets are computed on lowercased copies; when lowercasing changes byte
// lengths (a handful of exotic runes) it degrades to exact removal rather
// than risking mis-aligned slicing.
func removeFold(s, pattern string) string {
	lower := strings.ToLower(s)
	lowerPat := strings.ToLower(pattern)
	if len(lower) != len(s) || len(lowerPat) != len(pattern) {
		return strings.ReplaceAll(s, pattern, "")
	}

	var b strings.Builder
	for {
		idx := strings.Index(lower, lowerPat)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		s = s[idx+len(pattern):]
		lower = lower[idx+len(lowerPat):]
	}
}
