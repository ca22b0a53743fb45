package textutil_test

import (
	"testing"

	"tubefeed/internal/textutil"
)

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		pattern string
		want    string
	}{
		{"no pattern trims", "  Episode 12  ", "", "Episode 12"},
		{"exact removal", "Weekly Show - Episode 12", "Weekly Show - ", "Episode 12"},
		{"case insensitive", "WEEKLY show - Episode 12", "weekly SHOW - ", "Episode 12"},
		{"all occurrences", "[live] Intro [LIVE] Outro", "[live]", "Intro Outro"},
		{"collapses interior gaps", "Show   Episode", "Show", "Episode"},
		{"pattern absent", "Plain Title", "missing", "Plain Title"},
		{"pattern is whole title", "Noise", "noise", ""},
		{"unicode fold", "CafÉ Hour: News", "café hour:", "News"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := textutil.CleanTitle(tc.raw, tc.pattern)
			if got != tc.want {
				t.Fatalf("CleanTitle(%q, %q) = %q, want %q", tc.raw, tc.pattern, got, tc.want)
			}
		})
	}
}

func TestCleanTitleAppliedTwiceIsStable(t *testing.T) {
	once := textutil.CleanTitle("Show - Episode 1", "show - ")
	twice := textutil.CleanTitle(once, "show - ")
	if once != twice {
		t.Fatalf("cleanup not stable: %q vs %q", once, twice)
	}
}

func TestContainsFold(t *testing.T) {
	cases := []struct {
		s      string
		substr string
		want   bool
	}{
		{"Morning News Roundup", "news", true},
		{"Morning News Roundup", "NEWS ROUND", true},
		{"Morning News Roundup", "sports", false},
		{"anything", "", true},
		{"", "x", false},
	}
	for _, tc := range cases {
		if got := textutil.ContainsFold(tc.s, tc.substr); got != tc.want {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", tc.s, tc.substr, got, tc.want)
		}
	}
}
