package services_test

import (
	"errors"
	"fmt"
	"testing"

	"tubefeed/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "ytdlp", "download", base)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "discovery", "fetch", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient default: %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{services.Wrap(services.ErrExternalTool, "ytdlp", "download", nil), true},
		{services.Wrap(services.ErrTransient, "discovery", "fetch", nil), true},
		{services.Wrap(services.ErrNotFound, "acquire", "staged file", nil), true},
		{services.Wrap(services.ErrConfiguration, "config", "load", nil), false},
		{errors.New("plain"), false},
	}
	for _, tc := range cases {
		if got := services.IsTransient(tc.err); got != tc.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
