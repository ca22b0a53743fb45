// Package ffprobe probes downloaded audio files for their playable duration.
package ffprobe

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"tubefeed/internal/config"
	"tubefeed/internal/logging"
	"tubefeed/internal/services"
)

// Prober measures the duration of a media file in whole seconds. Callers
// treat an unknown duration as zero.
type Prober interface {
	DurationSeconds(ctx context.Context, path string) (int, error)
}

// Client invokes the ffprobe binary.
type Client struct {
	binary string
	logger *slog.Logger
}

// New builds a Client from application configuration.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		binary: cfg.FFprobeBinary(),
		logger: logging.WithComponent(logger, "ffprobe"),
	}
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// DurationSeconds executes ffprobe against the provided path and returns the
// container duration truncated to whole seconds.
func (c *Client) DurationSeconds(ctx context.Context, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, services.Wrap(services.ErrConfiguration, "ffprobe", "empty path", nil)
	}

	cmd := exec.CommandContext(ctx, c.binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		c.logger.Debug("ffprobe failed", slog.String("path", path))
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "inspect "+path, err)
	}

	var res probeResult
	if err := json.Unmarshal(output, &res); err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "parse output for "+path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(res.Format.Duration), 64)
	if err != nil || math.IsNaN(seconds) || seconds < 0 {
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "no usable duration for "+path, nil)
	}
	return int(seconds), nil
}
