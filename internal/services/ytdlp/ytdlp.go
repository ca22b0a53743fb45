// Package ytdlp shells out to yt-dlp to fetch the best available audio for a
// video id and extract it into the staging directory.
package ytdlp

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"tubefeed/internal/config"
	"tubefeed/internal/logging"
	"tubefeed/internal/services"
)

// Downloader fetches audio for a single episode id into a staging directory
// and returns the path the file is expected at. Implementations report
// failure for content yt-dlp refuses to fetch (live broadcasts among them);
// some refusals surface as success with no output file, which callers must
// treat the same way.
type Downloader interface {
	Download(ctx context.Context, videoID string) (string, error)
}

const watchURL = "https://www.youtube.com/watch?v=%s"

// Client invokes the yt-dlp binary.
type Client struct {
	binary     string
	stagingDir string
	format     string
	timeout    time.Duration
	logger     *slog.Logger
}

// New builds a Client from application configuration.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		binary:     cfg.YtDlpBinary(),
		stagingDir: cfg.Paths.StagingDir,
		format:     cfg.Acquire.AudioFormat,
		timeout:    time.Duration(cfg.Acquire.DownloadTimeout) * time.Second,
		logger:     logging.WithComponent(logger, "ytdlp"),
	}
}

// Download runs yt-dlp for the given video id. On success it returns the
// path the extracted audio is expected at; the caller verifies presence
// because yt-dlp exits zero for intentionally skipped content.
func (c *Client) Download(ctx context.Context, videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", services.Wrap(services.ErrConfiguration, "ytdlp", "empty video id", nil)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	outputTemplate := filepath.Join(c.stagingDir, "%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, c.binary,
		"--extract-audio",
		"--audio-format", c.format,
		"--no-progress",
		"--output", outputTemplate,
		fmt.Sprintf(watchURL, videoID),
	)

	started := time.Now()
	output, err := cmd.CombinedOutput()
	if err != nil {
		c.logger.Debug("yt-dlp failed",
			slog.String(logging.FieldEpisodeID, videoID),
			slog.String("output", tail(string(output), 400)),
		)
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download "+videoID, err)
	}

	c.logger.Debug("yt-dlp finished",
		slog.String(logging.FieldEpisodeID, videoID),
		slog.Duration("elapsed", time.Since(started)),
	)
	return filepath.Join(c.stagingDir, videoID+"."+c.format), nil
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return "..." + s[len(s)-limit:]
}
