package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFeed()
	c.normalizeAcquire()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFeed() {
	c.Feed.Title = strings.TrimSpace(c.Feed.Title)
	c.Feed.Description = strings.TrimSpace(c.Feed.Description)
	c.Feed.Link = strings.TrimSpace(c.Feed.Link)
	c.Feed.BaseURL = strings.TrimRight(strings.TrimSpace(c.Feed.BaseURL), "/")
	c.Feed.IndexName = strings.TrimSpace(c.Feed.IndexName)
	if c.Feed.IndexName == "" {
		c.Feed.IndexName = defaultFeedIndexName
	}
	if c.Feed.Language == "" {
		c.Feed.Language = defaultFeedLanguage
	}
	if c.Feed.Link == "" {
		c.Feed.Link = c.Feed.BaseURL
	}
}

func (c *Config) normalizeAcquire() {
	if c.Acquire.BatchSize <= 0 {
		c.Acquire.BatchSize = defaultBatchSize
	}
	c.Acquire.AudioFormat = strings.ToLower(strings.TrimSpace(c.Acquire.AudioFormat))
	if c.Acquire.AudioFormat == "" {
		c.Acquire.AudioFormat = defaultAudioFormat
	}
	if c.Acquire.DownloadTimeout <= 0 {
		c.Acquire.DownloadTimeout = defaultDownloadTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
