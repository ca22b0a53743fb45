package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. Any failure here is fatal at
// startup; no command runs against a half-formed config.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateAcquire(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.StagingDir == c.Paths.LibraryDir {
		return errors.New("paths.staging_dir and paths.library_dir must differ; the length policy removes staged files")
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tubefeed/config.toml"
		}
		return fmt.Errorf("feed.base_url is required. Edit %s (create with 'tubefeed config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Feed.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("feed.base_url %q is not an absolute URL", c.Feed.BaseURL)
	}
	if c.Feed.Title == "" {
		return errors.New("feed.title must be set")
	}
	return nil
}

func (c *Config) validateAcquire() error {
	switch c.Acquire.AudioFormat {
	case "m4a", "mp3":
	default:
		return fmt.Errorf("acquire.audio_format %q is unsupported (use m4a or mp3)", c.Acquire.AudioFormat)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is unsupported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is unsupported", c.Logging.Level)
	}
	return nil
}
