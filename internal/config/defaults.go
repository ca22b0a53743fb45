package config

const (
	defaultStagingDir      = "~/.local/share/tubefeed/staging"
	defaultLibraryDir      = "~/.local/share/tubefeed/library"
	defaultDataDir         = "~/.local/share/tubefeed"
	defaultFeedTitle       = "tubefeed"
	defaultFeedDescription = "Audio feed generated by tubefeed"
	defaultFeedIndexName   = "index.rss"
	defaultFeedLanguage    = "en"
	defaultBatchSize       = 5
	defaultAudioFormat     = "m4a"
	defaultDownloadTimeout = 900
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LibraryDir: defaultLibraryDir,
			DataDir:    defaultDataDir,
		},
		Feed: Feed{
			Title:       defaultFeedTitle,
			Description: defaultFeedDescription,
			IndexName:   defaultFeedIndexName,
			Language:    defaultFeedLanguage,
		},
		Acquire: Acquire{
			BatchSize:       defaultBatchSize,
			AudioFormat:     defaultAudioFormat,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
