// Package services defines the shared error taxonomy for the external
// collaborators tubefeed shells out to (yt-dlp, ffprobe) and the feed fetch.
// Sentinel errors let callers route failures per the pipeline rules:
// transient failures are logged and retried on a later run, configuration
// errors are fatal at startup.
package services
