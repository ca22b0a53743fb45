// Package discovery fetches YouTube channel and playlist Atom feeds and
// converts their entries into candidate episodes for ingestion.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"tubefeed/internal/logging"
	"tubefeed/internal/services"
	"tubefeed/internal/store"
)

const (
	channelFeedURL  = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"
	playlistFeedURL = "https://www.youtube.com/feeds/videos.xml?playlist_id=%s"

	userAgent = "tubefeed/1.0"
)

// RawEpisode is a single feed entry as published by YouTube, before any
// filtering or title cleanup.
type RawEpisode struct {
	VideoID     string
	Title       string
	Description string
	Thumbnail   string
	Published   time.Time
}

// Finder lists the episodes a source currently advertises, newest first as
// YouTube serves them.
type Finder interface {
	Discover(ctx context.Context, kind store.Kind, sourceID string) ([]RawEpisode, error)
}

// Client fetches feeds over HTTP and parses them with gofeed.
type Client struct {
	client  *http.Client
	parser  *gofeed.Parser
	logger  *slog.Logger
	feedURL func(kind store.Kind, sourceID string) (string, error)
}

// New builds a Client with a bounded request timeout.
func New(logger *slog.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		parser:  gofeed.NewParser(),
		logger:  logging.WithComponent(logger, "discovery"),
		feedURL: FeedURL,
	}
}

// FeedURL returns the Atom feed address for a source. YouTube serves channel
// and playlist feeds from the same endpoint under different query parameters.
func FeedURL(kind store.Kind, sourceID string) (string, error) {
	switch kind {
	case store.KindChannel:
		return fmt.Sprintf(channelFeedURL, sourceID), nil
	case store.KindPlaylist:
		return fmt.Sprintf(playlistFeedURL, sourceID), nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "discovery", fmt.Sprintf("unknown source kind %q", kind), nil)
	}
}

// Discover fetches and parses the feed for one source.
func (c *Client) Discover(ctx context.Context, kind store.Kind, sourceID string) ([]RawEpisode, error) {
	url, err := c.feedURL(kind, sourceID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "discovery", "build request for "+sourceID, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "discovery", "fetch feed for "+sourceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "discovery", fmt.Sprintf("fetch feed for %s: HTTP %d", sourceID, resp.StatusCode), nil)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "discovery", "parse feed for "+sourceID, err)
	}

	episodes := convertFeed(feed)
	c.logger.Debug("feed fetched",
		slog.String(logging.FieldSourceID, sourceID),
		slog.Int("entries", len(episodes)),
	)
	return episodes, nil
}

func convertFeed(feed *gofeed.Feed) []RawEpisode {
	episodes := make([]RawEpisode, 0, len(feed.Items))
	for _, item := range feed.Items {
		ep := convertItem(item)
		if ep.VideoID == "" {
			continue
		}
		episodes = append(episodes, ep)
	}
	return episodes
}

// convertItem maps one Atom entry to a RawEpisode. YouTube carries the video
// id in the yt namespace and the thumbnail and long description inside
// media:group.
func convertItem(item *gofeed.Item) RawEpisode {
	ep := RawEpisode{
		VideoID: extensionValue(item.Extensions, "yt", "videoId"),
		Title:   item.Title,
	}

	if item.PublishedParsed != nil {
		ep.Published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		ep.Published = item.UpdatedParsed.UTC()
	}

	if groups, ok := item.Extensions["media"]; ok {
		for _, group := range groups["group"] {
			if desc := firstChild(group, "description"); desc != nil {
				ep.Description = desc.Value
			}
			if thumb := firstChild(group, "thumbnail"); thumb != nil {
				ep.Thumbnail = thumb.Attrs["url"]
			}
		}
	}
	if ep.Description == "" {
		ep.Description = item.Description
	}
	return ep
}

func extensionValue(exts ext.Extensions, namespace, name string) string {
	values, ok := exts[namespace]
	if !ok {
		return ""
	}
	for _, v := range values[name] {
		if v.Value != "" {
			return v.Value
		}
	}
	return ""
}

func firstChild(parent ext.Extension, name string) *ext.Extension {
	children := parent.Children[name]
	if len(children) == 0 {
		return nil
	}
	return &children[0]
}
