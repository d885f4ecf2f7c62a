package collect

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// FeedFetcher retrieves and parses one RSS or Atom feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

type gofeedFetcher struct {
	client    *http.Client
	userAgent string
}

// NewFeedFetcher returns a FeedFetcher backed by gofeed.
func NewFeedFetcher(client *http.Client, userAgent string) FeedFetcher {
	return &gofeedFetcher{client: client, userAgent: userAgent}
}

func (f *gofeedFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	// Parsers keep per-document state, so each fetch gets its own.
	p := gofeed.NewParser()
	p.Client = f.client
	p.UserAgent = f.userAgent

	feed, err := p.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, errors.New().Wrap(ErrFeedFetch, err)
	}
	return feed, nil
}

type feedResult struct {
	source Source
	feed   *gofeed.Feed
	err    error
}

// fetchAll fetches the feed of every source concurrently, paced by the rate
// limiter. Results keep the order of sources; failures are reported per
// source and never abort the others.
func (c *Collector) fetchAll(ctx context.Context, sources []Source) []feedResult {
	results := make([]feedResult, len(sources))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFeeds)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = c.fetchOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Collector) fetchOne(ctx context.Context, src Source) feedResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return feedResult{source: src, err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.HTTPTimeout)
	defer cancel()

	c.log.Info().Str("source", src.Name).Msg("Fetching feed")
	feed, err := c.feeds.Fetch(ctx, src.FeedURL)
	if err != nil {
		c.recorder.FeedFailed(src.Name)
		c.log.Warn().Err(err).Str("source", src.Name).Msg("Feed unavailable, continuing without it")
		return feedResult{source: src, err: err}
	}

	c.recorder.FeedFetched(src.Name, len(feed.Items))
	c.log.Debug().Str("source", src.Name).Int("items", len(feed.Items)).Msg("Feed fetched")
	return feedResult{source: src, feed: feed}
}

// entryTime is the publication time of an item, falling back to its update
// time. Items with neither are skipped by callers.
func entryTime(item *gofeed.Item) (time.Time, bool) {
	switch {
	case item.PublishedParsed != nil:
		return *item.PublishedParsed, true
	case item.UpdatedParsed != nil:
		return *item.UpdatedParsed, true
	default:
		return time.Time{}, false
	}
}

// recentItems returns the items of feed published at or after cutoff.
func recentItems(feed *gofeed.Feed, cutoff time.Time) []*gofeed.Item {
	var items []*gofeed.Item
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		if t, ok := entryTime(item); ok && !t.Before(cutoff) {
			items = append(items, item)
		}
	}
	return items
}
