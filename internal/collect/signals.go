package collect

import (
	"context"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/classify"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

// Signals collects the curated policy, news and adoption signals plus recent
// items from the news feeds, most recent first.
func (c *Collector) Signals(ctx context.Context) []observation.Signal {
	signals := append([]observation.Signal(nil), curatedSignals...)

	if c.cfg.FetchFeeds {
		for _, res := range c.fetchAll(ctx, c.newsSources) {
			if res.err != nil {
				continue
			}
			signals = append(signals, c.feedSignals(res)...)
		}
	} else {
		c.log.Info().Msg("Feed fetching disabled, using curated signals only")
	}

	signals = aggregate.SortByDate(signals)
	c.log.Info().Int("rows", len(signals)).Msg("Collected context signals")
	return signals
}

func (c *Collector) feedSignals(res feedResult) []observation.Signal {
	var signals []observation.Signal
	for _, item := range recentItems(res.feed, c.cutoff()) {
		published, _ := entryTime(item)
		text := item.Title + " " + classify.StripHTML(item.Description)

		link := item.Link
		if link == "" {
			link = res.source.URL
		}

		signals = append(signals, observation.Signal{
			Date:       observation.FormatDate(published.UTC()),
			Type:       taxonomy.News,
			Title:      item.Title,
			Summary:    classify.Summarize(item.Title, item.Description, classify.SummaryLength),
			Category:   c.classifier.Classify(text),
			Sentiment:  c.classifier.Sentiment(text),
			SourceName: res.source.Name,
			SourceURL:  link,
		})
	}
	return signals
}
