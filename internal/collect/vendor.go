package collect

import (
	"context"

	"codeberg.org/mutker/marketintel/internal/classify"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

type announcementCounts struct {
	announcements int
	initiatives   int
}

// Vendors collects the vendor family. For each vendor whose feed could be
// read it emits per-category announcement and initiative counts plus an
// estimated cumulative count; curated user reach rows are always emitted.
func (c *Collector) Vendors(ctx context.Context) *observation.Store {
	store := observation.NewStore(observation.VendorFamily)
	tax := c.classifier.Taxonomy()
	asOf := c.today()

	var results []feedResult
	if c.cfg.FetchFeeds {
		results = c.fetchAll(ctx, c.vendorSources)
	} else {
		c.log.Info().Msg("Feed fetching disabled, skipping vendor announcements")
	}

	feedRows := make(map[taxonomy.Vendor][]observation.Observation)
	for _, res := range results {
		if res.err != nil {
			continue
		}
		feedRows[res.source.Vendor] = append(feedRows[res.source.Vendor],
			c.announcementRows(tax, res, asOf)...)
	}

	for _, v := range tax.Vendors() {
		store.Append(feedRows[v]...)
		for _, f := range curatedReach {
			if f.vendor == v {
				store.Append(f.observation(asOf, true))
			}
		}
	}

	c.log.Info().Int("rows", store.Len()).Msg("Collected vendor rows")
	return store
}

func (c *Collector) announcementRows(tax *taxonomy.Taxonomy, res feedResult, asOf string) []observation.Observation {
	vendor := res.source.Vendor
	counts := make(map[taxonomy.Category]*announcementCounts)
	for _, cat := range tax.Categories() {
		counts[cat] = &announcementCounts{}
	}

	for _, item := range recentItems(res.feed, c.cutoff()) {
		text := item.Title + " " + classify.StripHTML(item.Description)
		cat := c.classifier.Classify(text)
		if cat == taxonomy.None {
			continue
		}
		counts[cat].announcements++
		if c.classifier.IsInitiative(vendor, text) {
			counts[cat].initiatives++
		}
	}

	row := func(cat taxonomy.Category, metric string, value int, estimated bool, notes string) observation.Observation {
		return observation.Observation{
			Vendor:     vendor,
			Category:   cat,
			Metric:     metric,
			Value:      observation.Some(float64(value)),
			Unit:       observation.UnitCount,
			AsOf:       asOf,
			Estimated:  estimated,
			SourceName: res.source.Name,
			SourceURL:  res.source.FeedURL,
			Notes:      notes,
		}
	}

	var rows []observation.Observation
	for _, cat := range tax.Categories() {
		n := counts[cat]
		rows = append(rows,
			row(cat, observation.AnnouncementsCount, n.announcements, false,
				"Education-related announcements from "+vendor.Title()),
			row(cat, observation.NewInitiatives, n.initiatives, false,
				"New education initiatives from "+vendor.Title()),
			row(cat, observation.CumulativeInitiatives, n.initiatives+tax.Baseline(vendor), true,
				"Estimated cumulative initiatives (historical baseline added)"),
		)
	}

	return rows
}
