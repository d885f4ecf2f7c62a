package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"codeberg.org/mutker/marketintel/internal/classify"
	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

const crunchbaseSourceURL = "https://www.crunchbase.com"

type crunchbaseResponse struct {
	Entities []crunchbaseEntity `json:"entities"`
}

type crunchbaseEntity struct {
	Properties struct {
		ShortDescription string `json:"short_description"`
		Description      string `json:"description"`
		FundingTotal     struct {
			ValueUSD float64 `json:"value_usd"`
		} `json:"funding_total"`
		NumFundingRounds int `json:"num_funding_rounds"`
	} `json:"properties"`
}

// categoryTotals accumulates organization figures for one category.
type categoryTotals struct {
	organizations int
	funding       float64
	rounds        int
	users         [3]int64
}

// Market collects the market family: Crunchbase rows first when an API key
// is configured, then the curated rows. API values therefore win lookups.
func (c *Collector) Market(ctx context.Context) *observation.Store {
	store := observation.NewStore(observation.MarketFamily)

	if c.cfg.CrunchbaseAPIKey == "" {
		c.log.Info().Msg("No Crunchbase API key found, skipping Crunchbase data")
	} else {
		rows, err := c.crunchbase(ctx)
		if err != nil {
			c.recorder.FeedFailed("Crunchbase API")
			c.log.Warn().Err(err).Msg("Crunchbase unavailable, continuing with curated data")
		} else {
			c.recorder.FeedFetched("Crunchbase API", len(rows))
			store.Append(rows...)
		}
	}

	asOf := c.today()
	for _, f := range curatedMarket {
		store.Append(f.observation(asOf, false))
	}

	c.log.Info().Int("rows", store.Len()).Msg("Collected market rows")
	return store
}

func (c *Collector) crunchbase(ctx context.Context) ([]observation.Observation, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.HTTPTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("query", crunchbaseQuery)
	q.Set("limit", strconv.Itoa(crunchbaseLimit))
	q.Set("updated_since", observation.FormatDate(c.cutoff()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.CrunchbaseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, errFactory.Wrap(ErrCrunchbaseFetch, err)
	}
	req.Header.Set("X-cb-user-key", c.cfg.CrunchbaseAPIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.log.Info().Msg("Fetching data from Crunchbase API")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errFactory.Wrap(ErrCrunchbaseFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errFactory.WithData(ErrCrunchbaseStatus, struct{ Status int }{resp.StatusCode})
	}

	var body crunchbaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errFactory.Wrap(ErrCrunchbaseDecode, err)
	}

	return c.crunchbaseRows(body.Entities), nil
}

// crunchbaseRows classifies organizations by description and sums their
// figures per category. Unclassified organizations are dropped.
func (c *Collector) crunchbaseRows(entities []crunchbaseEntity) []observation.Observation {
	totals := make(map[taxonomy.Category]*categoryTotals)
	for _, e := range entities {
		text := e.Properties.ShortDescription + " " + e.Properties.Description
		cat := c.classifier.Classify(text)
		if cat == taxonomy.None {
			continue
		}

		t, ok := totals[cat]
		if !ok {
			t = &categoryTotals{}
			totals[cat] = t
		}
		t.organizations++
		t.funding += e.Properties.FundingTotal.ValueUSD
		t.rounds += e.Properties.NumFundingRounds

		users := classify.ExtractUserMetrics(text)
		t.users[0] += users.Students
		t.users[1] += users.Teachers
		t.users[2] += users.Institutions
	}

	asOf := c.today()
	var rows []observation.Observation
	for _, cat := range taxonomy.Categories() {
		t, ok := totals[cat]
		if !ok {
			continue
		}

		notes := fmt.Sprintf("Sum over %d organizations from Crunchbase search", t.organizations)
		add := func(metric string, value float64, unit string) {
			rows = append(rows, observation.Observation{
				Category:   cat,
				Metric:     metric,
				Value:      observation.Some(value),
				Unit:       unit,
				AsOf:       asOf,
				SourceName: "Crunchbase API",
				SourceURL:  crunchbaseSourceURL,
				Notes:      notes,
			})
		}

		add(observation.FundingTotal, t.funding, observation.UnitUSD)
		add(observation.DealsCount, float64(t.rounds), observation.UnitCount)
		for i, metric := range []string{observation.UsersStudents, observation.UsersTeachers, observation.UsersInstitutions} {
			if t.users[i] > 0 {
				add(metric, float64(t.users[i]), observation.UnitCount)
			}
		}
	}

	return rows
}
