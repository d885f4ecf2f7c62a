// Package collect gathers market, vendor and signal rows from curated
// records and optional network sources.
package collect

import (
	"net/http"
	"time"

	"codeberg.org/mutker/marketintel/internal/classify"
	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"codeberg.org/mutker/marketintel/internal/metrics"
	"codeberg.org/mutker/marketintel/internal/observation"
	"golang.org/x/time/rate"
)

// Collector produces the rows of each table family. A failed network source
// only reduces the rows produced.
type Collector struct {
	cfg        Config
	classifier *classify.Classifier
	client     *http.Client
	feeds      FeedFetcher
	limiter    *rate.Limiter
	recorder   metrics.Recorder
	log        logger.Logger
	now        func() time.Time

	vendorSources []Source
	newsSources   []Source
}

type Option func(*Collector)

// WithHTTPClient sets the client used for API calls and, unless a fetcher
// is given, for feeds.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Collector) {
		c.client = client
	}
}

func WithFeedFetcher(f FeedFetcher) Option {
	return func(c *Collector) {
		c.feeds = f
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(c *Collector) {
		c.recorder = r
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Collector) {
		c.log = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

func WithVendorSources(sources []Source) Option {
	return func(c *Collector) {
		c.vendorSources = sources
	}
}

func WithNewsSources(sources []Source) Option {
	return func(c *Collector) {
		c.newsSources = sources
	}
}

func New(cfg Config, classifier *classify.Classifier, opts ...Option) (*Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.New().Wrap(ErrInvalidConfig, err)
	}

	c := &Collector{
		cfg:           cfg,
		classifier:    classifier,
		recorder:      metrics.Nop(),
		log:           logger.Get().With("collect"),
		now:           time.Now,
		vendorSources: DefaultVendorSources(),
		newsSources:   DefaultNewsSources(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.classifier == nil {
		c.classifier = classify.New(nil)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if c.feeds == nil {
		c.feeds = NewFeedFetcher(c.client, cfg.UserAgent)
	}

	limit := rate.Inf
	if cfg.FeedInterval > 0 {
		limit = rate.Every(cfg.FeedInterval)
	}
	c.limiter = rate.NewLimiter(limit, 1)

	return c, nil
}

func (c *Collector) today() string {
	return observation.FormatDate(c.now())
}

// cutoff is the start of the lookback window.
func (c *Collector) cutoff() time.Time {
	return c.now().AddDate(0, 0, -c.cfg.LookbackDays)
}
