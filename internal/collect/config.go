package collect

import (
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
)

const (
	defaultHTTPTimeout   = 30 * time.Second
	defaultFeedInterval  = time.Second
	defaultLookbackDays  = 365
	defaultCrunchbaseURL = "https://api.crunchbase.com/v4/searches/organizations"
	defaultUserAgent     = "marketintel/1.0"

	maxConcurrentFeeds = 4
	crunchbaseLimit    = 100
	crunchbaseQuery    = "EdTech education technology"
)

type Config struct {
	HTTPTimeout      time.Duration
	FeedInterval     time.Duration
	LookbackDays     int
	FetchFeeds       bool
	CrunchbaseAPIKey string
	CrunchbaseURL    string
	UserAgent        string
}

func DefaultConfig() Config {
	return Config{
		HTTPTimeout:   defaultHTTPTimeout,
		FeedInterval:  defaultFeedInterval,
		LookbackDays:  defaultLookbackDays,
		FetchFeeds:    true,
		CrunchbaseURL: defaultCrunchbaseURL,
		UserAgent:     defaultUserAgent,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	switch {
	case c.HTTPTimeout <= 0:
		return errFactory.WithData(ErrInvalidConfig, struct{ Field string }{"HTTPTimeout"})
	case c.FeedInterval < 0:
		return errFactory.WithData(errors.ErrInvalidInterval, struct{ Field string }{"FeedInterval"})
	case c.LookbackDays <= 0:
		return errFactory.WithData(ErrInvalidConfig, struct{ Field string }{"LookbackDays"})
	case c.CrunchbaseAPIKey != "" && c.CrunchbaseURL == "":
		return errFactory.WithData(ErrInvalidConfig, struct{ Field string }{"CrunchbaseURL"})
	}
	return nil
}
