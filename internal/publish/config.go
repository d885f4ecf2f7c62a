package publish

import (
	"net/url"
	"strings"

	"codeberg.org/mutker/marketintel/internal/errors"
)

const (
	defaultRegion = "us-east-1"
	defaultPrefix = "marketintel/"
)

// Config addresses an S3-compatible bucket. An empty Bucket disables
// publishing.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
	PathStyle bool
}

func DefaultConfig() Config {
	return Config{
		Region: defaultRegion,
		Prefix: defaultPrefix,
	}
}

func (c Config) Enabled() bool {
	return c.Bucket != ""
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled() {
		return nil
	}
	if c.Region == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "region is required when a bucket is set")
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errFactory.WithData(ErrInvalidConfig, struct {
				Endpoint string
			}{c.Endpoint})
		}
	}
	if strings.HasPrefix(c.Prefix, "/") {
		return errFactory.WithMessage(ErrInvalidConfig, "prefix must be relative")
	}

	return nil
}
