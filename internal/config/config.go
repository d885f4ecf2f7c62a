package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix     = "MARKETINTEL"
	DefaultConfigName    = "marketintel"
	DefaultDataDir       = "data"
	DefaultWorkbook      = "dashboard_v1.xlsx"
	DefaultLogLevel      = "info"
	DefaultLookbackDays  = 365
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultFeedInterval  = time.Second
	DefaultTopSignals    = 3
	DefaultContextRows   = 50
	DefaultPreviewPort   = 8000
	DefaultPreviewEntry  = "index.html"
	DefaultMetricsFile   = "marketintel.prom"
	DefaultRegion        = "us-east-1"
	DefaultPublishPrefix = "marketintel/"
)

type Config struct {
	DataDir          string              `mapstructure:"data_dir"`
	Workbook         string              `mapstructure:"workbook"`
	LogLevel         string              `mapstructure:"log_level"`
	LookbackDays     int                 `mapstructure:"lookback_days"`
	HTTPTimeout      time.Duration       `mapstructure:"http_timeout"`
	FeedInterval     time.Duration       `mapstructure:"feed_interval"`
	FetchFeeds       bool                `mapstructure:"fetch_feeds"`
	TopSignals       int                 `mapstructure:"top_signals"`
	ContextRows      int                 `mapstructure:"context_rows"`
	CrunchbaseAPIKey string              `mapstructure:"crunchbase_api_key"`
	Keywords         map[string][]string `mapstructure:"keywords"`
	Preview          PreviewConfig       `mapstructure:"preview"`
	Metrics          MetricsConfig       `mapstructure:"metrics"`
	Publish          PublishConfig       `mapstructure:"publish"`
}

type PreviewConfig struct {
	Port        int    `mapstructure:"port"`
	Dir         string `mapstructure:"dir"`
	Entry       string `mapstructure:"entry"`
	OpenBrowser bool   `mapstructure:"open_browser"`
}

type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

type PublishConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	Prefix    string `mapstructure:"prefix"`
	PathStyle bool   `mapstructure:"path_style"`
}

// Load reads configuration from defaults, an optional TOML file and the
// environment, in increasing order of precedence.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(o)
	}
	if o.configPath == "" {
		o.configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("crunchbase_api_key", o.envPrefix+"_CRUNCHBASE_API_KEY", "CRUNCHBASE_API_KEY"); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if o.configPath != "" {
		v.SetConfigFile(o.configPath)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/marketintel")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if cfg.Preview.Dir == "" {
		cfg.Preview.Dir = cfg.DataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("workbook", DefaultWorkbook)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("lookback_days", DefaultLookbackDays)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("feed_interval", DefaultFeedInterval)
	v.SetDefault("fetch_feeds", true)
	v.SetDefault("top_signals", DefaultTopSignals)
	v.SetDefault("context_rows", DefaultContextRows)
	v.SetDefault("crunchbase_api_key", "")
	v.SetDefault("preview.port", DefaultPreviewPort)
	v.SetDefault("preview.dir", "")
	v.SetDefault("preview.entry", DefaultPreviewEntry)
	v.SetDefault("preview.open_browser", true)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", DefaultMetricsFile)
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.region", DefaultRegion)
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.prefix", DefaultPublishPrefix)
	v.SetDefault("publish.path_style", false)
}

// Validate checks the loaded values. The first problem found is returned.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, FieldError{
			Field: "log_level", Value: c.LogLevel, Reason: "must be one of debug, info, warning, error",
		})
	}

	invalid := func(field string, value any, reason string) error {
		return errFactory.WithData(errors.ErrInvalidConfig, FieldError{Field: field, Value: value, Reason: reason})
	}

	switch {
	case strings.TrimSpace(c.DataDir) == "":
		return invalid("data_dir", c.DataDir, "must not be empty")
	case strings.TrimSpace(c.Workbook) == "":
		return invalid("workbook", c.Workbook, "must not be empty")
	case c.LookbackDays <= 0:
		return invalid("lookback_days", c.LookbackDays, "must be positive")
	case c.HTTPTimeout <= 0:
		return invalid("http_timeout", c.HTTPTimeout, "must be positive")
	case c.FeedInterval < 0:
		return errFactory.WithData(errors.ErrInvalidInterval, FieldError{
			Field: "feed_interval", Value: c.FeedInterval, Reason: "must not be negative",
		})
	case c.TopSignals <= 0:
		return invalid("top_signals", c.TopSignals, "must be positive")
	case c.ContextRows <= 0:
		return invalid("context_rows", c.ContextRows, "must be positive")
	case c.Preview.Port <= 0 || c.Preview.Port > 65535:
		return invalid("preview.port", c.Preview.Port, "must be a valid TCP port")
	case c.Preview.Entry == "":
		return invalid("preview.entry", c.Preview.Entry, "must not be empty")
	case c.Metrics.Enabled && c.Metrics.Textfile == "":
		return invalid("metrics.textfile", c.Metrics.Textfile, "required when metrics are enabled")
	case c.Publish.Bucket != "" && c.Publish.Region == "":
		return invalid("publish.region", c.Publish.Region, "required when publishing")
	}

	return nil
}
