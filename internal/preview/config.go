package preview

import (
	"os"
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
)

const (
	DefaultPort  = 8000
	DefaultEntry = "index.html"

	defaultShutdownTimeout   = 5 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

type Config struct {
	Host            string
	Port            int
	Dir             string
	Entry           string
	OpenBrowser     bool
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Port:            DefaultPort,
		Dir:             "data",
		Entry:           DefaultEntry,
		OpenBrowser:     true,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Port < 0 || c.Port > 65535 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			Port int
		}{c.Port})
	}
	info, err := os.Stat(c.Dir)
	if err != nil {
		return errFactory.Wrap(ErrInvalidConfig, err).WithMessage("preview directory " + c.Dir + " does not exist")
	}
	if !info.IsDir() {
		return errFactory.WithMessage(ErrInvalidConfig, c.Dir+" is not a directory")
	}
	if c.ShutdownTimeout <= 0 {
		return errFactory.WithMessage(ErrInvalidConfig, "shutdown timeout must be positive")
	}

	return nil
}
