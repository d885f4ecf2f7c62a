package metrics

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	// File system permissions and paths
	defaultDirPerm      = 0o755
	defaultTextfilePath = "data/marketintel.prom"
	defaultNamespace    = "marketintel"
)

type Config struct {
	TextfilePath string
	Namespace    string
	Enabled      bool
}

func DefaultConfig() Config {
	return Config{
		TextfilePath: defaultTextfilePath,
		Namespace:    defaultNamespace,
		Enabled:      false, // Disabled by default
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate the path if metrics is enabled
	if c.Enabled && c.TextfilePath == "" {
		return errFactory.New(ErrInvalidTextfilePath)
	}
	return nil
}
