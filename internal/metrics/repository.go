package metrics

import (
	"os"
	"path/filepath"

	"codeberg.org/mutker/marketintel/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// textfileRepository persists gathered metrics in the node exporter
// textfile format.
type textfileRepository struct {
	path string
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.TextfilePath == "" {
		return nil, errFactory.New(ErrInvalidTextfilePath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.TextfilePath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return &textfileRepository{path: cfg.TextfilePath}, nil
}

func (r *textfileRepository) Write(g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(r.path, g); err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}
	return nil
}
