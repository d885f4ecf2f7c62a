package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder defines the run metrics domain interface
type Recorder interface {
	FeedFetched(source string, items int)
	FeedFailed(source string)
	RowsProduced(family string, rows int)
	StageCompleted(stage string, elapsed time.Duration, err error)
	Close() error
}

// Repository defines the interface for metrics storage
type Repository interface {
	Write(g prometheus.Gatherer) error
}
