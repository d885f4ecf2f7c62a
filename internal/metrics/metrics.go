package metrics

import (
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

type service struct {
	repo     Repository
	cfg      Config
	registry *prometheus.Registry

	feedItems    *prometheus.CounterVec
	feedFailures *prometheus.CounterVec
	rows         *prometheus.GaugeVec
	stageSeconds *prometheus.GaugeVec
	stageErrors  *prometheus.CounterVec
	lastRun      prometheus.Gauge
}

// No-op implementation
type noopRecorder struct{}

// Nop returns a Recorder that discards everything.
func Nop() Recorder {
	return &noopRecorder{}
}

func NewService(cfg Config) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If metrics is disabled, return a no-op recorder
	if !cfg.Enabled {
		logger.Debug().Msg("Run metrics disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to create metrics repository")
		return nil, err
	}

	s, err := newService(cfg, repo)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("textfile", cfg.TextfilePath).
		Bool("enabled", cfg.Enabled).
		Msg("Metrics service initialized successfully")

	return s, nil
}

func newService(cfg Config, repo Repository) (*service, error) {
	ns := cfg.Namespace
	if ns == "" {
		ns = defaultNamespace
	}

	s := &service{
		repo:     repo,
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		feedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "feed_items_total", Help: "Feed entries fetched per source.",
		}, []string{"source"}),
		feedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "feed_failures_total", Help: "Failed feed fetches per source.",
		}, []string{"source"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "table_rows", Help: "Rows produced per table family in the last run.",
		}, []string{"family"}),
		stageSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "stage_duration_seconds", Help: "Wall time of the last run of each stage.",
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "stage_errors_total", Help: "Failed stage runs.",
		}, []string{"stage"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "last_run_timestamp_seconds", Help: "Unix time the recorder was closed.",
		}),
	}

	for _, c := range []prometheus.Collector{s.feedItems, s.feedFailures, s.rows, s.stageSeconds, s.stageErrors, s.lastRun} {
		if err := s.registry.Register(c); err != nil {
			return nil, errors.New().Wrap(ErrRegisterFailed, err)
		}
	}

	return s, nil
}

func (s *service) FeedFetched(source string, items int) {
	s.feedItems.WithLabelValues(source).Add(float64(items))
}

func (s *service) FeedFailed(source string) {
	s.feedFailures.WithLabelValues(source).Inc()
}

func (s *service) RowsProduced(family string, rows int) {
	s.rows.WithLabelValues(family).Set(float64(rows))
}

func (s *service) StageCompleted(stage string, elapsed time.Duration, err error) {
	s.stageSeconds.WithLabelValues(stage).Set(elapsed.Seconds())
	if err != nil {
		s.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (s *service) Close() error {
	errFactory := errors.New()

	s.lastRun.SetToCurrentTime()
	if err := s.repo.Write(s.registry); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}

// No-op implementation
func (*noopRecorder) FeedFetched(_ string, _ int) {}

func (*noopRecorder) FeedFailed(_ string) {}

func (*noopRecorder) RowsProduced(_ string, _ int) {}

func (*noopRecorder) StageCompleted(_ string, _ time.Duration, _ error) {}

func (*noopRecorder) Close() error {
	return nil
}
