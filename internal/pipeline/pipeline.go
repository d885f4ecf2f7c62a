// Package pipeline runs the collect and build stages against a data
// directory.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"codeberg.org/mutker/marketintel/internal/metrics"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/pid"
	"codeberg.org/mutker/marketintel/internal/publish"
	"codeberg.org/mutker/marketintel/internal/report"
	"codeberg.org/mutker/marketintel/internal/table"
	"github.com/google/uuid"
)

// Collector produces the rows of each table family.
type Collector interface {
	Market(ctx context.Context) *observation.Store
	Vendors(ctx context.Context) *observation.Store
	Signals(ctx context.Context) []observation.Signal
}

// Renderer writes the report artifacts.
type Renderer interface {
	Render(in *report.Input) (report.Artifacts, error)
}

// Summary counts what a run produced.
type Summary struct {
	RunID      string
	Stages     []Stage
	MarketRows int
	VendorRows int
	Signals    int
	Artifacts  report.Artifacts
	Published  []publish.Object
}

type Pipeline struct {
	dataDir   string
	collector Collector
	renderer  Renderer
	engine    *aggregate.Engine
	publisher publish.Publisher
	recorder  metrics.Recorder
	log       logger.Logger
	now       func() time.Time
	newID     func() string
}

type Option func(*Pipeline)

func WithEngine(e *aggregate.Engine) Option {
	return func(p *Pipeline) {
		p.engine = e
	}
}

func WithPublisher(pub publish.Publisher) Option {
	return func(p *Pipeline) {
		p.publisher = pub
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithRunID fixes the run id instead of generating one per run.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		p.newID = func() string { return id }
	}
}

func New(dataDir string, collector Collector, renderer Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		dataDir:   dataDir,
		collector: collector,
		renderer:  renderer,
		publisher: publish.Nop(),
		recorder:  metrics.Nop(),
		log:       logger.Get(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.engine == nil {
		p.engine = aggregate.New(nil, aggregate.WithClock(p.now))
	}
	p.log = p.log.With("pipeline")

	return p
}

func (p *Pipeline) path(name string) string {
	return filepath.Join(p.dataDir, name)
}

// Run executes stage while holding the data directory's run lock.
func (p *Pipeline) Run(ctx context.Context, stage Stage) (*Summary, error) {
	if err := pid.Write(p.dataDir); err != nil {
		return nil, err
	}
	defer func() {
		if err := pid.Remove(p.dataDir); err != nil {
			p.log.Warn().Err(err).Msg("Failed to remove run lock")
		}
	}()

	sum := &Summary{RunID: p.newID()}

	for _, s := range stage.expand() {
		if err := ctx.Err(); err != nil {
			return sum, errors.New().Wrap(ErrCancelled, err)
		}

		p.log.Info().Str("run_id", sum.RunID).Str("stage", string(s)).Msg("Starting stage")
		start := time.Now()
		err := p.runStage(ctx, s, sum)
		p.recorder.StageCompleted(string(s), time.Since(start), err)
		if err != nil {
			return sum, err
		}
		sum.Stages = append(sum.Stages, s)
	}

	p.log.Info().
		Str("run_id", sum.RunID).
		Int("market_rows", sum.MarketRows).
		Int("vendor_rows", sum.VendorRows).
		Int("signals", sum.Signals).
		Msg("Run complete")

	return sum, nil
}

func (p *Pipeline) runStage(ctx context.Context, s Stage, sum *Summary) error {
	switch s {
	case StageMarket:
		n, err := p.collectFamily(p.collector.Market(ctx), table.MarketFile, table.WriteMarket)
		sum.MarketRows = n
		return err
	case StageVendors:
		n, err := p.collectFamily(p.collector.Vendors(ctx), table.VendorFile, table.WriteVendor)
		sum.VendorRows = n
		return err
	case StageContext:
		return p.collectSignals(ctx, sum)
	case StageBuild:
		return p.build(ctx, sum)
	default:
		return errors.New().WithData(ErrUnknownStage, struct {
			Stage Stage
		}{s})
	}
}

// collectFamily derives metrics over a freshly collected store and writes it.
func (p *Pipeline) collectFamily(store *observation.Store, file string, write func(string, *observation.Store) error) (int, error) {
	errFactory := errors.New()

	derived, err := p.engine.Derive(store)
	if err != nil {
		return 0, errFactory.Wrap(ErrCollect, err)
	}
	if err := write(p.path(file), store); err != nil {
		return 0, errFactory.Wrap(ErrCollect, err)
	}

	family := string(store.Family())
	p.recorder.RowsProduced(family, store.Len())
	p.log.Info().
		Str("family", family).
		Int("rows", store.Len()).
		Int("derived", len(derived)).
		Str("path", p.path(file)).
		Msg("Table written")

	return store.Len(), nil
}

func (p *Pipeline) collectSignals(ctx context.Context, sum *Summary) error {
	signals := p.collector.Signals(ctx)
	if err := table.WriteSignals(p.path(table.SignalFile), signals); err != nil {
		return errors.New().Wrap(ErrCollect, err)
	}

	p.recorder.RowsProduced("signals", len(signals))
	p.log.Info().Int("rows", len(signals)).Str("path", p.path(table.SignalFile)).Msg("Table written")
	sum.Signals = len(signals)

	return nil
}

// build reads every table before rendering, so a corrupt table stops the run
// before any artifact is written.
func (p *Pipeline) build(ctx context.Context, sum *Summary) error {
	errFactory := errors.New()
	in := &report.Input{GeneratedAt: p.now()}

	market, err := p.loadFamily(p.path(table.MarketFile), table.ReadMarket)
	if err != nil {
		return errFactory.Wrap(ErrBuild, err)
	}
	if market != nil {
		in.Market = p.engine.MarketPivot(market)
		sum.MarketRows = market.Len()
	}

	vendors, err := p.loadFamily(p.path(table.VendorFile), table.ReadVendor)
	if err != nil {
		return errFactory.Wrap(ErrBuild, err)
	}
	if vendors != nil {
		in.Vendors = p.engine.VendorSummary(vendors)
		sum.VendorRows = vendors.Len()
	}

	signals, found, err := table.ReadSignals(p.path(table.SignalFile))
	if err != nil {
		return errFactory.Wrap(ErrBuild, err)
	}
	if !found {
		p.log.Warn().Str("path", p.path(table.SignalFile)).Msg("No signals table; rendering placeholder")
	}
	in.Signals = aggregate.SortByDate(signals)
	sum.Signals = len(signals)

	artifacts, err := p.renderer.Render(in)
	if err != nil {
		return errFactory.Wrap(ErrBuild, err)
	}
	sum.Artifacts = artifacts

	published, err := p.publisher.Publish(ctx, sum.RunID, artifacts.Paths()...)
	sum.Published = published
	if err != nil {
		return errFactory.Wrap(ErrBuild, err)
	}

	return nil
}

// loadFamily reads a table and fills in derived rows if it has none. A
// missing or empty table yields a nil store.
func (p *Pipeline) loadFamily(path string, read func(string) (*observation.Store, bool, error)) (*observation.Store, error) {
	store, found, err := read(path)
	if err != nil {
		return nil, err
	}
	if !found || store.Len() == 0 {
		p.log.Warn().Str("path", path).Msg("No rows available; rendering placeholder")
		return nil, nil
	}

	derived, err := p.engine.EnsureDerived(store)
	if err != nil {
		return nil, err
	}
	if len(derived) > 0 {
		p.log.Debug().Str("path", path).Int("derived", len(derived)).Msg("Derived metrics for table")
	}

	return store, nil
}
