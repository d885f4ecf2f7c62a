// Package aggregate computes derived metrics over an observation store and
// reshapes stores into the pivots the report renders.
package aggregate

import (
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

const (
	averageDealSizeNotes    = "Calculated from funding_total / deals_count"
	startupChurnRatioNotes  = "Calculated from new_entrants / max(exits, 1)"
	initiativeMomentumNotes = "Calculated from new_initiatives / max(cumulative_initiatives, 1)"
)

type Option func(*Engine)

// WithClock sets the clock used for the as-of date of derived rows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine derives metrics and builds pivots. It is stateless apart from its
// configuration.
type Engine struct {
	tax *taxonomy.Taxonomy
	now func() time.Time
}

func New(tax *taxonomy.Taxonomy, opts ...Option) *Engine {
	if tax == nil {
		tax = taxonomy.Default()
	}
	e := &Engine{tax: tax, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive appends the derived rows for the store's family and returns them.
// If any derived row it would produce already exists for the same subject the
// store is left untouched and an error is returned.
func (e *Engine) Derive(store *observation.Store) ([]observation.Observation, error) {
	rows, err := e.derivedRows(store)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if existing, ok := store.Lookup(row.Subject(), row.Metric); ok {
			return nil, derivedPresent(existing)
		}
	}

	store.Append(rows...)
	return rows, nil
}

// EnsureDerived derives when the store is missing any derived row and does
// nothing when it already holds them all. Tables written by the collectors
// carry the complete set; a partial set falls through to Derive, which
// rejects it.
func (e *Engine) EnsureDerived(store *observation.Store) ([]observation.Observation, error) {
	if !store.HasDerived() {
		return e.Derive(store)
	}

	rows, err := e.derivedRows(store)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if _, ok := store.Lookup(row.Subject(), row.Metric); !ok {
			return e.Derive(store)
		}
	}

	return nil, nil
}

func (e *Engine) derivedRows(store *observation.Store) ([]observation.Observation, error) {
	switch store.Family() {
	case observation.MarketFamily:
		return e.deriveMarket(store), nil
	case observation.VendorFamily:
		return e.deriveVendor(store), nil
	default:
		return nil, errors.New().WithData(ErrUnknownFamily, struct {
			Family observation.Family
		}{store.Family()})
	}
}

func derivedPresent(existing observation.Observation) error {
	return errors.New().WithData(ErrDerivedPresent, struct {
		Vendor   string
		Category string
		Metric   string
		Source   string
	}{existing.VendorLabel(), existing.CategoryLabel(), existing.Metric, existing.SourceName})
}

func (e *Engine) deriveMarket(store *observation.Store) []observation.Observation {
	asOf := observation.FormatDate(e.now())

	var rows []observation.Observation
	for _, c := range e.tax.Categories() {
		subject := observation.Subject{Category: c}

		// No positive deal count means no average; the row is skipped rather than zeroed.
		if deals := store.Value(subject, observation.DealsCount).Or(0); deals > 0 {
			funding := store.Value(subject, observation.FundingTotal).Or(0)
			rows = append(rows, derivedRow(subject, observation.AverageDealSize,
				funding/deals, observation.UnitUSD, asOf, averageDealSizeNotes))
		}
	}

	for _, c := range e.tax.Categories() {
		subject := observation.Subject{Category: c}

		entrants := store.Value(subject, observation.NewEntrants).Or(0)
		exits := store.Value(subject, observation.Exits).OrFloor(0, 1)
		rows = append(rows, derivedRow(subject, observation.StartupChurnRatio,
			entrants/exits, observation.UnitRatio, asOf, startupChurnRatioNotes))
	}

	return rows
}

func (e *Engine) deriveVendor(store *observation.Store) []observation.Observation {
	asOf := observation.FormatDate(e.now())

	var rows []observation.Observation
	for _, v := range e.tax.Vendors() {
		for _, c := range e.tax.Categories() {
			subject := observation.Subject{Vendor: v, Category: c}

			fresh := store.Value(subject, observation.NewInitiatives).Or(0)
			cumulative := store.Value(subject, observation.CumulativeInitiatives).OrFloor(0, 1)
			rows = append(rows, derivedRow(subject, observation.InitiativeMomentumPct,
				fresh/cumulative, observation.UnitPercent, asOf, initiativeMomentumNotes))
		}
	}

	return rows
}

func derivedRow(subject observation.Subject, metric string, value float64, unit, asOf, notes string) observation.Observation {
	return observation.Observation{
		Vendor:     subject.Vendor,
		Category:   subject.Category,
		Metric:     metric,
		Value:      observation.Some(value),
		Unit:       unit,
		AsOf:       asOf,
		SourceName: observation.CalculatedSource,
		Notes:      notes,
	}
}
