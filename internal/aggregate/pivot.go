package aggregate

import (
	"sort"

	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

// MarketPivotMetrics are the rows of the market pivot, in display order.
func MarketPivotMetrics() []string {
	metrics := append([]string(nil), observation.PrimaryMarketMetrics...)
	return append(metrics, observation.AverageDealSize, observation.StartupChurnRatio)
}

// Pivot is a metric by category grid. Every cell exists; absent cells read
// as zero through Float.
type Pivot struct {
	Metrics    []string
	Categories []taxonomy.Category
	cells      [][]observation.Value
}

// Cell returns the value at (metric, category), absent if either is not a
// row or column of the pivot.
func (p *Pivot) Cell(metric string, c taxonomy.Category) observation.Value {
	i, j := indexOf(p.Metrics, metric), c.Index()
	if i < 0 || j < 0 || j >= len(p.Categories) {
		return observation.Absent()
	}
	return p.cells[i][j]
}

// Float is Cell with absent read as zero.
func (p *Pivot) Float(metric string, c taxonomy.Category) float64 {
	return p.Cell(metric, c).Or(0)
}

// Row returns the cells of metric in category order.
func (p *Pivot) Row(metric string) []observation.Value {
	i := indexOf(p.Metrics, metric)
	if i < 0 {
		return nil
	}
	return append([]observation.Value(nil), p.cells[i]...)
}

// Empty reports whether no cell holds a value.
func (p *Pivot) Empty() bool {
	for _, row := range p.cells {
		for _, v := range row {
			if v.Present() {
				return false
			}
		}
	}
	return true
}

// MarketPivot reshapes the market store into metric rows by category
// columns. Rows whose category is outside the closed set are ignored.
func (e *Engine) MarketPivot(store *observation.Store) *Pivot {
	p := &Pivot{
		Metrics:    MarketPivotMetrics(),
		Categories: e.tax.Categories(),
	}

	p.cells = make([][]observation.Value, len(p.Metrics))
	for i, metric := range p.Metrics {
		p.cells[i] = make([]observation.Value, len(p.Categories))
		for j, c := range p.Categories {
			p.cells[i][j] = store.Value(observation.Subject{Category: c}, metric)
		}
	}

	return p
}

// SummaryRow is one (vendor, category) line of the vendor summary. Values
// align with Summary.Metrics.
type SummaryRow struct {
	Vendor   taxonomy.Vendor
	Category taxonomy.Category
	Values   []observation.Value
}

// Summary is the vendor by category table of initiative metrics.
type Summary struct {
	Metrics []string
	Rows    []SummaryRow
}

// Value returns the cell of row for metric, absent when metric is not a
// column.
func (s *Summary) Value(row SummaryRow, metric string) observation.Value {
	i := indexOf(s.Metrics, metric)
	if i < 0 || i >= len(row.Values) {
		return observation.Absent()
	}
	return row.Values[i]
}

// Empty reports whether no cell holds a value.
func (s *Summary) Empty() bool {
	for _, row := range s.Rows {
		for _, v := range row.Values {
			if v.Present() {
				return false
			}
		}
	}
	return true
}

// VendorSummary builds one row per (vendor, category) in the closed cross
// product, vendor-major.
func (e *Engine) VendorSummary(store *observation.Store) *Summary {
	s := &Summary{Metrics: append([]string(nil), observation.VendorSummaryMetrics...)}

	for _, v := range e.tax.Vendors() {
		for _, c := range e.tax.Categories() {
			subject := observation.Subject{Vendor: v, Category: c}
			row := SummaryRow{Vendor: v, Category: c, Values: make([]observation.Value, len(s.Metrics))}
			for i, metric := range s.Metrics {
				row.Values[i] = store.Value(subject, metric)
			}
			s.Rows = append(s.Rows, row)
		}
	}

	return s
}

// SignalGroup holds the most recent signals of one type.
type SignalGroup struct {
	Type    taxonomy.SignalType
	Signals []observation.Signal
}

// TopSignals returns, per signal type in enumeration order, the n most
// recent signals. Signals with equal dates keep their input order.
func TopSignals(signals []observation.Signal, n int) []SignalGroup {
	sorted := SortByDate(signals)

	groups := make([]SignalGroup, 0, len(taxonomy.SignalTypes()))
	for _, typ := range taxonomy.SignalTypes() {
		group := SignalGroup{Type: typ}
		for _, s := range sorted {
			if len(group.Signals) >= n {
				break
			}
			if s.Type == typ {
				group.Signals = append(group.Signals, s)
			}
		}
		groups = append(groups, group)
	}

	return groups
}

// SortByDate returns a copy of signals ordered most recent first. The sort
// is stable.
func SortByDate(signals []observation.Signal) []observation.Signal {
	sorted := append([]observation.Signal(nil), signals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
