// Package observation is the flat record model shared by the collectors,
// the aggregation engine and the report renderer.
package observation

import (
	"time"

	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

// DateLayout is the on-disk format of as-of and signal dates.
const DateLayout = "2006-01-02"

// Family names an observation table.
type Family string

const (
	MarketFamily Family = "market"
	VendorFamily Family = "vendor"
)

// Observation is one fact: a subject, a metric and a value with provenance.
// Vendor is set for the vendor family only.
type Observation struct {
	Vendor     taxonomy.Vendor
	Category   taxonomy.Category
	Metric     string
	Value      Value
	Unit       string
	AsOf       string
	Estimated  bool
	SourceName string
	SourceURL  string
	Notes      string

	// Labels as read from a table, kept so unknown labels survive a rewrite.
	RawVendor   string
	RawCategory string
}

// Subject identifies what an observation describes.
type Subject struct {
	Vendor   taxonomy.Vendor
	Category taxonomy.Category
}

func (o Observation) Subject() Subject {
	return Subject{Vendor: o.Vendor, Category: o.Category}
}

// CategoryLabel is the category as it should be written to a table.
func (o Observation) CategoryLabel() string {
	if o.RawCategory != "" {
		return o.RawCategory
	}
	return o.Category.String()
}

// VendorLabel is the vendor as it should be written to a table.
func (o Observation) VendorLabel() string {
	if o.RawVendor != "" {
		return o.RawVendor
	}
	return o.Vendor.String()
}

// Signal is one context item: a policy, news or adoption/risk signal.
type Signal struct {
	Date        string
	Type        taxonomy.SignalType
	Title       string
	Summary     string
	Category    taxonomy.Category
	Sentiment   taxonomy.Sentiment
	SourceName  string
	SourceURL   string
	RawCategory string
}

func (s Signal) CategoryLabel() string {
	if s.RawCategory != "" {
		return s.RawCategory
	}
	return s.Category.String()
}

// FormatDate renders t as a table date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
