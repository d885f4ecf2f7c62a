package table

import (
	"strconv"

	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

var (
	MarketHeader = []string{
		"vertical", "metric", "value", "unit", "as_of_date",
		"source_name", "source_url", "notes",
	}
	VendorHeader = []string{
		"hyperscaler", "vertical", "metric", "value", "unit", "as_of_date",
		"cume_estimated", "source_name", "source_url", "notes",
	}

	marketRequired = []string{"vertical", "metric", "value"}
	vendorRequired = []string{"hyperscaler", "vertical", "metric", "value"}
)

// WriteMarket writes a market store to path.
func WriteMarket(path string, store *observation.Store) error {
	rows := store.Rows()
	records := make([][]string, 0, len(rows))
	for _, o := range rows {
		records = append(records, []string{
			o.CategoryLabel(), o.Metric, o.Value.String(), o.Unit, o.AsOf,
			o.SourceName, o.SourceURL, o.Notes,
		})
	}
	return writeAtomic(path, MarketHeader, records)
}

// ReadMarket loads a market store. A missing file is an empty store with
// found=false.
func ReadMarket(path string) (store *observation.Store, found bool, err error) {
	rows, found, err := readTable(path, marketRequired)
	if err != nil {
		return nil, found, err
	}

	store = observation.NewStore(observation.MarketFamily)
	for _, r := range rows {
		store.Append(observation.Observation{
			Category:    taxonomy.ParseCategory(r.get("vertical")),
			RawCategory: r.get("vertical"),
			Metric:      r.get("metric"),
			Value:       observation.ParseValue(r.get("value")),
			Unit:        r.get("unit"),
			AsOf:        r.get("as_of_date"),
			SourceName:  r.get("source_name"),
			SourceURL:   r.get("source_url"),
			Notes:       r.get("notes"),
		})
	}

	return store, found, nil
}

// WriteVendor writes a vendor store to path.
func WriteVendor(path string, store *observation.Store) error {
	rows := store.Rows()
	records := make([][]string, 0, len(rows))
	for _, o := range rows {
		records = append(records, []string{
			o.VendorLabel(), o.CategoryLabel(), o.Metric, o.Value.String(), o.Unit, o.AsOf,
			strconv.FormatBool(o.Estimated), o.SourceName, o.SourceURL, o.Notes,
		})
	}
	return writeAtomic(path, VendorHeader, records)
}

// ReadVendor loads a vendor store. A missing file is an empty store with
// found=false.
func ReadVendor(path string) (store *observation.Store, found bool, err error) {
	rows, found, err := readTable(path, vendorRequired)
	if err != nil {
		return nil, found, err
	}

	store = observation.NewStore(observation.VendorFamily)
	for _, r := range rows {
		estimated, _ := strconv.ParseBool(r.get("cume_estimated"))
		store.Append(observation.Observation{
			Vendor:      taxonomy.ParseVendor(r.get("hyperscaler")),
			RawVendor:   r.get("hyperscaler"),
			Category:    taxonomy.ParseCategory(r.get("vertical")),
			RawCategory: r.get("vertical"),
			Metric:      r.get("metric"),
			Value:       observation.ParseValue(r.get("value")),
			Unit:        r.get("unit"),
			AsOf:        r.get("as_of_date"),
			Estimated:   estimated,
			SourceName:  r.get("source_name"),
			SourceURL:   r.get("source_url"),
			Notes:       r.get("notes"),
		})
	}

	return store, found, nil
}
