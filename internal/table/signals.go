package table

import (
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

var (
	SignalHeader = []string{
		"date", "signal_type", "title", "summary_140", "vertical",
		"sentiment", "source_name", "source_url",
	}

	signalRequired = []string{"date", "signal_type", "title"}
)

// WriteSignals writes signals to path in the given order.
func WriteSignals(path string, signals []observation.Signal) error {
	records := make([][]string, 0, len(signals))
	for _, s := range signals {
		records = append(records, []string{
			s.Date, s.Type.String(), s.Title, s.Summary, s.CategoryLabel(),
			s.Sentiment.String(), s.SourceName, s.SourceURL,
		})
	}
	return writeAtomic(path, SignalHeader, records)
}

// ReadSignals loads signals in table order. A missing file yields no
// signals and found=false.
func ReadSignals(path string) (signals []observation.Signal, found bool, err error) {
	rows, found, err := readTable(path, signalRequired)
	if err != nil {
		return nil, found, err
	}

	for _, r := range rows {
		signals = append(signals, observation.Signal{
			Date:        r.get("date"),
			Type:        taxonomy.SignalType(r.get("signal_type")),
			Title:       r.get("title"),
			Summary:     r.get("summary_140"),
			Category:    taxonomy.ParseCategory(r.get("vertical")),
			RawCategory: r.get("vertical"),
			Sentiment:   taxonomy.Sentiment(r.get("sentiment")),
			SourceName:  r.get("source_name"),
			SourceURL:   r.get("source_url"),
		})
	}

	return signals, found, nil
}
