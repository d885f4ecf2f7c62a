package report

import (
	"bufio"
	"io"
	"strings"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

var previewMarketMetrics = []string{
	observation.FundingTotal,
	observation.DealsCount,
	observation.NewEntrants,
	observation.AverageDealSize,
	observation.StartupChurnRatio,
}

func (r *Renderer) writeText(w io.Writer, in *Input, groups []aggregate.SignalGroup) error {
	b := bufio.NewWriter(w)

	line := func(format string, args ...any) {
		printer.Fprintf(b, format+"\n", args...)
	}
	heading := func(title string, rule int) {
		line("")
		line("%s", title)
		line("%s", strings.Repeat("-", rule))
	}

	line("%s", strings.ToUpper(dashboardTitle)+" v1.0")
	line("%s", strings.Repeat("=", 50))
	if !in.GeneratedAt.IsZero() {
		line("Generated: %s", observation.FormatDate(in.GeneratedAt))
	}

	heading("MARKET DYNAMICS SUMMARY", 30)
	if in.Market == nil {
		line("%s", noMarketData)
	} else {
		for _, c := range in.Market.Categories {
			line("")
			line("%s VERTICAL:", strings.ToUpper(c.Title()))
			for _, metric := range previewMarketMetrics {
				v := in.Market.Cell(metric, c)
				if !v.Present() {
					continue
				}
				line("  %s: %s", taxonomy.Label(metric), formatValue(metric, v.Or(0)))
			}
		}
	}

	heading("HYPERSCALER METRICS SUMMARY", 35)
	if in.Vendors == nil {
		line("%s", noVendorData)
	} else {
		current := ""
		for _, row := range in.Vendors.Rows {
			if name := row.Vendor.Title(); name != current {
				current = name
				line("")
				line("%s:", name)
			}
			line("  %s: %s announcements, %s new initiatives, %s total, momentum %s",
				row.Category.Title(),
				formatValue(observation.AnnouncementsCount, in.Vendors.Value(row, observation.AnnouncementsCount).Or(0)),
				formatValue(observation.NewInitiatives, in.Vendors.Value(row, observation.NewInitiatives).Or(0)),
				formatValue(observation.CumulativeInitiatives, in.Vendors.Value(row, observation.CumulativeInitiatives).Or(0)),
				formatValue(observation.InitiativeMomentumPct, in.Vendors.Value(row, observation.InitiativeMomentumPct).Or(0)),
			)
		}
	}

	heading("CONTEXT SIGNALS SUMMARY", 25)
	if len(in.Signals) == 0 {
		line("%s", noSignalsData)
	}
	for _, group := range groups {
		if len(group.Signals) == 0 {
			continue
		}
		line("")
		line("%s SIGNALS (Top %d):", strings.ToUpper(group.Type.Title()), r.cfg.TopSignals)
		for _, sig := range group.Signals {
			line("  • %s (%s)", sig.Title, sig.Date)
			if sig.Summary != "" {
				line("    %s", sig.Summary)
			}
		}
	}

	return b.Flush()
}
