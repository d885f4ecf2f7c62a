package report

import (
	"codeberg.org/mutker/marketintel/internal/observation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberKind selects how a metric value is displayed.
type numberKind int

const (
	kindCount numberKind = iota
	kindUSD
	kindRatio
	kindPercent
)

func kindOf(metric string) numberKind {
	switch metric {
	case observation.FundingTotal, observation.AverageDealSize:
		return kindUSD
	case observation.StartupChurnRatio:
		return kindRatio
	case observation.InitiativeMomentumPct:
		return kindPercent
	default:
		return kindCount
	}
}

var printer = message.NewPrinter(language.English)

// formatValue renders v the way the previews show metric.
func formatValue(metric string, v float64) string {
	switch kindOf(metric) {
	case kindUSD:
		return printer.Sprintf("$%.0f", v)
	case kindRatio:
		return printer.Sprintf("%.2f", v)
	case kindPercent:
		return printer.Sprintf("%.1f%%", v*100)
	default:
		return printer.Sprintf("%.0f", v)
	}
}
