package report

import (
	"html/template"
	"io"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

type htmlRow struct {
	Label string
	Cells []string
}

type htmlGroup struct {
	Title   string
	Signals []observation.Signal
}

type htmlView struct {
	Title       string
	Generated   string
	Workbook    string
	Preview     string
	MarketHead  []string
	Market      []htmlRow
	VendorHead  []string
	Vendors     []htmlRow
	ContextHead []string
	Signals     []observation.Signal
	Groups      []htmlGroup
	NoMarket    string
	NoVendors   string
	NoSignals   string
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th { background: #366092; color: #fff; padding: 4px 8px; }
td { border: 1px solid #ddd; padding: 4px 8px; }
td.num { text-align: right; }
.empty { color: #808080; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Generated}}<p>Generated {{.Generated}}</p>{{end}}
<p><a href="{{.Workbook}}">Download workbook</a> | <a href="{{.Preview}}">Text preview</a></p>

<h2>Market Dynamics by Vertical</h2>
{{if .Market}}<table>
<tr>{{range .MarketHead}}<th>{{.}}</th>{{end}}</tr>
{{range .Market}}<tr><td>{{.Label}}</td>{{range .Cells}}<td class="num">{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}<p class="empty">{{.NoMarket}}</p>
{{end}}
<h2>Hyperscaler Metrics Summary</h2>
{{if .Vendors}}<table>
<tr>{{range .VendorHead}}<th>{{.}}</th>{{end}}</tr>
{{range .Vendors}}<tr><td>{{.Label}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}<p class="empty">{{.NoVendors}}</p>
{{end}}
<h2>Context Signals</h2>
{{if .Signals}}<table>
<tr>{{range .ContextHead}}<th>{{.}}</th>{{end}}</tr>
{{range .Signals}}<tr><td>{{.Date}}</td><td>{{.Type}}</td><td>{{if .SourceURL}}<a href="{{.SourceURL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td><td>{{.Summary}}</td><td>{{.CategoryLabel}}</td><td>{{.Sentiment}}</td><td>{{.SourceName}}</td></tr>
{{end}}</table>
{{range .Groups}}<h3>{{.Title}}</h3>
<ul>
{{range .Signals}}<li>{{.Title}} ({{.Date}})</li>
{{end}}</ul>
{{end}}{{else}}<p class="empty">{{.NoSignals}}</p>
{{end}}
</body>
</html>
`))

func (r *Renderer) writeHTML(w io.Writer, in *Input, groups []aggregate.SignalGroup) error {
	view := htmlView{
		Title:       dashboardTitle,
		Workbook:    r.cfg.Workbook,
		Preview:     PreviewFile,
		VendorHead:  vendorHeaders,
		ContextHead: contextHeaders,
		NoMarket:    noMarketData,
		NoVendors:   noVendorData,
		NoSignals:   noSignalsData,
	}
	if !in.GeneratedAt.IsZero() {
		view.Generated = observation.FormatDate(in.GeneratedAt)
	}

	if p := in.Market; p != nil {
		view.MarketHead = []string{"Metric"}
		for _, c := range p.Categories {
			view.MarketHead = append(view.MarketHead, c.Title())
		}
		for _, metric := range p.Metrics {
			row := htmlRow{Label: taxonomy.Label(metric)}
			for _, c := range p.Categories {
				row.Cells = append(row.Cells, formatValue(metric, p.Float(metric, c)))
			}
			view.Market = append(view.Market, row)
		}
	}

	if s := in.Vendors; s != nil {
		for _, line := range s.Rows {
			row := htmlRow{Label: line.Vendor.Title(), Cells: []string{line.Category.Title()}}
			for _, metric := range s.Metrics {
				row.Cells = append(row.Cells, formatValue(metric, s.Value(line, metric).Or(0)))
			}
			view.Vendors = append(view.Vendors, row)
		}
	}

	view.Signals = in.Signals
	if len(view.Signals) > r.cfg.ContextRows {
		view.Signals = view.Signals[:r.cfg.ContextRows]
	}
	for _, group := range groups {
		if len(group.Signals) > 0 {
			view.Groups = append(view.Groups, htmlGroup{Title: group.Type.Title() + " Signals", Signals: group.Signals})
		}
	}

	return dashboardTemplate.Execute(w, view)
}
