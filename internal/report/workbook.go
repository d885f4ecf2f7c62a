package report

import (
	"fmt"
	"io"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
	"github.com/xuri/excelize/v2"
)

const (
	MarketSheet  = "Market_Dynamics"
	VendorSheet  = "Hyperscalers"
	ContextSheet = "Context"

	headerColor = "366092"
	usdFormat   = "$#,##0"

	// Built-in number formats.
	numFmtCount   = 3
	numFmtRatio   = 2
	numFmtPercent = 10

	chartTitle  = "New Initiatives by Hyperscaler and Vertical"
	chartXTitle = "Hyperscaler-Vertical"
	chartYTitle = "Count"
)

var vendorHeaders = []string{"Hyperscaler", "Vertical", "Announcements", "New Initiatives", "Total Initiatives", "Momentum %"}

var contextHeaders = []string{"Date", "Type", "Title", "Summary", "Vertical", "Sentiment", "Source"}

type styles struct {
	title       int
	section     int
	subsection  int
	header      int
	placeholder int
	numbers     map[numberKind]int
}

func newStyles(f *excelize.File) (*styles, error) {
	st := &styles{numbers: make(map[numberKind]int)}
	format := usdFormat

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&st.section, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&st.subsection, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&st.placeholder, &excelize.Style{Font: &excelize.Font{Italic: true, Color: "808080"}}},
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
	}
	for _, def := range defs {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return nil, err
		}
		*def.dst = id
	}

	numbers := map[numberKind]*excelize.Style{
		kindCount:   {NumFmt: numFmtCount},
		kindUSD:     {CustomNumFmt: &format},
		kindRatio:   {NumFmt: numFmtRatio},
		kindPercent: {NumFmt: numFmtPercent},
	}
	for kind, style := range numbers {
		id, err := f.NewStyle(style)
		if err != nil {
			return nil, err
		}
		st.numbers[kind] = id
	}

	return st, nil
}

// sheet writes cells by (column, row), keeping the first error.
type sheet struct {
	f    *excelize.File
	name string
	st   *styles
	err  error
}

func (s *sheet) set(col, row int, v any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(s.name, cell(col, row), v)
}

func (s *sheet) style(col, row, toCol int, id int) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.name, cell(col, row), cell(toCol, row), id)
}

func (s *sheet) number(col, row int, metric string, v float64) {
	s.set(col, row, v)
	s.style(col, row, col, s.st.numbers[kindOf(metric)])
}

func (s *sheet) merge(col, row, toCol int) {
	if s.err != nil {
		return
	}
	s.err = s.f.MergeCell(s.name, cell(col, row), cell(toCol, row))
}

func (s *sheet) width(col int, w float64) {
	if s.err != nil {
		return
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetColWidth(s.name, name, name, w)
}

func (s *sheet) header(row int, names []string) {
	for i, name := range names {
		s.set(i+1, row, name)
	}
	s.style(1, row, len(names), s.st.header)
}

func (s *sheet) text(row int, v string, id int) {
	s.set(1, row, v)
	s.style(1, row, 1, id)
}

func (s *sheet) title(family string, toCol int) {
	s.text(1, dashboardTitle+" - "+family, s.st.title)
	s.merge(1, 1, toCol)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (r *Renderer) writeWorkbook(w io.Writer, in *Input, groups []aggregate.SignalGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return errors.New().Wrap(ErrRender, err).WithData(artifactError{Artifact: r.cfg.Workbook, Section: "styles"})
	}

	if err := f.SetSheetName("Sheet1", MarketSheet); err != nil {
		return err
	}
	for _, name := range []string{VendorSheet, ContextSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	sections := []struct {
		name   string
		render func(*sheet) error
	}{
		{MarketSheet, func(s *sheet) error { return marketSheet(s, in.Market) }},
		{VendorSheet, func(s *sheet) error { return vendorSheet(s, in.Vendors) }},
		{ContextSheet, func(s *sheet) error { return r.contextSheet(s, in.Signals, groups) }},
	}
	for _, section := range sections {
		s := &sheet{f: f, name: section.name, st: st}
		if err := section.render(s); err != nil {
			return errors.New().Wrap(ErrRender, err).WithData(artifactError{Artifact: r.cfg.Workbook, Section: section.name})
		}
	}

	f.SetActiveSheet(0)

	return f.Write(w)
}

func marketSheet(s *sheet, p *aggregate.Pivot) error {
	s.title("Market Dynamics", 8)
	if p == nil {
		s.text(3, noMarketData, s.st.placeholder)
		return s.err
	}

	row := 3
	s.text(row, "Market Dynamics by Vertical", s.st.section)
	row++

	headers := []string{"Metric"}
	for _, c := range p.Categories {
		headers = append(headers, c.Title())
	}
	s.header(row, headers)
	row++

	for _, metric := range p.Metrics {
		s.set(1, row, taxonomy.Label(metric))
		for j, c := range p.Categories {
			s.number(j+2, row, metric, p.Float(metric, c))
		}
		row++
	}

	row++
	s.text(row, "Startup Churn Ratio by Vertical", s.st.section)
	row++
	s.header(row, []string{"Vertical", "Churn Ratio"})
	row++
	for _, c := range p.Categories {
		s.set(1, row, c.Title())
		s.number(2, row, observation.StartupChurnRatio, p.Float(observation.StartupChurnRatio, c))
		row++
	}

	s.width(1, 28)
	for col := 2; col <= len(headers); col++ {
		s.width(col, 20)
	}

	return s.err
}

func vendorSheet(s *sheet, sum *aggregate.Summary) error {
	s.title("Hyperscaler Metrics", 10)
	if sum == nil {
		s.text(3, noVendorData, s.st.placeholder)
		return s.err
	}

	row := 3
	s.text(row, "Hyperscaler Metrics Summary", s.st.section)
	row++
	s.header(row, vendorHeaders)
	row++

	for _, line := range sum.Rows {
		s.set(1, row, line.Vendor.Title())
		s.set(2, row, line.Category.Title())
		for i, metric := range sum.Metrics {
			s.number(i+3, row, metric, sum.Value(line, metric).Or(0))
		}
		row++
	}

	// Chart source: one labelled value per (vendor, category).
	row += 2
	s.header(row, []string{"Series", "New Initiatives"})
	first := row + 1
	for _, line := range sum.Rows {
		row++
		s.set(1, row, line.Vendor.Title()+" - "+line.Category.Title())
		s.number(2, row, observation.NewInitiatives, sum.Value(line, observation.NewInitiatives).Or(0))
	}
	last := row

	for col, w := range []float64{22, 18, 16, 16, 18, 14} {
		s.width(col+1, w)
	}
	if s.err != nil {
		return s.err
	}

	if last < first {
		return nil
	}

	return s.f.AddChart(s.name, "H3", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$%d", s.name, first-1),
			Categories: fmt.Sprintf("'%s'!$A$%d:$A$%d", s.name, first, last),
			Values:     fmt.Sprintf("'%s'!$B$%d:$B$%d", s.name, first, last),
		}},
		Title:     []excelize.RichTextRun{{Text: chartTitle}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: chartXTitle}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: chartYTitle}}, MajorGridLines: true},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 360},
	})
}

func (r *Renderer) contextSheet(s *sheet, signals []observation.Signal, groups []aggregate.SignalGroup) error {
	s.title("Context Signals", 8)
	if len(signals) == 0 {
		s.text(3, noSignalsData, s.st.placeholder)
		return s.err
	}

	row := 3
	s.text(row, "Context Signals", s.st.section)
	row++
	s.header(row, contextHeaders)
	row++

	shown := signals
	if len(shown) > r.cfg.ContextRows {
		shown = shown[:r.cfg.ContextRows]
	}
	for _, sig := range shown {
		values := []string{
			sig.Date,
			sig.Type.String(),
			sig.Title,
			sig.Summary,
			sig.CategoryLabel(),
			sig.Sentiment.String(),
			sig.SourceName,
		}
		for i, v := range values {
			s.set(i+1, row, v)
		}
		row++
	}

	row += 2
	s.text(row, fmt.Sprintf("Top %d Most Recent Signals by Type", r.cfg.TopSignals), s.st.section)
	row++
	for _, group := range groups {
		if len(group.Signals) == 0 {
			continue
		}
		row++
		s.text(row, group.Type.Title()+" Signals", s.st.subsection)
		row++
		for _, sig := range group.Signals {
			s.set(1, row, "• "+sig.Title)
			s.set(2, row, sig.Date)
			row++
		}
	}

	for col, w := range []float64{12, 22, 50, 70, 16, 12, 24} {
		s.width(col+1, w)
	}

	return s.err
}
