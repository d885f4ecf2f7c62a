package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/classify"
	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/report"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var generated = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newRenderer(t *testing.T, dir string) *report.Renderer {
	t.Helper()
	cfg := report.DefaultConfig()
	cfg.Dir = dir
	r, err := report.New(cfg, logger.Nop())
	require.NoError(t, err)
	return r
}

func sampleInput(t *testing.T) *report.Input {
	t.Helper()
	engine := aggregate.New(taxonomy.Default(), aggregate.WithClock(func() time.Time { return generated }))

	count := func(c taxonomy.Category, metric string, v float64) observation.Observation {
		return observation.Observation{Category: c, Metric: metric, Value: observation.Some(v), Unit: observation.UnitCount}
	}
	market := observation.NewStore(observation.MarketFamily,
		count(taxonomy.Tutoring, observation.FundingTotal, 2500000000),
		count(taxonomy.Tutoring, observation.DealsCount, 45),
		count(taxonomy.Tutoring, observation.NewEntrants, 120),
		count(taxonomy.Tutoring, observation.Exits, 8),
		count(taxonomy.Advising, observation.NewEntrants, 65),
	)
	_, err := engine.Derive(market)
	require.NoError(t, err)

	vendors := observation.NewStore(observation.VendorFamily,
		observation.Observation{Vendor: taxonomy.AWS, Category: taxonomy.Tutoring, Metric: observation.NewInitiatives, Value: observation.Some(1)},
		observation.Observation{Vendor: taxonomy.AWS, Category: taxonomy.Tutoring, Metric: observation.CumulativeInitiatives, Value: observation.Some(4)},
	)
	_, err = engine.Derive(vendors)
	require.NoError(t, err)

	return &report.Input{
		Market:  engine.MarketPivot(market),
		Vendors: engine.VendorSummary(vendors),
		Signals: []observation.Signal{
			{Date: "2025-05-01", Type: taxonomy.News, Title: "<script>alert(1)</script>", Category: taxonomy.Tutoring, Sentiment: taxonomy.Neutral},
			{Date: "2025-04-01", Type: taxonomy.Policy, Title: "Aid rules updated", Summary: "New guidance", Category: taxonomy.Advising, Sentiment: taxonomy.Positive},
			{Date: "2025-03-01", Type: taxonomy.Policy, Title: "Older policy", Category: taxonomy.None, Sentiment: taxonomy.Risk},
		},
		GeneratedAt: generated,
	}
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestRenderWorkbook(t *testing.T) {
	dir := t.TempDir()
	out, err := newRenderer(t, dir).Render(sampleInput(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, report.DefaultWorkbook), out.Workbook)

	f, err := excelize.OpenFile(out.Workbook)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.MarketSheet, report.VendorSheet, report.ContextSheet}, f.GetSheetList())

	m := report.MarketSheet
	assert.Equal(t, "AI Market Intelligence Dashboard - Market Dynamics", cellValue(t, f, m, "A1"))
	assert.Equal(t, "Market Dynamics by Vertical", cellValue(t, f, m, "A3"))
	assert.Equal(t, "Metric", cellValue(t, f, m, "A4"))
	assert.Equal(t, "Tutoring", cellValue(t, f, m, "B4"))
	assert.Equal(t, "Credit Mobility", cellValue(t, f, m, "D4"))
	assert.Equal(t, "Funding Total", cellValue(t, f, m, "A5"))
	assert.Equal(t, "2500000000", cellValue(t, f, m, "B5"))
	// Absent cells are rendered as zero.
	assert.Equal(t, "0", cellValue(t, f, m, "D5"))
	assert.Equal(t, "Startup Churn Ratio", cellValue(t, f, m, "A12"))
	assert.Equal(t, "15", cellValue(t, f, m, "B12"))
	assert.Equal(t, "65", cellValue(t, f, m, "C12"))
	assert.Equal(t, "Startup Churn Ratio by Vertical", cellValue(t, f, m, "A14"))
	assert.Equal(t, "Advising", cellValue(t, f, m, "A17"))
	assert.Equal(t, "65", cellValue(t, f, m, "B17"))

	v := report.VendorSheet
	assert.Equal(t, "Hyperscaler", cellValue(t, f, v, "A4"))
	assert.Equal(t, "AWS", cellValue(t, f, v, "A5"))
	assert.Equal(t, "Tutoring", cellValue(t, f, v, "B5"))
	assert.Equal(t, "1", cellValue(t, f, v, "D5"))
	assert.Equal(t, "0.25", cellValue(t, f, v, "F5"))
	assert.Equal(t, "Google", cellValue(t, f, v, "A13"))
	// Chart source block follows the nine summary rows.
	assert.Equal(t, "Series", cellValue(t, f, v, "A16"))
	assert.Equal(t, "AWS - Tutoring", cellValue(t, f, v, "A17"))

	c := report.ContextSheet
	assert.Equal(t, "Date", cellValue(t, f, c, "A4"))
	assert.Equal(t, "2025-05-01", cellValue(t, f, c, "A5"))
	assert.Equal(t, "na", cellValue(t, f, c, "E7"))
	assert.Equal(t, "Top 3 Most Recent Signals by Type", cellValue(t, f, c, "A10"))
	assert.Equal(t, "Policy Signals", cellValue(t, f, c, "A12"))
	assert.Equal(t, "• Aid rules updated", cellValue(t, f, c, "A13"))
}

func TestRenderEmptyFamilies(t *testing.T) {
	dir := t.TempDir()
	out, err := newRenderer(t, dir).Render(&report.Input{})
	require.NoError(t, err)

	f, err := excelize.OpenFile(out.Workbook)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "No market dynamics data available", cellValue(t, f, report.MarketSheet, "A3"))
	assert.Equal(t, "No hyperscaler metrics data available", cellValue(t, f, report.VendorSheet, "A3"))
	assert.Equal(t, "No context signals data available", cellValue(t, f, report.ContextSheet, "A3"))

	text, err := os.ReadFile(out.Preview)
	require.NoError(t, err)
	assert.Contains(t, string(text), "No market dynamics data available")
	assert.Contains(t, string(text), "No context signals data available")
}

func TestRenderTextPreview(t *testing.T) {
	out, err := newRenderer(t, t.TempDir()).Render(sampleInput(t))
	require.NoError(t, err)

	data, err := os.ReadFile(out.Preview)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "AI MARKET INTELLIGENCE DASHBOARD v1.0\n==================================================\n")
	assert.Contains(t, text, "Generated: 2025-06-01")
	assert.Contains(t, text, "TUTORING VERTICAL:\n  Funding Total: $2,500,000,000\n  Deals Count: 45\n")
	assert.Contains(t, text, "  Startup Churn Ratio: 15.00\n")
	assert.Contains(t, text, "CREDIT MOBILITY VERTICAL:\n  Startup Churn Ratio: 0.00\n")
	assert.Contains(t, text, "AWS:\n  Tutoring: 0 announcements, 1 new initiatives, 4 total, momentum 25.0%\n")
	assert.Contains(t, text, "POLICY SIGNALS (Top 3):\n  • Aid rules updated (2025-04-01)\n    New guidance\n")
	assert.NotContains(t, text, "ADOPTION OR RISK SIGNAL SIGNALS")
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	out, err := newRenderer(t, t.TempDir()).Render(sampleInput(t))
	require.NoError(t, err)

	data, err := os.ReadFile(out.HTML)
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "<title>AI Market Intelligence Dashboard</title>")
	assert.Contains(t, page, `<a href="dashboard_v1.xlsx">`)
	assert.Contains(t, page, "$2,500,000,000")
	assert.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, page, "<script>")
}

func TestContextRowsLimit(t *testing.T) {
	cfg := report.DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.ContextRows = 1
	r, err := report.New(cfg, nil)
	require.NoError(t, err)

	out, err := r.Render(sampleInput(t))
	require.NoError(t, err)

	f, err := excelize.OpenFile(out.Workbook)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "2025-05-01", cellValue(t, f, report.ContextSheet, "A5"))
	assert.Empty(t, cellValue(t, f, report.ContextSheet, "A6"))
}

func TestRenderKeepsSummaryEllipsis(t *testing.T) {
	summary := classify.Summarize("Campus pilot", strings.Repeat("tutoring ", 40), classify.SummaryLength)
	require.True(t, strings.HasSuffix(summary, "..."))

	in := sampleInput(t)
	in.Signals = []observation.Signal{
		{Date: "2025-05-01", Type: taxonomy.News, Title: "Campus pilot", Summary: summary, Category: taxonomy.Tutoring, Sentiment: taxonomy.Neutral},
	}

	out, err := newRenderer(t, t.TempDir()).Render(in)
	require.NoError(t, err)

	text, err := os.ReadFile(out.Preview)
	require.NoError(t, err)
	assert.Contains(t, string(text), "    "+summary+"\n")

	f, err := excelize.OpenFile(out.Workbook)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, summary, cellValue(t, f, report.ContextSheet, "D5"))
}

func TestRenderLeavesNoPartialArtifacts(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o600))

	_, err := newRenderer(t, blocker).Render(sampleInput(t))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, report.ErrWrite))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRenderReplacesExistingArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := newRenderer(t, dir)

	_, err := r.Render(&report.Input{})
	require.NoError(t, err)
	out, err := r.Render(sampleInput(t))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{report.DefaultWorkbook, report.PreviewFile, report.HTMLFile}, names)

	text, err := os.ReadFile(out.Preview)
	require.NoError(t, err)
	assert.NotContains(t, string(text), "No market dynamics data available")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*report.Config)
	}{
		{"missing dir", func(c *report.Config) { c.Dir = "" }},
		{"not xlsx", func(c *report.Config) { c.Workbook = "dashboard.csv" }},
		{"zero context rows", func(c *report.Config) { c.ContextRows = 0 }},
		{"zero top signals", func(c *report.Config) { c.TopSignals = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := report.DefaultConfig()
			cfg.Dir = t.TempDir()
			tt.modify(&cfg)
			_, err := report.New(cfg, nil)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
		})
	}
}
