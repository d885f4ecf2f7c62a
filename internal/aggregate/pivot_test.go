package aggregate_test

import (
	"testing"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketPivotShape(t *testing.T) {
	store := observation.NewStore(observation.MarketFamily,
		market(taxonomy.Advising, observation.FundingTotal, 1.8e9),
		market(taxonomy.Advising, observation.FundingTotal, 9.9e9),
		observation.Observation{Category: taxonomy.None, RawCategory: "na", Metric: observation.FundingTotal, Value: observation.Some(1)},
	)

	p := newEngine().MarketPivot(store)

	want := []string{
		observation.FundingTotal, observation.DealsCount, observation.NewEntrants,
		observation.StartupsFunded, observation.Exits, observation.Acquisitions,
		observation.AverageDealSize, observation.StartupChurnRatio,
	}
	if diff := cmp.Diff(want, p.Metrics); diff != "" {
		t.Errorf("pivot rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, taxonomy.Categories(), p.Categories)

	for _, metric := range p.Metrics {
		row := p.Row(metric)
		assert.Len(t, row, len(p.Categories), metric)
		for _, c := range p.Categories {
			assert.NotPanics(t, func() { _ = p.Float(metric, c) })
		}
	}

	assert.Equal(t, 1.8e9, p.Float(observation.FundingTotal, taxonomy.Advising), "first observed wins")
	assert.Equal(t, 0.0, p.Float(observation.FundingTotal, taxonomy.Tutoring))
	assert.False(t, p.Cell(observation.FundingTotal, taxonomy.Tutoring).Present())
	assert.False(t, p.Cell(observation.FundingTotal, taxonomy.None).Present(), "na excluded")
	assert.False(t, p.Cell(observation.UsersStudents, taxonomy.Tutoring).Present(), "not a pivot row")
	assert.False(t, p.Empty())
}

func TestMarketPivotEmptyStore(t *testing.T) {
	p := newEngine().MarketPivot(observation.NewStore(observation.MarketFamily))

	assert.Len(t, p.Metrics, 8)
	assert.True(t, p.Empty())
	assert.Equal(t, 0.0, p.Float(observation.Exits, taxonomy.CreditMobility))
}

func TestMarketPivotIncludesDerived(t *testing.T) {
	engine := newEngine()
	store := observation.NewStore(observation.MarketFamily,
		market(taxonomy.Tutoring, observation.NewEntrants, 120),
		market(taxonomy.Tutoring, observation.Exits, 8),
	)
	_, err := engine.EnsureDerived(store)
	require.NoError(t, err)

	p := engine.MarketPivot(store)
	assert.Equal(t, 15.0, p.Float(observation.StartupChurnRatio, taxonomy.Tutoring))
	assert.Equal(t, observation.Some(0), p.Cell(observation.StartupChurnRatio, taxonomy.Advising))
}

func TestVendorSummaryOrder(t *testing.T) {
	store := observation.NewStore(observation.VendorFamily,
		vendor(taxonomy.Google, taxonomy.CreditMobility, observation.AnnouncementsCount, 7),
		vendor(taxonomy.Google, taxonomy.CreditMobility, observation.NewInitiatives, 2),
	)

	s := newEngine().VendorSummary(store)

	require.Len(t, s.Rows, 9)
	var got []string
	for _, row := range s.Rows {
		got = append(got, row.Vendor.String()+"/"+row.Category.String())
		assert.Len(t, row.Values, len(s.Metrics))
	}
	want := []string{
		"aws/tutoring", "aws/advising", "aws/credit_mobility",
		"microsoft/tutoring", "microsoft/advising", "microsoft/credit_mobility",
		"google/tutoring", "google/advising", "google/credit_mobility",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary order mismatch (-want +got):\n%s", diff)
	}

	last := s.Rows[8]
	assert.Equal(t, observation.Some(7), s.Value(last, observation.AnnouncementsCount))
	assert.Equal(t, observation.Some(2), s.Value(last, observation.NewInitiatives))
	assert.False(t, s.Value(last, observation.CumulativeInitiatives).Present())
	assert.False(t, s.Value(last, "unknown").Present())
	assert.False(t, s.Empty())
	assert.True(t, newEngine().VendorSummary(observation.NewStore(observation.VendorFamily)).Empty())
}

func TestTopSignals(t *testing.T) {
	signals := []observation.Signal{
		{Date: "2024-01-15", Type: taxonomy.Policy, Title: "p1"},
		{Date: "2024-04-05", Type: taxonomy.Policy, Title: "p2"},
		{Date: "2024-03-10", Type: taxonomy.Policy, Title: "p3"},
		{Date: "2024-02-20", Type: taxonomy.Policy, Title: "p4"},
		{Date: "2024-05-01", Type: taxonomy.News, Title: "n1"},
		{Date: "2024-05-01", Type: taxonomy.News, Title: "n2"},
		{Date: "2024-06-01", Type: "other", Title: "x"},
	}

	groups := aggregate.TopSignals(signals, 3)
	require.Len(t, groups, 3)

	titles := func(g aggregate.SignalGroup) []string {
		var out []string
		for _, s := range g.Signals {
			out = append(out, s.Title)
		}
		return out
	}

	assert.Equal(t, taxonomy.Policy, groups[0].Type)
	assert.Equal(t, []string{"p2", "p3", "p4"}, titles(groups[0]))
	assert.Equal(t, []string{"n1", "n2"}, titles(groups[1]), "stable for equal dates")
	assert.Equal(t, taxonomy.Adoption, groups[2].Type)
	assert.Empty(t, groups[2].Signals)

	assert.Equal(t, "p1", signals[0].Title, "input not reordered")
}

func TestSortByDate(t *testing.T) {
	sorted := aggregate.SortByDate([]observation.Signal{
		{Date: "2023-12-31", Title: "a"},
		{Date: "2024-01-01", Title: "b"},
		{Date: "2023-12-31", Title: "c"},
	})

	assert.Equal(t, "b", sorted[0].Title)
	assert.Equal(t, "a", sorted[1].Title)
	assert.Equal(t, "c", sorted[2].Title)
}
