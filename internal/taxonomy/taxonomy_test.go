package taxonomy_test

import (
	"testing"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerationOrder(t *testing.T) {
	assert.Equal(t, []taxonomy.Category{taxonomy.Tutoring, taxonomy.Advising, taxonomy.CreditMobility}, taxonomy.Categories())
	assert.Equal(t, []taxonomy.Vendor{taxonomy.AWS, taxonomy.Microsoft, taxonomy.Google}, taxonomy.Vendors())
	assert.Equal(t, []taxonomy.SignalType{taxonomy.Policy, taxonomy.News, taxonomy.Adoption}, taxonomy.SignalTypes())

	cats := taxonomy.Categories()
	cats[0] = taxonomy.None
	assert.Equal(t, taxonomy.Tutoring, taxonomy.Categories()[0], "returned slice is a copy")
}

func TestParse(t *testing.T) {
	assert.Equal(t, taxonomy.CreditMobility, taxonomy.ParseCategory(" Credit_Mobility "))
	assert.Equal(t, taxonomy.None, taxonomy.ParseCategory("na"))
	assert.Equal(t, taxonomy.None, taxonomy.ParseCategory("robotics"))
	assert.False(t, taxonomy.None.Valid())
	assert.Equal(t, -1, taxonomy.None.Index())
	assert.Equal(t, 2, taxonomy.CreditMobility.Index())

	assert.Equal(t, taxonomy.Microsoft, taxonomy.ParseVendor("Microsoft"))
	assert.Equal(t, taxonomy.NoVendor, taxonomy.ParseVendor("oracle"))
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "Credit Mobility", taxonomy.CreditMobility.Title())
	assert.Equal(t, "AWS", taxonomy.AWS.Title())
	assert.Equal(t, "Adoption Or Risk Signal", taxonomy.Adoption.Title())
	assert.Equal(t, "Startup Churn Ratio", taxonomy.Label("startup_churn_ratio"))
}

func TestDefaultKeywordsAreLowerCased(t *testing.T) {
	tax := taxonomy.Default()

	assert.Contains(t, tax.Keywords(taxonomy.CreditMobility), "rpl")
	assert.NotContains(t, tax.Keywords(taxonomy.CreditMobility), "RPL")
	assert.Contains(t, tax.InitiativeKeywords(taxonomy.Microsoft), "copilot")
	assert.NotContains(t, tax.InitiativeKeywords(taxonomy.AWS), "copilot")
	assert.Equal(t, 12, tax.Baseline(taxonomy.Google))
}

func TestOverrides(t *testing.T) {
	tax, err := taxonomy.New(map[string][]string{"Advising": {"Mentor", "mentor", " "}})
	require.NoError(t, err)

	assert.Equal(t, []string{"mentor"}, tax.Keywords(taxonomy.Advising))
	assert.Equal(t, taxonomy.Default().Keywords(taxonomy.Tutoring), tax.Keywords(taxonomy.Tutoring))

	_, err = taxonomy.New(map[string][]string{"robotics": {"robot"}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}
