package observation

// Market base metrics.
const (
	FundingTotal      = "funding_total"
	DealsCount        = "deals_count"
	NewEntrants       = "new_entrants"
	StartupsFunded    = "startups_funded"
	Exits             = "exits"
	Acquisitions      = "acquisitions"
	UsersStudents     = "users_students"
	UsersTeachers     = "users_teachers"
	UsersInstitutions = "users_institutions"
)

// Market derived metrics.
const (
	AverageDealSize   = "average_deal_size"
	StartupChurnRatio = "startup_churn_ratio"
)

// Vendor base metrics.
const (
	AnnouncementsCount    = "announcements_count"
	NewInitiatives        = "new_initiatives"
	CumulativeInitiatives = "cumulative_initiatives"
	UserReachStudents     = "user_reach_students"
	UserReachTeachers     = "user_reach_teachers"
	UserReachInstitutions = "user_reach_institutions"
)

// Vendor derived metrics.
const (
	InitiativeMomentumPct = "initiative_momentum_pct"
)

// Units.
const (
	UnitUSD     = "USD"
	UnitCount   = "count"
	UnitRatio   = "ratio"
	UnitPercent = "percent"
)

// CalculatedSource is the provenance of every derived row.
const CalculatedSource = "calculated"

var derived = map[string]bool{
	AverageDealSize:       true,
	StartupChurnRatio:     true,
	InitiativeMomentumPct: true,
}

// IsDerived reports whether metric is computed rather than collected.
func IsDerived(metric string) bool {
	return derived[metric]
}

// PrimaryMarketMetrics are the base metrics shown in the market pivot, in
// display order.
var PrimaryMarketMetrics = []string{
	FundingTotal,
	DealsCount,
	NewEntrants,
	StartupsFunded,
	Exits,
	Acquisitions,
}

// VendorSummaryMetrics are the columns of the vendor summary, in order.
var VendorSummaryMetrics = []string{
	AnnouncementsCount,
	NewInitiatives,
	CumulativeInitiatives,
	InitiativeMomentumPct,
}
