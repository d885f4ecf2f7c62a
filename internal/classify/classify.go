// Package classify labels free text with a vertical, a sentiment and the
// user counts it mentions, using the keyword tables of a taxonomy.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/mutker/marketintel/internal/taxonomy"
)

// Classifier scores text against a fixed taxonomy. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	tax *taxonomy.Taxonomy
}

func New(tax *taxonomy.Taxonomy) *Classifier {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Classifier{tax: tax}
}

// Taxonomy returns the keyword configuration the classifier was built with.
func (c *Classifier) Taxonomy() *taxonomy.Taxonomy {
	return c.tax
}

// Classify returns the category whose keywords occur most often in text.
// Each keyword counts once however often it repeats. No match yields
// taxonomy.None; ties go to the category enumerated first.
func (c *Classifier) Classify(text string) taxonomy.Category {
	if text == "" {
		return taxonomy.None
	}

	lower := strings.ToLower(text)
	best, bestScore := taxonomy.None, 0
	for _, cat := range taxonomy.Categories() {
		score := countPresent(lower, c.tax.Keywords(cat))
		if score > bestScore {
			best, bestScore = cat, score
		}
	}

	return best
}

// Sentiment compares positive and risk keyword counts. Equal counts,
// including none at all, are neutral.
func (c *Classifier) Sentiment(text string) taxonomy.Sentiment {
	lower := strings.ToLower(text)
	positive := countPresent(lower, c.tax.PositiveKeywords())
	risk := countPresent(lower, c.tax.RiskKeywords())

	switch {
	case positive > risk:
		return taxonomy.Positive
	case risk > positive:
		return taxonomy.Risk
	default:
		return taxonomy.Neutral
	}
}

// IsInitiative reports whether an announcement by vendor describes a new
// initiative.
func (c *Classifier) IsInitiative(vendor taxonomy.Vendor, text string) bool {
	return countPresent(strings.ToLower(text), c.tax.InitiativeKeywords(vendor)) > 0
}

func countPresent(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// UserMetrics holds user counts mentioned in text. Zero means not found.
type UserMetrics struct {
	Students     int64
	Teachers     int64
	Institutions int64
}

var (
	studentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:,\d+)*)\s*students?`),
		regexp.MustCompile(`(\d+(?:,\d+)*)\s*pupils?`),
	}
	teacherPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:,\d+)*)\s*teachers?`),
		regexp.MustCompile(`(\d+(?:,\d+)*)\s*educators?`),
	}
	institutionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:,\d+)*)\s*schools?`),
		regexp.MustCompile(`(\d+(?:,\d+)*)\s*institutions?`),
		regexp.MustCompile(`(\d+(?:,\d+)*)\s*universities?`),
	}
)

// ExtractUserMetrics finds counts such as "1,200 students" in text. For each
// kind the first pattern that matches wins.
func ExtractUserMetrics(text string) UserMetrics {
	lower := strings.ToLower(text)
	return UserMetrics{
		Students:     firstCount(lower, studentPatterns),
		Teachers:     firstCount(lower, teacherPatterns),
		Institutions: firstCount(lower, institutionPatterns),
	}
}

func firstCount(text string, patterns []*regexp.Regexp) int64 {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
		if err != nil {
			continue
		}
		return n
	}
	return 0
}
