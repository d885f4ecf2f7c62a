// Package taxonomy holds the closed enumerations shared by the classifier,
// the collectors and the aggregation engine, together with the keyword
// tables that drive classification.
package taxonomy

import (
	"strings"

	"codeberg.org/mutker/marketintel/internal/errors"
)

// Category is a market vertical.
type Category string

const (
	Tutoring       Category = "tutoring"
	Advising       Category = "advising"
	CreditMobility Category = "credit_mobility"

	// None marks text or rows that matched no vertical.
	None Category = "na"
)

var categories = []Category{Tutoring, Advising, CreditMobility}

// Categories returns the closed category set in enumeration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Valid reports whether c is a member of the closed set. None is not.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Index returns the enumeration position of c, or -1.
func (c Category) Index() int {
	for i, known := range categories {
		if c == known {
			return i
		}
	}
	return -1
}

func (c Category) String() string {
	return string(c)
}

// Title returns a display label such as "Credit Mobility".
func (c Category) Title() string {
	return Label(string(c))
}

// ParseCategory maps a stored label to a Category. Labels outside the closed
// set map to None.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return None
}

// Vendor is a hyperscaler.
type Vendor string

const (
	AWS       Vendor = "aws"
	Microsoft Vendor = "microsoft"
	Google    Vendor = "google"

	NoVendor Vendor = ""
)

var vendors = []Vendor{AWS, Microsoft, Google}

// Vendors returns the closed vendor set in enumeration order.
func Vendors() []Vendor {
	return append([]Vendor(nil), vendors...)
}

func (v Vendor) Valid() bool {
	for _, known := range vendors {
		if v == known {
			return true
		}
	}
	return false
}

func (v Vendor) String() string {
	return string(v)
}

// Title returns the vendor's display label.
func (v Vendor) Title() string {
	switch v {
	case AWS:
		return "AWS"
	case Microsoft:
		return "Microsoft"
	case Google:
		return "Google"
	default:
		return Label(string(v))
	}
}

// ParseVendor maps a stored label to a Vendor, or NoVendor.
func ParseVendor(s string) Vendor {
	v := Vendor(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v
	}
	return NoVendor
}

// SignalType is the kind of a context signal.
type SignalType string

const (
	Policy   SignalType = "policy"
	News     SignalType = "news"
	Adoption SignalType = "adoption_or_risk_signal"
)

var signalTypes = []SignalType{Policy, News, Adoption}

// SignalTypes returns the signal types in enumeration order.
func SignalTypes() []SignalType {
	return append([]SignalType(nil), signalTypes...)
}

func (t SignalType) String() string {
	return string(t)
}

func (t SignalType) Title() string {
	return Label(string(t))
}

// Sentiment is the keyword-derived tone of a signal.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Risk     Sentiment = "risk"
)

func (s Sentiment) String() string {
	return string(s)
}

// Taxonomy is the immutable keyword configuration for one run.
type Taxonomy struct {
	keywords   map[Category][]string
	positive   []string
	risk       []string
	initiative map[Vendor][]string
	baseline   map[Vendor]int
}

var (
	defaultKeywords = map[Category][]string{
		Tutoring: {
			"tutor", "homework", "practice", "lesson planning", "formative feedback",
			"copilot for teachers", "adaptive instruction", "personalized learning",
			"study help", "academic support", "learning assistance",
		},
		Advising: {
			"advising", "pathways", "navigation", "program planning", "career",
			"student success", "enrollment guidance", "course selection",
			"academic advising", "career guidance", "student support",
		},
		CreditMobility: {
			"credential", "skills", "competency", "credit transfer", "RPL",
			"micro-credential", "badging", "skills taxonomy", "prior learning",
			"competency-based", "alternative credentials",
		},
	}

	defaultPositive = []string{"success", "growth", "improvement", "launch", "expansion", "breakthrough", "innovation"}
	defaultRisk     = []string{"concern", "risk", "bias", "privacy", "security", "challenge", "problem", "issue"}

	baseInitiative   = []string{"initiative", "program", "pilot", "launch"}
	vendorInitiative = map[Vendor][]string{
		Microsoft: {"copilot"},
		Google:    {"classroom"},
	}

	defaultBaseline = map[Vendor]int{AWS: 5, Microsoft: 8, Google: 12}
)

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, _ := New(nil)
	return t
}

// New builds a taxonomy, replacing the keyword list of each category named in
// overrides. Override keys must name a category of the closed set.
func New(overrides map[string][]string) (*Taxonomy, error) {
	t := &Taxonomy{
		keywords:   make(map[Category][]string, len(categories)),
		positive:   lower(defaultPositive),
		risk:       lower(defaultRisk),
		initiative: make(map[Vendor][]string, len(vendors)),
		baseline:   make(map[Vendor]int, len(vendors)),
	}

	for _, c := range categories {
		t.keywords[c] = lower(defaultKeywords[c])
	}

	for name, words := range overrides {
		c := Category(strings.ToLower(strings.TrimSpace(name)))
		if !c.Valid() {
			return nil, errors.New().WithData(errors.ErrInvalidConfig, struct {
				Field string
				Value string
			}{"keywords", name})
		}
		t.keywords[c] = lower(words)
	}

	for _, v := range vendors {
		t.initiative[v] = lower(append(append([]string(nil), baseInitiative...), vendorInitiative[v]...))
		t.baseline[v] = defaultBaseline[v]
	}

	return t, nil
}

// Categories returns the closed category set this taxonomy classifies into.
func (t *Taxonomy) Categories() []Category {
	return Categories()
}

// Vendors returns the closed vendor set.
func (t *Taxonomy) Vendors() []Vendor {
	return Vendors()
}

// Keywords returns the lower-cased keyword list for c.
func (t *Taxonomy) Keywords(c Category) []string {
	return append([]string(nil), t.keywords[c]...)
}

func (t *Taxonomy) PositiveKeywords() []string {
	return append([]string(nil), t.positive...)
}

func (t *Taxonomy) RiskKeywords() []string {
	return append([]string(nil), t.risk...)
}

// InitiativeKeywords returns the keywords marking an announcement by v as a
// new initiative.
func (t *Taxonomy) InitiativeKeywords(v Vendor) []string {
	return append([]string(nil), t.initiative[v]...)
}

// Baseline is the estimated count of initiatives v had before the lookback
// window.
func (t *Taxonomy) Baseline(v Vendor) int {
	return t.baseline[v]
}

func lower(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Label turns a snake_case name into a display title.
func Label(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
