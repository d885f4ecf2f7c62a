package observation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Value is an optional measurement. The zero Value is absent, which is
// distinct from a measured zero.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present value.
func Some(f float64) Value {
	return Value{v: f, ok: true}
}

// Absent returns an absent value.
func Absent() Value {
	return Value{}
}

func (v Value) Get() (float64, bool) {
	return v.v, v.ok
}

func (v Value) Present() bool {
	return v.ok
}

// Or returns the value, or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.v
}

// OrFloor applies the default, then raises the result to at least floor.
// Every derived ratio reads its denominator through this.
func (v Value) OrFloor(def, floor float64) float64 {
	return math.Max(v.Or(def), floor)
}

// String formats the value for a table cell; absent is the empty string.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

var nonNumeric = regexp.MustCompile(`[^\d.,-]`)

// ParseValue reads a table cell. Empty or malformed input is absent.
// Currency symbols, units and thousands separators are tolerated, so
// "$1,500,000" parses as 1500000.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Absent()
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(f)
	}

	cleaned := strings.ReplaceAll(nonNumeric.ReplaceAllString(s, ""), ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Absent()
	}
	return finite(f)
}

func finite(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Absent()
	}
	return Some(f)
}
